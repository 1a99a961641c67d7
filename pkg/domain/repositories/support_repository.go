package repositories

import (
	"context"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// SupportRepository provides access to support contracts
type SupportRepository interface {
	GetSupport(ctx context.Context, id entities.SupportID) (*entities.Support, error)
	ListSupports(ctx context.Context, query SupportQuery) (PageResult[*entities.Support], error)
	SaveSupport(ctx context.Context, support *entities.Support) error
}
