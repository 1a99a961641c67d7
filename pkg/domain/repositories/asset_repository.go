package repositories

import (
	"context"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// AssetRepository provides access to asset records
type AssetRepository interface {
	GetAsset(ctx context.Context, id entities.AssetID) (*entities.Asset, error)
	ListAssets(ctx context.Context, query AssetQuery) (PageResult[*entities.Asset], error)
	SaveAsset(ctx context.Context, asset *entities.Asset) error
	DeleteAsset(ctx context.Context, id entities.AssetID, user string) error

	// GetParts returns the part assets installed in a device
	GetParts(ctx context.Context, deviceID entities.AssetID) ([]*entities.Asset, error)
}
