package repositories

import (
	"context"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// RackRepository provides access to racks and what is mounted in them
type RackRepository interface {
	GetRack(ctx context.Context, id entities.RackID) (*entities.Rack, error)
	SaveRack(ctx context.Context, rack *entities.Rack) error

	// GetMountedAssets returns the non-deleted assets whose device info
	// places them on the given side of the rack
	GetMountedAssets(ctx context.Context, id entities.RackID, side entities.Orientation) ([]*entities.Asset, error)
	GetAccessories(ctx context.Context, id entities.RackID, side entities.Orientation) ([]*entities.RackAccessory, error)
	SaveAccessory(ctx context.Context, accessory *entities.RackAccessory) error
}
