package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// RackRepository provides in-memory rack storage. Mounted assets are read
// from the asset repository through their device info.
type RackRepository struct {
	mu          sync.RWMutex
	racks       map[entities.RackID]*entities.Rack
	accessories []entities.RackAccessory
	assets      *AssetRepository
}

// NewRackRepository creates a new in-memory rack repository
func NewRackRepository(assets *AssetRepository) *RackRepository {
	return &RackRepository{
		racks:  make(map[entities.RackID]*entities.Rack),
		assets: assets,
	}
}

// Verify interface compliance
var _ repositories.RackRepository = (*RackRepository)(nil)

// GetRack returns a rack by id
func (r *RackRepository) GetRack(_ context.Context, id entities.RackID) (*entities.Rack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rack, exists := r.racks[id]
	if !exists || rack.Deleted {
		return nil, apperrors.NotFound("Rack", id)
	}
	found := *rack
	return &found, nil
}

// SaveRack inserts or replaces a rack
func (r *RackRepository) SaveRack(_ context.Context, rack *entities.Rack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rack.ID == 0 {
		rack.ID = entities.RackID(len(r.racks) + 1)
		for r.racks[rack.ID] != nil {
			rack.ID++
		}
	}
	stored := *rack
	r.racks[rack.ID] = &stored
	return nil
}

// GetMountedAssets returns the assets mounted on one side of a rack
func (r *RackRepository) GetMountedAssets(_ context.Context, id entities.RackID, side entities.Orientation) ([]*entities.Asset, error) {
	return r.assets.filter(func(a *entities.Asset) bool {
		if a.Deleted || a.DeviceInfo == nil || a.DeviceInfo.RackID == nil {
			return false
		}
		return *a.DeviceInfo.RackID == id && a.DeviceInfo.Orientation == side
	}), nil
}

// GetAccessories returns the accessories mounted on one side of a rack,
// ordered by position
func (r *RackRepository) GetAccessories(_ context.Context, id entities.RackID, side entities.Orientation) ([]*entities.RackAccessory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.RackAccessory
	for i := range r.accessories {
		acc := r.accessories[i]
		if acc.RackID == id && acc.Orientation == side {
			result = append(result, &acc)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

// SaveAccessory inserts or replaces an accessory
func (r *RackRepository) SaveAccessory(_ context.Context, accessory *entities.RackAccessory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if accessory.ID != 0 {
		for i := range r.accessories {
			if r.accessories[i].ID == accessory.ID {
				r.accessories[i] = *accessory
				return nil
			}
		}
	} else {
		for _, existing := range r.accessories {
			if existing.ID > accessory.ID {
				accessory.ID = existing.ID
			}
		}
		accessory.ID++
	}
	r.accessories = append(r.accessories, *accessory)
	return nil
}
