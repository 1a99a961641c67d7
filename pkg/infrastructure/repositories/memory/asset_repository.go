package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// AssetRepository provides in-memory asset storage
type AssetRepository struct {
	mu     sync.RWMutex
	assets map[entities.AssetID]*entities.Asset
	nextID entities.AssetID
}

// NewAssetRepository creates a new in-memory asset repository
func NewAssetRepository(expectedAssets int) *AssetRepository {
	return &AssetRepository{
		assets: make(map[entities.AssetID]*entities.Asset, expectedAssets),
		nextID: 1,
	}
}

// Verify interface compliance
var _ repositories.AssetRepository = (*AssetRepository)(nil)

// LoadAssets loads assets into the repository
func (r *AssetRepository) LoadAssets(assets []*entities.Asset) error {
	for _, asset := range assets {
		if err := r.SaveAsset(context.Background(), asset); err != nil {
			return err
		}
	}
	return nil
}

// SaveAsset inserts or replaces an asset. New assets get the next free id,
// which is written back to the argument.
func (r *AssetRepository) SaveAsset(_ context.Context, asset *entities.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(asset); err != nil {
		return err
	}

	if asset.ID == 0 {
		asset.ID = r.nextID
	}
	if asset.ID >= r.nextID {
		r.nextID = asset.ID + 1
	}

	stored := *asset
	r.assets[asset.ID] = &stored
	return nil
}

func (r *AssetRepository) checkUnique(asset *entities.Asset) error {
	for id, existing := range r.assets {
		if id == asset.ID {
			continue
		}
		if asset.SN != nil && existing.SN != nil && *asset.SN == *existing.SN {
			return apperrors.Conflict(fmt.Sprintf("asset with sn %s already exists", *asset.SN))
		}
		if asset.Barcode != nil && existing.Barcode != nil && *asset.Barcode == *existing.Barcode {
			return apperrors.Conflict(fmt.Sprintf("asset with barcode %s already exists", *asset.Barcode))
		}
	}
	return nil
}

// GetAsset returns a non-deleted asset
func (r *AssetRepository) GetAsset(_ context.Context, id entities.AssetID) (*entities.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists || asset.Deleted {
		return nil, apperrors.NotFound("Asset", id)
	}
	found := *asset
	return &found, nil
}

// ListAssets returns assets matching the query ordered by id
func (r *AssetRepository) ListAssets(_ context.Context, query repositories.AssetQuery) (repositories.PageResult[*entities.Asset], error) {
	matched := r.filter(func(a *entities.Asset) bool { return matchAsset(a, query) })
	return repositories.Paginate(matched, query.Page), nil
}

func matchAsset(a *entities.Asset, q repositories.AssetQuery) bool {
	if a.Deleted && !q.IncludeDeleted {
		return false
	}
	if q.Mode != "" && !q.Mode.Allows(a.Type) {
		return false
	}
	if q.Status != nil && a.Status != *q.Status {
		return false
	}
	if !q.SN.Empty() && (a.SN == nil || !q.SN.Matches(*a.SN)) {
		return false
	}
	if !q.Barcode.Empty() && (a.Barcode == nil || !q.Barcode.Matches(*a.Barcode)) {
		return false
	}
	if q.RackID != nil && (a.DeviceInfo == nil || a.DeviceInfo.RackID == nil || *a.DeviceInfo.RackID != *q.RackID) {
		return false
	}
	if q.DeprecatedOn != nil && !a.IsDeprecated(*q.DeprecatedOn) {
		return false
	}
	return true
}

// DeleteAsset soft deletes an asset
func (r *AssetRepository) DeleteAsset(_ context.Context, id entities.AssetID, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, exists := r.assets[id]
	if !exists || asset.Deleted {
		return apperrors.NotFound("Asset", id)
	}
	asset.SoftDelete(user, now())
	return nil
}

// GetParts returns the non-deleted parts installed in a device
func (r *AssetRepository) GetParts(_ context.Context, deviceID entities.AssetID) ([]*entities.Asset, error) {
	return r.filter(func(a *entities.Asset) bool {
		return !a.Deleted && a.PartInfo != nil && a.PartInfo.DeviceID != nil && *a.PartInfo.DeviceID == deviceID
	}), nil
}

// filter returns copies of the matching assets ordered by id
func (r *AssetRepository) filter(keep func(*entities.Asset) bool) []*entities.Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Asset
	for _, asset := range r.assets {
		if keep(asset) {
			found := *asset
			result = append(result, &found)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
