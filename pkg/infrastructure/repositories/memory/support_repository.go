package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// SupportRepository provides in-memory support contract storage
type SupportRepository struct {
	mu       sync.RWMutex
	supports map[entities.SupportID]*entities.Support
	nextID   entities.SupportID
	assets   *AssetRepository
}

// NewSupportRepository creates a new in-memory support repository. The asset
// repository resolves serial numbers when searching by assigned asset.
func NewSupportRepository(assets *AssetRepository) *SupportRepository {
	return &SupportRepository{
		supports: make(map[entities.SupportID]*entities.Support),
		nextID:   1,
		assets:   assets,
	}
}

// Verify interface compliance
var _ repositories.SupportRepository = (*SupportRepository)(nil)

// GetSupport returns a support contract by id
func (r *SupportRepository) GetSupport(_ context.Context, id entities.SupportID) (*entities.Support, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	support, exists := r.supports[id]
	if !exists || support.Deleted {
		return nil, apperrors.NotFound("Support", id)
	}
	return cloneSupport(support), nil
}

// SaveSupport inserts or replaces a support contract
func (r *SupportRepository) SaveSupport(_ context.Context, support *entities.Support) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if support.ID == 0 {
		support.ID = r.nextID
	}
	if support.ID >= r.nextID {
		r.nextID = support.ID + 1
	}
	r.supports[support.ID] = cloneSupport(support)
	return nil
}

// ListSupports returns support contracts matching the query ordered by id
func (r *SupportRepository) ListSupports(ctx context.Context, query repositories.SupportQuery) (repositories.PageResult[*entities.Support], error) {
	r.mu.RLock()
	var candidates []*entities.Support
	for _, support := range r.supports {
		if matchSupport(support, query) {
			candidates = append(candidates, cloneSupport(support))
		}
	}
	r.mu.RUnlock()

	matched := candidates[:0]
	for _, support := range candidates {
		if query.AssetSN.Empty() || r.coversSN(ctx, support, query.AssetSN) {
			matched = append(matched, support)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return repositories.Paginate(matched, query.Page), nil
}

func matchSupport(s *entities.Support, q repositories.SupportQuery) bool {
	if s.Deleted {
		return false
	}
	if q.Mode != "" && !q.Mode.Allows(s.AssetType) {
		return false
	}
	if q.SupportTypeID != nil && (s.SupportType == nil || s.SupportType.ID != *q.SupportTypeID) {
		return false
	}
	return q.ContractID.Matches(s.ContractID) &&
		q.Name.Matches(s.Name) &&
		q.Description.Matches(s.Description) &&
		q.AdditionalNotes.Matches(s.AdditionalNotes) &&
		q.Region.Matches(s.Region) &&
		q.DateFrom.Matches(s.DateFrom) &&
		q.DateTo.Matches(s.DateTo)
}

func (r *SupportRepository) coversSN(ctx context.Context, s *entities.Support, sn repositories.TextFilter) bool {
	if r.assets == nil {
		return false
	}
	for _, id := range s.AssetIDs {
		asset, err := r.assets.GetAsset(ctx, id)
		if err != nil || asset.SN == nil {
			continue
		}
		if sn.Matches(*asset.SN) {
			return true
		}
	}
	return false
}

func cloneSupport(s *entities.Support) *entities.Support {
	c := *s
	c.AssetIDs = append([]entities.AssetID(nil), s.AssetIDs...)
	return &c
}
