package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// LicenceRepository provides in-memory licence and software category storage
type LicenceRepository struct {
	mu         sync.RWMutex
	licences   map[entities.LicenceID]*entities.Licence
	categories []entities.SoftwareCategory
	nextID     entities.LicenceID
}

// NewLicenceRepository creates a new in-memory licence repository
func NewLicenceRepository() *LicenceRepository {
	return &LicenceRepository{
		licences: make(map[entities.LicenceID]*entities.Licence),
		nextID:   1,
	}
}

// Verify interface compliance
var (
	_ repositories.LicenceRepository          = (*LicenceRepository)(nil)
	_ repositories.SoftwareCategoryRepository = (*LicenceRepository)(nil)
)

// LoadLicences loads licences into the repository
func (r *LicenceRepository) LoadLicences(licences []*entities.Licence) error {
	for _, licence := range licences {
		if err := r.SaveLicence(context.Background(), licence); err != nil {
			return err
		}
	}
	return nil
}

// GetLicence returns a licence by id
func (r *LicenceRepository) GetLicence(_ context.Context, id entities.LicenceID) (*entities.Licence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	licence, exists := r.licences[id]
	if !exists || licence.Deleted {
		return nil, apperrors.NotFound("Licence", id)
	}
	found := *licence
	return &found, nil
}

// SaveLicence inserts or replaces a licence
func (r *LicenceRepository) SaveLicence(_ context.Context, licence *entities.Licence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if licence.ID == 0 {
		licence.ID = r.nextID
	}
	if licence.ID >= r.nextID {
		r.nextID = licence.ID + 1
	}
	stored := *licence
	r.licences[licence.ID] = &stored
	return nil
}

// ListLicences returns licences matching the query ordered by id
func (r *LicenceRepository) ListLicences(_ context.Context, query repositories.LicenceQuery) (repositories.PageResult[*entities.Licence], error) {
	r.mu.RLock()
	var matched []*entities.Licence
	for _, licence := range r.licences {
		if matchLicence(licence, query) {
			found := *licence
			matched = append(matched, &found)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return repositories.Paginate(matched, query.Page), nil
}

func matchLicence(l *entities.Licence, q repositories.LicenceQuery) bool {
	if l.Deleted {
		return false
	}
	if q.Mode != "" && l.AssetType != nil && !q.Mode.Allows(*l.AssetType) {
		return false
	}
	if q.SoftwareCategoryID != nil && (l.SoftwareCategory == nil || l.SoftwareCategory.ID != *q.SoftwareCategoryID) {
		return false
	}
	if q.ManufacturerID != nil && (l.Manufacturer == nil || l.Manufacturer.ID != *q.ManufacturerID) {
		return false
	}
	if q.LicenceTypeID != nil && (l.LicenceType == nil || l.LicenceType.ID != *q.LicenceTypeID) {
		return false
	}
	return q.NIW.Matches(l.NIW) &&
		q.SN.Matches(l.SN) &&
		q.PropertyOf.Matches(l.PropertyOf) &&
		q.InvoiceDate.Matches(l.InvoiceDate)
}

// SaveSoftwareCategory inserts or replaces a software category
func (r *LicenceRepository) SaveSoftwareCategory(_ context.Context, category *entities.SoftwareCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if category.ID != 0 && r.categories[i].ID == category.ID {
			r.categories[i] = *category
			return nil
		}
		if r.categories[i].Name == category.Name {
			return apperrors.Conflict("software category " + category.Name + " already exists")
		}
	}
	if category.ID == 0 {
		category.ID = int64(len(r.categories) + 1)
	}
	r.categories = append(r.categories, *category)
	return nil
}

// ListSoftwareCategories returns categories ordered by name
func (r *LicenceRepository) ListSoftwareCategories(_ context.Context, name repositories.TextFilter, page repositories.Page) (repositories.PageResult[*entities.SoftwareCategory], error) {
	r.mu.RLock()
	var matched []*entities.SoftwareCategory
	for i := range r.categories {
		category := r.categories[i]
		if name.Matches(category.Name) {
			matched = append(matched, &category)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return repositories.Paginate(matched, page), nil
}
