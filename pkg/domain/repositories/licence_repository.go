package repositories

import (
	"context"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// LicenceRepository provides access to software licences
type LicenceRepository interface {
	GetLicence(ctx context.Context, id entities.LicenceID) (*entities.Licence, error)
	ListLicences(ctx context.Context, query LicenceQuery) (PageResult[*entities.Licence], error)
	SaveLicence(ctx context.Context, licence *entities.Licence) error
}

// SoftwareCategoryRepository provides access to software categories
type SoftwareCategoryRepository interface {
	ListSoftwareCategories(ctx context.Context, name TextFilter, page Page) (PageResult[*entities.SoftwareCategory], error)
	SaveSoftwareCategory(ctx context.Context, category *entities.SoftwareCategory) error
}
