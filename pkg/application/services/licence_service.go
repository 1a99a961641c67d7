package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/infrastructure/metrics"
)

// LicencePageSize is the number of licences per listing page
const LicencePageSize = 10

// LicenceService manages software licences and their categories
type LicenceService struct {
	licences   repositories.LicenceRepository
	categories repositories.SoftwareCategoryRepository
	events     events.EventStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewLicenceService creates a licence service
func NewLicenceService(licences repositories.LicenceRepository, categories repositories.SoftwareCategoryRepository, eventStore events.EventStore, logger *zap.Logger) *LicenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LicenceService{
		licences:   licences,
		categories: categories,
		events:     eventStore,
		logger:     logger,
		now:        time.Now,
	}
}

// Add creates one licence per (sn, niw) pair of the request
func (s *LicenceService) Add(ctx context.Context, mode entities.Mode, req dto.LicenceRequest, user string) ([]*entities.Licence, error) {
	if len(req.SN) == 0 || len(req.NIW) == 0 {
		return nil, apperrors.Validation("sn and niw are required", nil)
	}
	if len(req.SN) != len(req.NIW) {
		return nil, apperrors.Validation(
			fmt.Sprintf("got %d serial numbers and %d inventory numbers", len(req.SN), len(req.NIW)), nil)
	}

	var created []*entities.Licence
	for i := range req.SN {
		licence, err := s.build(ctx, mode, req, &entities.Licence{})
		if err != nil {
			return nil, err
		}
		licence.SN = strings.TrimSpace(req.SN[i])
		licence.NIW = strings.TrimSpace(req.NIW[i])
		if err := licence.Validate(); err != nil {
			return nil, apperrors.Validation("invalid licence", err)
		}

		licence.Touch(user, s.now())
		if err := s.licences.SaveLicence(ctx, licence); err != nil {
			return nil, err
		}
		metrics.RecordSave("licence", "create")
		recordEvent(s.events, s.logger, events.LicenceStream(licence.ID), events.LicenceCreatedEvent, user, events.LicenceSaved{Licence: *licence})
		created = append(created, licence)
	}

	s.logger.Info("licences added", zap.Int("count", len(created)), zap.String("user", user))
	return created, nil
}

// Edit updates a licence. The request may carry at most one (sn, niw) pair.
func (s *LicenceService) Edit(ctx context.Context, mode entities.Mode, id entities.LicenceID, req dto.LicenceRequest, user string) (*entities.Licence, error) {
	if len(req.SN) > 1 || len(req.NIW) > 1 {
		return nil, apperrors.Validation("only one sn and niw can be set when editing a licence", nil)
	}

	existing, err := s.Get(ctx, mode, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if _, err := s.build(ctx, mode, req, &updated); err != nil {
		return nil, err
	}
	if len(req.SN) == 1 {
		updated.SN = strings.TrimSpace(req.SN[0])
	}
	if len(req.NIW) == 1 {
		updated.NIW = strings.TrimSpace(req.NIW[0])
	}
	if err := updated.Validate(); err != nil {
		return nil, apperrors.Validation("invalid licence", err)
	}

	updated.Touch(user, s.now())
	if err := s.licences.SaveLicence(ctx, &updated); err != nil {
		return nil, err
	}
	metrics.RecordSave("licence", "update")
	recordEvent(s.events, s.logger, events.LicenceStream(id), events.LicenceUpdatedEvent, user, events.LicenceSaved{Licence: updated})
	return &updated, nil
}

// Get returns a licence visible in mode
func (s *LicenceService) Get(ctx context.Context, mode entities.Mode, id entities.LicenceID) (*entities.Licence, error) {
	licence, err := s.licences.GetLicence(ctx, id)
	if err != nil {
		return nil, err
	}
	if licence.AssetType != nil && !mode.Allows(*licence.AssetType) {
		return nil, apperrors.NotFound("Licence", id)
	}
	return licence, nil
}

// List returns a page of licences in mode
func (s *LicenceService) List(ctx context.Context, query repositories.LicenceQuery) (repositories.PageResult[*entities.Licence], error) {
	query.Page.Size = LicencePageSize
	return s.licences.ListLicences(ctx, query)
}

// Categories returns software categories whose name contains name
func (s *LicenceService) Categories(ctx context.Context, name string, page repositories.Page) (repositories.PageResult[*entities.SoftwareCategory], error) {
	return s.categories.ListSoftwareCategories(ctx, repositories.TextFilter(name), page)
}

// build applies req onto licence, defaults the asset type from mode and
// resolves the software category, creating it when missing
func (s *LicenceService) build(ctx context.Context, mode entities.Mode, req dto.LicenceRequest, licence *entities.Licence) (*entities.Licence, error) {
	if err := req.Apply(licence); err != nil {
		return nil, apperrors.Validation("invalid licence", err)
	}
	if licence.AssetType == nil {
		assetType := mode.AssetType()
		licence.AssetType = &assetType
	}
	if !mode.Allows(*licence.AssetType) {
		return nil, apperrors.Validation(
			fmt.Sprintf("asset type %s is not available in %s mode", licence.AssetType, mode), nil)
	}

	category, err := s.category(ctx, licence.SoftwareCategory.Name, *licence.AssetType)
	if err != nil {
		return nil, err
	}
	licence.SoftwareCategory = category
	return licence, nil
}

func (s *LicenceService) category(ctx context.Context, name string, assetType entities.AssetType) (*entities.SoftwareCategory, error) {
	page := repositories.Page{Number: 1, Size: 100}
	for {
		result, err := s.categories.ListSoftwareCategories(ctx, repositories.TextFilter(name), page)
		if err != nil {
			return nil, err
		}
		for _, category := range result.Items {
			if category.Name == name {
				return category, nil
			}
		}
		if page.Number >= result.Pages() {
			break
		}
		page.Number++
	}

	category := &entities.SoftwareCategory{Name: name, AssetType: assetType}
	if err := s.categories.SaveSoftwareCategory(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("software category created", zap.String("name", name))
	return category, nil
}
