package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/infrastructure/metrics"
)

// SupportService manages support contracts
type SupportService struct {
	supports repositories.SupportRepository
	assets   repositories.AssetRepository
	events   events.EventStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewSupportService creates a support service
func NewSupportService(supports repositories.SupportRepository, assets repositories.AssetRepository, eventStore events.EventStore, logger *zap.Logger) *SupportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{
		supports: supports,
		assets:   assets,
		events:   eventStore,
		logger:   logger,
		now:      time.Now,
	}
}

// Add creates a support contract of the mode's asset type
func (s *SupportService) Add(ctx context.Context, mode entities.Mode, req dto.SupportRequest, user string) (*entities.Support, error) {
	support := &entities.Support{AssetType: mode.AssetType()}
	if err := s.apply(ctx, mode, req, support); err != nil {
		return nil, err
	}

	support.Touch(user, s.now())
	if err := s.supports.SaveSupport(ctx, support); err != nil {
		return nil, err
	}
	metrics.RecordSave("support", "create")
	recordEvent(s.events, s.logger, events.SupportStream(support.ID), events.SupportCreatedEvent, user, events.SupportSaved{Support: *support})
	s.logger.Info("support added", zap.Int64("support_id", int64(support.ID)), zap.String("user", user))
	return support, nil
}

// Edit updates a support contract. The created date and asset type are
// kept from the stored record.
func (s *SupportService) Edit(ctx context.Context, mode entities.Mode, id entities.SupportID, req dto.SupportRequest, user string) (*entities.Support, error) {
	existing, err := s.Get(ctx, mode, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if err := s.apply(ctx, mode, req, &updated); err != nil {
		return nil, err
	}
	updated.Created = existing.Created
	updated.CreatedBy = existing.CreatedBy

	updated.Touch(user, s.now())
	if err := s.supports.SaveSupport(ctx, &updated); err != nil {
		return nil, err
	}
	metrics.RecordSave("support", "update")
	recordEvent(s.events, s.logger, events.SupportStream(id), events.SupportUpdatedEvent, user, events.SupportSaved{Support: updated})
	return &updated, nil
}

// Get returns a support contract visible in mode
func (s *SupportService) Get(ctx context.Context, mode entities.Mode, id entities.SupportID) (*entities.Support, error) {
	support, err := s.supports.GetSupport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mode.Allows(support.AssetType) {
		return nil, apperrors.NotFound("Support", id)
	}
	return support, nil
}

// Search returns a page of support contracts matching query
func (s *SupportService) Search(ctx context.Context, query repositories.SupportQuery) (repositories.PageResult[*entities.Support], error) {
	return s.supports.ListSupports(ctx, query)
}

// apply copies req onto support and checks that every assigned asset exists
// in mode
func (s *SupportService) apply(ctx context.Context, mode entities.Mode, req dto.SupportRequest, support *entities.Support) error {
	if err := req.Apply(support); err != nil {
		return apperrors.Validation("invalid support", err)
	}
	if err := support.Validate(); err != nil {
		return apperrors.Validation("invalid support", err)
	}

	for _, id := range support.AssetIDs {
		asset, err := s.assets.GetAsset(ctx, id)
		if apperrors.IsNotFound(err) || (err == nil && !mode.Allows(asset.Type)) {
			return apperrors.Validation("invalid support", apperrors.NotFound("Asset", id))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
