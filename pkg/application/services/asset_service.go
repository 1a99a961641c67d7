package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/attachments"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/infrastructure/metrics"
)

// deprecatedBatchSize is the page size used when collecting a full report
const deprecatedBatchSize = 100

// AssetService manages asset records within a mode
type AssetService struct {
	assets repositories.AssetRepository
	events events.EventStore
	files  attachments.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewAssetService creates an asset service. files may be nil when
// attachments are not configured.
func NewAssetService(assets repositories.AssetRepository, eventStore events.EventStore, files attachments.Store, logger *zap.Logger) *AssetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{
		assets: assets,
		events: eventStore,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

// Create adds a new asset of the mode's asset type
func (s *AssetService) Create(ctx context.Context, mode entities.Mode, req dto.AssetRequest, user string) (*entities.Asset, error) {
	asset := &entities.Asset{Type: mode.AssetType(), SupportVoidReporting: true}
	if err := req.Apply(asset); err != nil {
		return nil, apperrors.Validation("invalid asset", err)
	}
	if err := asset.Validate(); err != nil {
		return nil, apperrors.Validation("invalid asset", err)
	}

	asset.Touch(user, s.now())
	if err := s.assets.SaveAsset(ctx, asset); err != nil {
		return nil, err
	}

	metrics.RecordSave("asset", "create")
	s.record(events.AssetStream(asset.ID), events.AssetCreatedEvent, user, events.AssetCreated{Asset: *asset})
	s.logger.Info("asset created", zap.Int64("asset_id", int64(asset.ID)), zap.String("user", user))
	return asset, nil
}

// Update replaces the editable fields of an asset
func (s *AssetService) Update(ctx context.Context, mode entities.Mode, id entities.AssetID, req dto.AssetRequest, user string) (*entities.Asset, error) {
	existing, err := s.Get(ctx, mode, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if err := req.Apply(&updated); err != nil {
		return nil, apperrors.Validation("invalid asset", err)
	}
	if err := updated.Validate(); err != nil {
		return nil, apperrors.Validation("invalid asset", err)
	}

	updated.Touch(user, s.now())
	if err := s.assets.SaveAsset(ctx, &updated); err != nil {
		return nil, err
	}

	metrics.RecordSave("asset", "update")
	s.record(events.AssetStream(id), events.AssetUpdatedEvent, user, events.AssetUpdated{
		OldAsset: *existing,
		NewAsset: updated,
		Comment:  req.Comment,
	})
	return &updated, nil
}

// Get returns an asset visible in mode
func (s *AssetService) Get(ctx context.Context, mode entities.Mode, id entities.AssetID) (*entities.Asset, error) {
	asset, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mode.Allows(asset.Type) {
		return nil, apperrors.NotFound("Asset", id)
	}
	return asset, nil
}

// Delete soft deletes an asset
func (s *AssetService) Delete(ctx context.Context, mode entities.Mode, id entities.AssetID, user string) error {
	if _, err := s.Get(ctx, mode, id); err != nil {
		return err
	}
	if err := s.assets.DeleteAsset(ctx, id, user); err != nil {
		return err
	}
	s.record(events.AssetStream(id), events.AssetDeletedEvent, user, events.AssetDeleted{AssetID: id})
	s.logger.Info("asset deleted", zap.Int64("asset_id", int64(id)), zap.String("user", user))
	return nil
}

// List returns one page of assets matching query
func (s *AssetService) List(ctx context.Context, query repositories.AssetQuery) (repositories.PageResult[*entities.Asset], error) {
	return s.assets.ListAssets(ctx, query)
}

// Deprecated returns every asset in mode whose support ended before today
func (s *AssetService) Deprecated(ctx context.Context, mode entities.Mode, today time.Time) ([]*entities.Asset, error) {
	today = entities.DateOf(today)
	query := repositories.AssetQuery{
		Mode:         mode,
		DeprecatedOn: &today,
		Page:         repositories.Page{Number: 1, Size: deprecatedBatchSize},
	}

	var deprecated []*entities.Asset
	for {
		result, err := s.assets.ListAssets(ctx, query)
		if err != nil {
			return nil, err
		}
		deprecated = append(deprecated, result.Items...)
		if query.Page.Number >= result.Pages() {
			break
		}
		query.Page.Number++
	}

	metrics.DeprecatedAssets.WithLabelValues(string(mode)).Set(float64(len(deprecated)))
	return deprecated, nil
}

// Parts returns the parts installed in a device
func (s *AssetService) Parts(ctx context.Context, mode entities.Mode, deviceID entities.AssetID) ([]*entities.Asset, error) {
	device, err := s.Get(ctx, mode, deviceID)
	if err != nil {
		return nil, err
	}
	if device.DataType() != "device" {
		return nil, apperrors.Validation(fmt.Sprintf("asset %d is not a device", deviceID), nil)
	}
	return s.assets.GetParts(ctx, deviceID)
}

// History returns the recorded changes of an asset, oldest first
func (s *AssetService) History(ctx context.Context, mode entities.Mode, id entities.AssetID) ([]events.Event, error) {
	if _, err := s.Get(ctx, mode, id); err != nil {
		return nil, err
	}
	if s.events == nil {
		return nil, nil
	}
	return s.events.ReadEvents(events.AssetStream(id), 1)
}

// Attach stores a file as the asset's office-info attachment and returns its
// key. A previous attachment is removed.
func (s *AssetService) Attach(ctx context.Context, mode entities.Mode, id entities.AssetID, filename string, body io.Reader, user string) (string, error) {
	if s.files == nil {
		return "", apperrors.New(apperrors.CodeValidation, "attachments are not configured")
	}
	asset, err := s.Get(ctx, mode, id)
	if err != nil {
		return "", err
	}

	key := attachments.NewKey(filename)
	if err := s.files.Put(ctx, key, body); err != nil {
		return "", apperrors.Internal("failed to store attachment", err)
	}

	var previous string
	if asset.OfficeInfo == nil {
		asset.OfficeInfo = &entities.OfficeInfo{}
	} else {
		info := *asset.OfficeInfo
		previous = info.Attachment
		asset.OfficeInfo = &info
	}
	asset.OfficeInfo.Attachment = key
	asset.Touch(user, s.now())

	if err := s.assets.SaveAsset(ctx, asset); err != nil {
		_ = s.files.Delete(ctx, key)
		return "", err
	}
	if previous != "" {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to remove replaced attachment", zap.String("key", previous), zap.Error(err))
		}
	}

	s.record(events.AssetStream(id), events.AttachmentStoredEvent, user, events.AttachmentStored{AssetID: id, Key: key})
	return key, nil
}

// OpenAttachment returns the content of the asset's attachment
func (s *AssetService) OpenAttachment(ctx context.Context, mode entities.Mode, id entities.AssetID) (io.ReadCloser, string, error) {
	if s.files == nil {
		return nil, "", apperrors.New(apperrors.CodeValidation, "attachments are not configured")
	}
	asset, err := s.Get(ctx, mode, id)
	if err != nil {
		return nil, "", err
	}
	if asset.OfficeInfo == nil || asset.OfficeInfo.Attachment == "" {
		return nil, "", apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("Asset with id `%d` has no attachment", id))
	}
	rc, err := s.files.Open(ctx, asset.OfficeInfo.Attachment)
	if err != nil {
		return nil, "", apperrors.Internal("failed to open attachment", err)
	}
	return rc, asset.OfficeInfo.Attachment, nil
}

func (s *AssetService) record(stream, eventType, user string, data interface{}) {
	recordEvent(s.events, s.logger, stream, eventType, user, data)
}

// recordEvent appends to the audit history. Failures are logged and do not
// fail the save that triggered them.
func recordEvent(store events.EventStore, logger *zap.Logger, stream, eventType, user string, data interface{}) {
	if store == nil {
		return
	}
	if err := store.AppendEvent(stream, events.NewEvent(eventType, stream, user, data)); err != nil {
		logger.Warn("failed to record event",
			zap.String("stream", stream),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
