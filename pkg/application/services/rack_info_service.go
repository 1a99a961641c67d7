package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/metrics"
)

// RackInfoService builds the rack visualization: for every side, the mounted
// assets, the accessories and the free units between them
type RackInfoService struct {
	racks  repositories.RackRepository
	logger *zap.Logger
}

// NewRackInfoService creates a rack visualization service
func NewRackInfoService(racks repositories.RackRepository, logger *zap.Logger) *RackInfoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RackInfoService{racks: racks, logger: logger}
}

// RackInfo returns the occupancy of both sides of a rack
func (s *RackInfoService) RackInfo(ctx context.Context, id entities.RackID) (*dto.RackInfo, error) {
	rack, err := s.racks.GetRack(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &dto.RackInfo{
		ID:         rack.ID,
		Name:       rack.Name,
		MaxUHeight: rack.MaxUHeight,
		Sides:      make([]dto.RackSide, 0, len(entities.Orientations)),
	}
	for _, side := range entities.Orientations {
		items, err := s.sideItems(ctx, rack, side)
		if err != nil {
			return nil, err
		}
		info.Sides = append(info.Sides, dto.RackSide{Type: side.String(), Items: items})
	}
	return info, nil
}

func (s *RackInfoService) sideItems(ctx context.Context, rack *entities.Rack, side entities.Orientation) ([]dto.RackItem, error) {
	assets, err := s.racks.GetMountedAssets(ctx, rack.ID, side)
	if err != nil {
		return nil, err
	}
	accessories, err := s.racks.GetAccessories(ctx, rack.ID, side)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RackItem, 0, len(assets)+len(accessories)+rack.MaxUHeight)
	for _, asset := range assets {
		items = append(items, dto.NewAssetSlot(asset))
	}
	for _, accessory := range accessories {
		items = append(items, dto.NewAccessorySlot(accessory))
	}

	placed := make([]entities.PlacedItem, 0, len(items))
	for _, item := range items {
		placed = append(placed, dto.Placement(item))
	}

	empty, err := entities.ResolveEmpty(rack.MaxUHeight, placed)
	metrics.ObserveRackSide(int64(rack.ID), side.String(), len(empty), err)
	if err != nil {
		return nil, apperrors.Internal(fmt.Sprintf("rack %d has no usable units", rack.ID), err)
	}

	for _, position := range empty {
		items = append(items, dto.NewEmptySlot(position))
	}

	s.logger.Debug("resolved rack side",
		zap.Int64("rack_id", int64(rack.ID)),
		zap.String("side", side.String()),
		zap.Int("assets", len(assets)),
		zap.Int("accessories", len(accessories)),
		zap.Int("empty", len(empty)),
	)
	return items, nil
}
