package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/application/services"
	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	"github.com/vsinha/itam/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	// Create repositories
	assetRepo := memory.NewAssetRepository(8)
	rackRepo := memory.NewRackRepository(assetRepo)

	// Set up one rack with a few servers and a shelf
	if err := setupServerRoom(ctx, assetRepo, rackRepo); err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	rackService := services.NewRackInfoService(rackRepo, logger)
	assetService := services.NewAssetService(assetRepo, events.NewInMemoryEventStore(logger), nil, logger)

	fmt.Println("🗄  Resolving rack A01...")
	info, err := rackService.RackInfo(ctx, 1)
	if err != nil {
		fmt.Printf("❌ Rack lookup failed: %v\n", err)
		return
	}

	for _, side := range info.Sides {
		fmt.Printf("\n%s side of %s (%dU):\n", side.Type, info.Name, info.MaxUHeight)
		var free []int
		for _, item := range side.Items {
			switch slot := item.(type) {
			case dto.AssetSlot:
				fmt.Printf("  U%-3d %s (%dU)\n", slot.Position, slot.Model, slot.Height)
			case dto.AccessorySlot:
				fmt.Printf("  U%-3d %s\n", slot.Position, slot.AccessoryType)
			case dto.EmptySlot:
				free = append(free, slot.Position)
			}
		}
		fmt.Printf("  Free units: %v\n", free)
	}

	today := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	deprecated, err := assetService.Deprecated(ctx, entities.ModeDC, today)
	if err != nil {
		fmt.Printf("❌ Deprecation check failed: %v\n", err)
		return
	}

	fmt.Printf("\n⚠️  Out of support on %s: %d\n", today.Format(dto.DateLayout), len(deprecated))
	for _, asset := range deprecated {
		date, _ := asset.DeprecationDate()
		fmt.Printf("  %s (support ended %s)\n", asset, date.Format(dto.DateLayout))
	}
}

func setupServerRoom(ctx context.Context, assets *memory.AssetRepository, racks *memory.RackRepository) error {
	rack, err := entities.NewRack(1, "A01", 12)
	if err != nil {
		return err
	}
	if err := racks.SaveRack(ctx, rack); err != nil {
		return err
	}

	dell := &entities.Manufacturer{ID: 1, Name: "Dell"}
	warehouse := &entities.Warehouse{ID: 1, Name: "Warsaw"}
	servers := []struct {
		model    *entities.Model
		sn       string
		side     entities.Orientation
		position int
		invoiced time.Time
		months   int
	}{
		{&entities.Model{ID: 1, Name: "R630", Manufacturer: dell, HeightOfDevice: 2}, "SN-R630-1", entities.Front, 1, time.Date(2019, 5, 31, 0, 0, 0, 0, time.UTC), 36},
		{&entities.Model{ID: 2, Name: "R740", Manufacturer: dell, HeightOfDevice: 2}, "SN-R740-1", entities.Front, 4, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), 60},
		{&entities.Model{ID: 3, Name: "MD3460", Manufacturer: dell, HeightOfDevice: 4}, "SN-MD-1", entities.Back, 6, time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC), 48},
	}

	for _, s := range servers {
		asset, err := entities.NewAsset(entities.DataCenter, s.model, warehouse, entities.SourceShipment, s.months, "")
		if err != nil {
			return err
		}
		rackID := rack.ID
		sn, invoiced, months := s.sn, s.invoiced, s.months
		asset.SN = &sn
		asset.InvoiceDate = &invoiced
		asset.SupportPeriod = &months
		asset.Price = decimal.NewFromInt(4500)
		asset.DeviceInfo = &entities.DeviceInfo{RackID: &rackID, Orientation: s.side, Position: s.position, Size: s.model.HeightOfDevice}
		if err := assets.SaveAsset(ctx, asset); err != nil {
			return err
		}
	}

	return racks.SaveAccessory(ctx, &entities.RackAccessory{
		RackID:        rack.ID,
		Orientation:   entities.Front,
		Position:      3,
		AccessoryName: "blanking panel",
	})
}
