package testing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/infrastructure/repositories/memory"
)

// Fixture bundles the in-memory repositories of one test scenario
type Fixture struct {
	Assets   *memory.AssetRepository
	Racks    *memory.RackRepository
	Licences *memory.LicenceRepository
	Supports *memory.SupportRepository
}

// NewFixture creates empty in-memory repositories wired together
func NewFixture() *Fixture {
	assets := memory.NewAssetRepository(16)
	return &Fixture{
		Assets:   assets,
		Racks:    memory.NewRackRepository(assets),
		Licences: memory.NewLicenceRepository(),
		Supports: memory.NewSupportRepository(assets),
	}
}

// Reference records shared by the scenarios
var (
	Dell       = &entities.Manufacturer{ID: 1, Name: "Dell"}
	R630       = &entities.Model{ID: 1, Name: "R630", Manufacturer: Dell, HeightOfDevice: 2}
	R430       = &entities.Model{ID: 2, Name: "R430", Manufacturer: Dell, HeightOfDevice: 1}
	PowerVault = &entities.Model{ID: 3, Name: "MD3460", Manufacturer: Dell, HeightOfDevice: 4}
	Latitude   = &entities.Model{ID: 4, Name: "Latitude 7490", Manufacturer: Dell}
	Warsaw     = &entities.Warehouse{ID: 1, Name: "Warsaw"}
)

// BuildRackTestData builds a 10U rack (id 1) and an empty 4U rack (id 2).
//
//	front: R630 at 1-2 (asset 1), accessory at 4, R430 at 5 (asset 2)
//	back:  MD3460 at 3-6 (asset 3), accessory at 10
//
// Asset 4 is mounted at front 8 but deleted; asset 5 is a laptop outside any
// rack.
func BuildRackTestData() *Fixture {
	ctx := context.Background()
	f := NewFixture()

	for _, rack := range []*entities.Rack{
		{ID: 1, Name: "R-01", MaxUHeight: 10},
		{ID: 2, Name: "R-02", MaxUHeight: 4},
	} {
		if err := f.Racks.SaveRack(ctx, rack); err != nil {
			panic(err)
		}
	}

	rackOne := entities.RackID(1)
	assets := []*entities.Asset{
		MountedAsset(1, R630, "SN-1", "BC-1", rackOne, entities.Front, 1),
		MountedAsset(2, R430, "SN-2", "BC-2", rackOne, entities.Front, 5),
		MountedAsset(3, PowerVault, "SN-3", "BC-3", rackOne, entities.Back, 3),
		MountedAsset(4, R430, "SN-4", "BC-4", rackOne, entities.Front, 8),
		{
			ID:        5,
			Type:      entities.BackOffice,
			Model:     Latitude,
			Warehouse: Warsaw,
			Source:    entities.SourceShipment,
			Status:    entities.StatusUsed,
			SN:        Ptr("SN-5"),
			Price:     decimal.NewFromInt(900),
		},
	}
	assets[3].Deleted = true

	for _, asset := range assets {
		if err := f.Assets.SaveAsset(ctx, asset); err != nil {
			panic(err)
		}
	}

	for _, acc := range []*entities.RackAccessory{
		{RackID: rackOne, Orientation: entities.Front, Position: 4, AccessoryName: "shelf", Remarks: "console"},
		{RackID: rackOne, Orientation: entities.Back, Position: 10, AccessoryName: "blanking panel"},
	} {
		if err := f.Racks.SaveAccessory(ctx, acc); err != nil {
			panic(err)
		}
	}

	return f
}

// MountedAsset creates a data center asset placed in a rack
func MountedAsset(id entities.AssetID, model *entities.Model, sn, barcode string, rack entities.RackID, side entities.Orientation, position int) *entities.Asset {
	return &entities.Asset{
		ID:        id,
		Type:      entities.DataCenter,
		Model:     model,
		Warehouse: Warsaw,
		Source:    entities.SourceShipment,
		Status:    entities.StatusUsed,
		SN:        Ptr(sn),
		Barcode:   Ptr(barcode),
		URL:       "http://ralph/assets/" + sn,
		Price:     decimal.NewFromInt(1000),
		DeviceInfo: &entities.DeviceInfo{
			RackID:      &rack,
			Orientation: side,
			Position:    position,
			Size:        model.HeightOfDevice,
		},
	}
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
