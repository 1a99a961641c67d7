package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/dto"
	"github.com/vsinha/itam/pkg/domain/entities"
	testhelpers "github.com/vsinha/itam/pkg/infrastructure/testing"
)

func positionsOf(items []dto.RackItem, kind entities.PlacementKind) []int {
	var positions []int
	for _, item := range items {
		if item.Kind() == kind {
			positions = append(positions, item.Pos())
		}
	}
	return positions
}

func TestRackInfoService_RackInfo(t *testing.T) {
	fixture := testhelpers.BuildRackTestData()
	service := NewRackInfoService(fixture.Racks, nil)

	info, err := service.RackInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("RackInfo failed: %v", err)
	}

	if info.Name != "R-01" || info.MaxUHeight != 10 {
		t.Errorf("Expected R-01 with 10 units, got %s with %d", info.Name, info.MaxUHeight)
	}
	if len(info.Sides) != 2 || info.Sides[0].Type != "front" || info.Sides[1].Type != "back" {
		t.Fatalf("Expected front and back sides, got %+v", info.Sides)
	}

	tests := []struct {
		side        int
		assets      []int
		accessories []int
		empty       []int
	}{
		{side: 0, assets: []int{1, 5}, accessories: []int{4}, empty: []int{3, 6, 7, 8, 9, 10}},
		{side: 1, assets: []int{3}, accessories: []int{10}, empty: []int{1, 2, 7, 8, 9}},
	}

	for _, tt := range tests {
		side := info.Sides[tt.side]
		t.Run(side.Type, func(t *testing.T) {
			if got := positionsOf(side.Items, entities.KindAsset); !reflect.DeepEqual(got, tt.assets) {
				t.Errorf("Expected assets at %v, got %v", tt.assets, got)
			}
			if got := positionsOf(side.Items, entities.KindAccessory); !reflect.DeepEqual(got, tt.accessories) {
				t.Errorf("Expected accessories at %v, got %v", tt.accessories, got)
			}
			if got := positionsOf(side.Items, entities.KindEmpty); !reflect.DeepEqual(got, tt.empty) {
				t.Errorf("Expected empty units %v, got %v", tt.empty, got)
			}
		})
	}
}

func TestRackInfoService_AssetSlotFields(t *testing.T) {
	fixture := testhelpers.BuildRackTestData()
	service := NewRackInfoService(fixture.Racks, nil)

	info, err := service.RackInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("RackInfo failed: %v", err)
	}

	slot, ok := info.Sides[0].Items[0].(dto.AssetSlot)
	if !ok {
		t.Fatalf("Expected first front item to be an asset slot, got %T", info.Sides[0].Items[0])
	}
	if slot.AssetID != 1 || slot.Model != "R630" || slot.Height != 2 || slot.Position != 1 {
		t.Errorf("Unexpected asset slot: %+v", slot)
	}
	if slot.SN == nil || *slot.SN != "SN-1" || slot.Barcode == nil || *slot.Barcode != "BC-1" {
		t.Errorf("Expected SN-1/BC-1, got %v/%v", slot.SN, slot.Barcode)
	}

	accessory, ok := info.Sides[0].Items[2].(dto.AccessorySlot)
	if !ok {
		t.Fatalf("Expected third front item to be an accessory slot, got %T", info.Sides[0].Items[2])
	}
	if accessory.AccessoryType != "shelf" || accessory.Remarks != "console" {
		t.Errorf("Unexpected accessory slot: %+v", accessory)
	}
}

func TestRackInfoService_EmptyRack(t *testing.T) {
	fixture := testhelpers.BuildRackTestData()
	service := NewRackInfoService(fixture.Racks, nil)

	info, err := service.RackInfo(context.Background(), 2)
	if err != nil {
		t.Fatalf("RackInfo failed: %v", err)
	}

	for _, side := range info.Sides {
		if got := positionsOf(side.Items, entities.KindEmpty); !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
			t.Errorf("%s: expected every unit empty, got %v", side.Type, got)
		}
		if len(side.Items) != 4 {
			t.Errorf("%s: expected 4 items, got %d", side.Type, len(side.Items))
		}
	}
}

func TestRackInfoService_UnknownRack(t *testing.T) {
	fixture := testhelpers.BuildRackTestData()
	service := NewRackInfoService(fixture.Racks, nil)

	_, err := service.RackInfo(context.Background(), 99)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("Expected not found error, got %v", err)
	}
	if got := err.Error(); got != "Rack with id `99` does not exist" {
		t.Errorf("Unexpected message: %q", got)
	}
}
