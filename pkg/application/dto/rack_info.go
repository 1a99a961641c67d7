package dto

import "github.com/vsinha/itam/pkg/domain/entities"

// RackInfo is the visualization payload of one rack
type RackInfo struct {
	ID         entities.RackID `json:"-"`
	Name       string          `json:"name"`
	MaxUHeight int             `json:"max_u_height"`
	Sides      []RackSide      `json:"sides"`
}

// RackSide lists what occupies every unit on one side of a rack. Items come
// in three groups: assets, accessories, then empty units in ascending order.
type RackSide struct {
	Type  string     `json:"type"`
	Items []RackItem `json:"items"`
}

// RackItem is one entry of a rack side
type RackItem interface {
	Kind() entities.PlacementKind
	Pos() int
}

// AssetSlot is an asset mounted at Position spanning Height units
type AssetSlot struct {
	Type     string  `json:"_type"`
	AssetID  int64   `json:"asset_id"`
	Model    string  `json:"model"`
	Height   int     `json:"height"`
	Barcode  *string `json:"barcode"`
	SN       *string `json:"sn"`
	URL      string  `json:"url"`
	Position int     `json:"position"`
}

func (s AssetSlot) Kind() entities.PlacementKind { return entities.KindAsset }
func (s AssetSlot) Pos() int                     { return s.Position }

// AccessorySlot is a one-unit accessory; AccessoryType is its name
type AccessorySlot struct {
	Type          string `json:"_type"`
	Position      int    `json:"position"`
	Remarks       string `json:"remarks"`
	AccessoryType string `json:"type"`
}

func (s AccessorySlot) Kind() entities.PlacementKind { return entities.KindAccessory }
func (s AccessorySlot) Pos() int                     { return s.Position }

// EmptySlot is a free unit
type EmptySlot struct {
	Type     string `json:"_type"`
	Position int    `json:"position"`
}

func (s EmptySlot) Kind() entities.PlacementKind { return entities.KindEmpty }
func (s EmptySlot) Pos() int                     { return s.Position }

// NewAssetSlot builds the slot of a mounted asset
func NewAssetSlot(asset *entities.Asset) AssetSlot {
	slot := AssetSlot{
		Type:    entities.KindAsset.String(),
		AssetID: int64(asset.ID),
		Height:  asset.Height(),
		Barcode: asset.Barcode,
		SN:      asset.SN,
		URL:     asset.URL,
	}
	if asset.Model != nil {
		slot.Model = asset.Model.Name
	}
	if asset.DeviceInfo != nil {
		slot.Position = asset.DeviceInfo.Position
	}
	return slot
}

// NewAccessorySlot builds the slot of a rack accessory
func NewAccessorySlot(accessory *entities.RackAccessory) AccessorySlot {
	return AccessorySlot{
		Type:          entities.KindAccessory.String(),
		Position:      accessory.Position,
		Remarks:       accessory.Remarks,
		AccessoryType: accessory.AccessoryName,
	}
}

// NewEmptySlot builds a free unit entry
func NewEmptySlot(position int) EmptySlot {
	return EmptySlot{Type: entities.KindEmpty.String(), Position: position}
}

// Placement converts an item into the resolver input
func Placement(item RackItem) entities.PlacedItem {
	placed := entities.PlacedItem{Kind: item.Kind(), Position: item.Pos(), Height: 1}
	if slot, ok := item.(AssetSlot); ok {
		placed.Height = slot.Height
	}
	return placed
}
