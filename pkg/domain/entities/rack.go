package entities

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRackHeight is returned when a rack has no usable units
var ErrInvalidRackHeight = errors.New("invalid rack height")

// RackID identifies a rack
type RackID int64

// Orientation is the side of a rack a device or accessory is mounted on
type Orientation int

const (
	Front Orientation = iota + 1
	Back
)

// String method for Orientation enum
func (o Orientation) String() string {
	switch o {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "Unknown"
	}
}

// ParseOrientation converts a side name into an Orientation
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "front":
		return Front, nil
	case "back":
		return Back, nil
	default:
		return 0, fmt.Errorf("unknown orientation: %q", s)
	}
}

// Orientations lists rack sides in display order
var Orientations = []Orientation{Front, Back}

// PlacementKind tells what occupies a rack unit
type PlacementKind int

const (
	KindEmpty PlacementKind = iota
	KindAsset
	KindAccessory
)

// String method for PlacementKind enum
func (k PlacementKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindAsset:
		return "asset"
	case KindAccessory:
		return "accessory"
	default:
		return "Unknown"
	}
}

// Rack is a physical rack with MaxUHeight units numbered from 1
type Rack struct {
	ID         RackID
	Name       string
	MaxUHeight int
	Tracking
}

// NewRack creates a validated Rack
func NewRack(id RackID, name string, maxUHeight int) (*Rack, error) {
	if name == "" {
		return nil, fmt.Errorf("rack name cannot be empty")
	}
	if maxUHeight < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRackHeight, maxUHeight)
	}
	return &Rack{ID: id, Name: name, MaxUHeight: maxUHeight}, nil
}

// RackAccessory is a one-unit accessory (blanking panel, shelf, patch panel)
// mounted in a rack
type RackAccessory struct {
	ID            int64
	RackID        RackID
	Orientation   Orientation
	Position      int
	AccessoryName string
	Remarks       string
}

// PlacedItem is a single placement on one side of a rack
type PlacedItem struct {
	Kind     PlacementKind
	Position int
	Height   int
}

// Span returns the first and last unit covered by the placement.
// Accessories always cover one unit; assets cover at least one.
func (p PlacedItem) Span() (first, last int) {
	height := p.Height
	if p.Kind == KindAccessory || height < 1 {
		height = 1
	}
	if p.Position > math.MaxInt-height+1 {
		return p.Position, math.MaxInt
	}
	return p.Position, p.Position + height - 1
}

// ResolveEmpty returns the units in [1, maxHeight] not covered by any item,
// in ascending order. Overlapping items and units outside the rack are
// tolerated.
func ResolveEmpty(maxHeight int, items []PlacedItem) ([]int, error) {
	if maxHeight < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRackHeight, maxHeight)
	}

	// occupied[u-1] covers unit u; spans are clipped to the rack
	occupied := make([]bool, maxHeight)
	for _, item := range items {
		first, last := item.Span()
		if last < 1 || first > maxHeight {
			continue
		}
		first = max(first, 1)
		last = min(last, maxHeight)
		for u := first; u <= last; u++ {
			occupied[u-1] = true
		}
	}

	empty := make([]int, 0, maxHeight)
	for u := 1; u <= maxHeight; u++ {
		if !occupied[u-1] {
			empty = append(empty, u)
		}
	}
	return empty, nil
}
