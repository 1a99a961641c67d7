package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vsinha/itam/pkg/application/dto"
)

// RackReport renders the unit layout of one rack
type RackReport struct {
	Info *dto.RackInfo
}

func (r RackReport) Name() string {
	return fmt.Sprintf("rack_%d", r.Info.ID)
}

func (r RackReport) payload() any {
	return r.Info
}

type unit struct {
	kind  string
	label string
	first bool
}

// units maps every covered position of a side to what occupies it
func units(side dto.RackSide) map[int]unit {
	layout := make(map[int]unit)
	for _, item := range side.Items {
		first, last := dto.Placement(item).Span()
		label := itemLabel(item)
		for pos := first; pos <= last; pos++ {
			layout[pos] = unit{kind: item.Kind().String(), label: label, first: pos == first}
		}
	}
	return layout
}

func itemLabel(item dto.RackItem) string {
	switch slot := item.(type) {
	case dto.AssetSlot:
		return fmt.Sprintf("#%d %s (%dU) sn=%s barcode=%s", slot.AssetID, slot.Model, slot.Height, orDash(slot.SN), orDash(slot.Barcode))
	case dto.AccessorySlot:
		if slot.Remarks == "" {
			return slot.AccessoryType
		}
		return slot.AccessoryType + ": " + slot.Remarks
	default:
		return ""
	}
}

func (r RackReport) writeText(w io.Writer) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("🗄  Rack %s (%dU)", r.Info.Name, r.Info.MaxUHeight)))

	for _, side := range r.Info.Sides {
		layout := units(side)
		free := 0
		fmt.Fprintf(w, "\n%s\n", titleStyle.Render(side.Type))
		fmt.Fprintf(w, "%-4s %-10s %s\n", "U", "Kind", "Content")
		fmt.Fprintf(w, "%-4s %-10s %s\n", "----", "----------", "------------------------------")

		// top of the rack first
		for pos := r.Info.MaxUHeight; pos >= 1; pos-- {
			u, ok := layout[pos]
			switch {
			case !ok || u.kind == "empty":
				free++
				fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%-4d %-10s %s", pos, "empty", "")))
			case !u.first:
				fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%-4d %-10s %s", pos, u.kind, "  ⋮")))
			default:
				fmt.Fprintf(w, "%-4d %-10s %s\n", pos, u.kind, u.label)
			}
		}
		fmt.Fprintf(w, "Free units: %d\n", free)
	}
	return nil
}

func (r RackReport) csvRecords() [][]string {
	records := [][]string{{"side", "position", "kind", "asset_id", "label"}}
	for _, side := range r.Info.Sides {
		for _, item := range side.Items {
			assetID := ""
			if slot, ok := item.(dto.AssetSlot); ok {
				assetID = strconv.FormatInt(slot.AssetID, 10)
			}
			records = append(records, []string{
				side.Type,
				strconv.Itoa(item.Pos()),
				item.Kind().String(),
				assetID,
				itemLabel(item),
			})
		}
	}
	return records
}
