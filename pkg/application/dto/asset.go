package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// AssetSummary is the API view of an asset
type AssetSummary struct {
	ID              int64       `json:"id"`
	Type            string      `json:"type"`
	Status          string      `json:"status"`
	Source          string      `json:"source"`
	Model           string      `json:"model"`
	Warehouse       string      `json:"warehouse"`
	SN              *string     `json:"sn"`
	Barcode         *string     `json:"barcode"`
	Price           string      `json:"price"`
	InvoiceNo       string      `json:"invoice_no,omitempty"`
	InvoiceDate     *string     `json:"invoice_date"`
	SupportPeriod   *int        `json:"support_period"`
	DeprecationDate *string     `json:"deprecation_date"`
	Deprecated      bool        `json:"deprecated"`
	DataType        string      `json:"data_type"`
	URL             string      `json:"url,omitempty"`
	Remarks         string      `json:"remarks,omitempty"`
	Device          *DeviceSpec `json:"device,omitempty"`
	Part            *PartSpec   `json:"part,omitempty"`
	Attachment      string      `json:"attachment,omitempty"`
}

// DeviceSpec places an asset in a rack
type DeviceSpec struct {
	RackID      *int64 `json:"rack_id"`
	Orientation string `json:"orientation"`
	Position    int    `json:"position"`
}

// PartSpec links a part asset to its device
type PartSpec struct {
	DeviceID        *int64 `json:"device_id"`
	BarcodeSalvaged string `json:"barcode_salvaged,omitempty"`
}

// NewAssetSummary converts an asset, evaluating deprecation at today
func NewAssetSummary(a *entities.Asset, today time.Time) AssetSummary {
	summary := AssetSummary{
		ID:            int64(a.ID),
		Type:          a.Type.String(),
		Status:        a.Status.String(),
		Source:        a.Source.String(),
		SN:            a.SN,
		Barcode:       a.Barcode,
		Price:         a.Price.StringFixed(2),
		InvoiceNo:     a.InvoiceNo,
		InvoiceDate:   formatDate(a.InvoiceDate),
		SupportPeriod: a.SupportPeriod,
		Deprecated:    a.IsDeprecated(today),
		DataType:      a.DataType(),
		URL:           a.URL,
		Remarks:       a.Remarks,
	}
	if a.Model != nil {
		summary.Model = a.Model.String()
	}
	if a.Warehouse != nil {
		summary.Warehouse = a.Warehouse.Name
	}
	if d, ok := a.DeprecationDate(); ok {
		summary.DeprecationDate = formatDate(&d)
	}
	if d := a.DeviceInfo; d != nil {
		spec := &DeviceSpec{Orientation: d.Orientation.String(), Position: d.Position}
		if d.RackID != nil {
			id := int64(*d.RackID)
			spec.RackID = &id
		}
		summary.Device = spec
	}
	if p := a.PartInfo; p != nil {
		spec := &PartSpec{BarcodeSalvaged: p.BarcodeSalvaged}
		if p.DeviceID != nil {
			id := int64(*p.DeviceID)
			spec.DeviceID = &id
		}
		summary.Part = spec
	}
	if a.OfficeInfo != nil {
		summary.Attachment = a.OfficeInfo.Attachment
	}
	return summary
}

// AssetRequest is the body of asset create and update calls
type AssetRequest struct {
	Manufacturer  string      `json:"manufacturer"`
	Model         string      `json:"model"`
	Height        int         `json:"height"`
	Warehouse     string      `json:"warehouse"`
	Source        string      `json:"source"`
	Status        string      `json:"status"`
	SN            *string     `json:"sn"`
	Barcode       *string     `json:"barcode"`
	Price         string      `json:"price"`
	InvoiceNo     string      `json:"invoice_no"`
	OrderNo       string      `json:"order_no"`
	InvoiceDate   *string     `json:"invoice_date"`
	SupportPeriod *int        `json:"support_period"`
	SupportType   string      `json:"support_type"`
	Provider      string      `json:"provider"`
	URL           string      `json:"url"`
	Remarks       string      `json:"remarks"`
	Device        *DeviceSpec `json:"device"`
	Part          *PartSpec   `json:"part"`
	Comment       string      `json:"comment"`
}

// Apply copies the request onto asset. Every field is replaced, so an
// update sends the full record.
func (r AssetRequest) Apply(asset *entities.Asset) error {
	if r.Model == "" {
		return fmt.Errorf("model is required")
	}
	if r.Warehouse == "" {
		return fmt.Errorf("warehouse is required")
	}

	model := &entities.Model{Name: r.Model, HeightOfDevice: r.Height}
	if r.Manufacturer != "" {
		model.Manufacturer = &entities.Manufacturer{Name: r.Manufacturer}
	}
	asset.Model = model
	asset.Warehouse = &entities.Warehouse{Name: r.Warehouse}

	var err error
	if asset.Source, err = entities.ParseAssetSource(r.Source); err != nil {
		return err
	}
	asset.Status = entities.StatusNew
	if r.Status != "" {
		if asset.Status, err = entities.ParseAssetStatus(r.Status); err != nil {
			return err
		}
	}

	asset.Price = decimal.Zero
	if r.Price != "" {
		if asset.Price, err = decimal.NewFromString(r.Price); err != nil {
			return fmt.Errorf("invalid price %q", r.Price)
		}
	}
	if asset.InvoiceDate, err = ParseDate(r.InvoiceDate); err != nil {
		return err
	}

	asset.SN = blankToNil(r.SN)
	asset.Barcode = blankToNil(r.Barcode)
	asset.InvoiceNo = r.InvoiceNo
	asset.OrderNo = r.OrderNo
	asset.SupportPeriod = r.SupportPeriod
	asset.SupportType = r.SupportType
	asset.Provider = r.Provider
	asset.URL = r.URL
	asset.Remarks = r.Remarks
	asset.SaveComment = r.Comment

	asset.DeviceInfo = nil
	if r.Device != nil {
		orientation := entities.Front
		if r.Device.Orientation != "" {
			if orientation, err = entities.ParseOrientation(r.Device.Orientation); err != nil {
				return err
			}
		}
		device := &entities.DeviceInfo{Orientation: orientation, Position: r.Device.Position, Size: r.Height}
		if r.Device.RackID != nil {
			rack := entities.RackID(*r.Device.RackID)
			device.RackID = &rack
		}
		asset.DeviceInfo = device
	}

	asset.PartInfo = nil
	if r.Part != nil {
		part := &entities.PartInfo{BarcodeSalvaged: r.Part.BarcodeSalvaged}
		if r.Part.DeviceID != nil {
			id := entities.AssetID(*r.Part.DeviceID)
			part.DeviceID = &id
		}
		asset.PartInfo = part
	}
	return nil
}

// ParseDate parses an optional YYYY-MM-DD value
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", *s)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
