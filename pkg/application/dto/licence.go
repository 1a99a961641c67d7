package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// LicenceSummary is the API view of a licence
type LicenceSummary struct {
	ID               int64   `json:"id"`
	AssetType        string  `json:"asset_type,omitempty"`
	SoftwareCategory string  `json:"software_category"`
	Manufacturer     string  `json:"manufacturer,omitempty"`
	LicenceType      string  `json:"licence_type,omitempty"`
	PropertyOf       string  `json:"property_of,omitempty"`
	NIW              string  `json:"niw"`
	SN               string  `json:"sn"`
	NumberBought     int     `json:"number_bought"`
	Used             int     `json:"used"`
	Free             int     `json:"free"`
	Price            string  `json:"price"`
	InvoiceNo        string  `json:"invoice_no,omitempty"`
	InvoiceDate      *string `json:"invoice_date"`
	ValidThru        *string `json:"valid_thru"`
	Remarks          string  `json:"remarks,omitempty"`
}

// NewLicenceSummary converts a licence
func NewLicenceSummary(l *entities.Licence) LicenceSummary {
	summary := LicenceSummary{
		ID:           int64(l.ID),
		PropertyOf:   l.PropertyOf,
		NIW:          l.NIW,
		SN:           l.SN,
		NumberBought: l.NumberBought,
		Used:         l.Used,
		Free:         l.Free(),
		Price:        l.Price.StringFixed(2),
		InvoiceNo:    l.InvoiceNo,
		InvoiceDate:  formatDate(l.InvoiceDate),
		ValidThru:    formatDate(l.ValidThru),
		Remarks:      l.Remarks,
	}
	if l.AssetType != nil {
		summary.AssetType = l.AssetType.String()
	}
	if l.SoftwareCategory != nil {
		summary.SoftwareCategory = l.SoftwareCategory.Name
	}
	if l.Manufacturer != nil {
		summary.Manufacturer = l.Manufacturer.Name
	}
	if l.LicenceType != nil {
		summary.LicenceType = l.LicenceType.Name
	}
	return summary
}

// LicenceRequest is the body of licence add and edit calls. Add creates one
// licence per (SN, NIW) pair; edit takes exactly one pair.
type LicenceRequest struct {
	AssetType        string   `json:"asset_type"`
	SoftwareCategory string   `json:"software_category"`
	Manufacturer     string   `json:"manufacturer"`
	LicenceType      string   `json:"licence_type"`
	PropertyOf       string   `json:"property_of"`
	SN               []string `json:"sn"`
	NIW              []string `json:"niw"`
	NumberBought     int      `json:"number_bought"`
	Used             int      `json:"used"`
	Price            string   `json:"price"`
	InvoiceNo        string   `json:"invoice_no"`
	InvoiceDate      *string  `json:"invoice_date"`
	OrderNo          string   `json:"order_no"`
	ValidThru        *string  `json:"valid_thru"`
	Remarks          string   `json:"remarks"`
	Comment          string   `json:"comment"`
}

// Apply copies the shared fields onto licence. SN and NIW are set by the
// caller.
func (r LicenceRequest) Apply(licence *entities.Licence) error {
	if r.SoftwareCategory == "" {
		return fmt.Errorf("software category is required")
	}
	if r.AssetType != "" {
		t, err := entities.ParseAssetType(r.AssetType)
		if err != nil {
			return err
		}
		licence.AssetType = &t
	}
	licence.SoftwareCategory = &entities.SoftwareCategory{Name: r.SoftwareCategory}
	licence.Manufacturer = nil
	if r.Manufacturer != "" {
		licence.Manufacturer = &entities.Manufacturer{Name: r.Manufacturer}
	}
	licence.LicenceType = nil
	if r.LicenceType != "" {
		licence.LicenceType = &entities.LicenceType{Name: r.LicenceType}
	}

	var err error
	licence.Price = decimal.Zero
	if r.Price != "" {
		if licence.Price, err = decimal.NewFromString(r.Price); err != nil {
			return fmt.Errorf("invalid price %q", r.Price)
		}
	}
	if licence.InvoiceDate, err = ParseDate(r.InvoiceDate); err != nil {
		return err
	}
	if licence.ValidThru, err = ParseDate(r.ValidThru); err != nil {
		return err
	}

	licence.PropertyOf = r.PropertyOf
	licence.NumberBought = r.NumberBought
	licence.Used = r.Used
	licence.InvoiceNo = r.InvoiceNo
	licence.OrderNo = r.OrderNo
	licence.Remarks = r.Remarks
	licence.SaveComment = r.Comment
	return nil
}

// CategorySummary is the API view of a software category
type CategorySummary struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AssetType string `json:"asset_type"`
}

// NewCategorySummary converts a software category
func NewCategorySummary(c *entities.SoftwareCategory) CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, AssetType: c.AssetType.String()}
}
