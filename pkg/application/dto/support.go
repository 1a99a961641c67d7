package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// SupportSummary is the API view of a support contract
type SupportSummary struct {
	ID              int64   `json:"id"`
	AssetType       string  `json:"asset_type"`
	SupportType     string  `json:"support_type,omitempty"`
	Status          string  `json:"status"`
	ContractID      string  `json:"contract_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           string  `json:"price"`
	DateFrom        *string `json:"date_from"`
	DateTo          *string `json:"date_to"`
	Producer        string  `json:"producer,omitempty"`
	Supplier        string  `json:"supplier,omitempty"`
	SerialNo        string  `json:"serial_no,omitempty"`
	PeriodInMonths  *int    `json:"period_in_months"`
	PropertyOf      string  `json:"property_of,omitempty"`
	Region          string  `json:"region"`
	AdditionalNotes string  `json:"additional_notes,omitempty"`
	Created         string  `json:"created"`
	AssetIDs        []int64 `json:"asset_ids"`
}

// NewSupportSummary converts a support contract
func NewSupportSummary(s *entities.Support) SupportSummary {
	summary := SupportSummary{
		ID:              int64(s.ID),
		AssetType:       s.AssetType.String(),
		Status:          s.Status.String(),
		ContractID:      s.ContractID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price.StringFixed(2),
		DateFrom:        formatDate(s.DateFrom),
		DateTo:          formatDate(s.DateTo),
		Producer:        s.Producer,
		Supplier:        s.Supplier,
		SerialNo:        s.SerialNo,
		PeriodInMonths:  s.PeriodInMonths,
		PropertyOf:      s.PropertyOf,
		Region:          s.Region,
		AdditionalNotes: s.AdditionalNotes,
		Created:         s.Created.Format(DateLayout),
		AssetIDs:        make([]int64, 0, len(s.AssetIDs)),
	}
	if s.SupportType != nil {
		summary.SupportType = s.SupportType.Name
	}
	for _, id := range s.AssetIDs {
		summary.AssetIDs = append(summary.AssetIDs, int64(id))
	}
	return summary
}

// SupportRequest is the body of support add and edit calls
type SupportRequest struct {
	SupportType     string  `json:"support_type"`
	Status          string  `json:"status"`
	ContractID      string  `json:"contract_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           string  `json:"price"`
	DateFrom        *string `json:"date_from"`
	DateTo          *string `json:"date_to"`
	EscalationPath  string  `json:"escalation_path"`
	ContractTerms   string  `json:"contract_terms"`
	AdditionalNotes string  `json:"additional_notes"`
	SLAType         string  `json:"sla_type"`
	Producer        string  `json:"producer"`
	Supplier        string  `json:"supplier"`
	SerialNo        string  `json:"serial_no"`
	InvoiceNo       string  `json:"invoice_no"`
	InvoiceDate     *string `json:"invoice_date"`
	PeriodInMonths  *int    `json:"period_in_months"`
	PropertyOf      string  `json:"property_of"`
	Region          string  `json:"region"`
	AssetIDs        []int64 `json:"asset_ids"`
	Comment         string  `json:"comment"`
}

var supportStatuses = map[string]entities.SupportStatus{
	"new":       entities.SupportNew,
	"active":    entities.SupportActive,
	"expired":   entities.SupportExpired,
	"cancelled": entities.SupportCancelled,
}

// Apply copies the request onto support. Asset type and created date are
// left to the caller.
func (r SupportRequest) Apply(support *entities.Support) error {
	support.Status = entities.SupportNew
	if r.Status != "" {
		status, ok := supportStatuses[r.Status]
		if !ok {
			return fmt.Errorf("unknown support status: %q", r.Status)
		}
		support.Status = status
	}
	support.SupportType = nil
	if r.SupportType != "" {
		support.SupportType = &entities.SupportType{Name: r.SupportType}
	}

	var err error
	support.Price = decimal.Zero
	if r.Price != "" {
		if support.Price, err = decimal.NewFromString(r.Price); err != nil {
			return fmt.Errorf("invalid price %q", r.Price)
		}
	}
	if support.DateFrom, err = ParseDate(r.DateFrom); err != nil {
		return err
	}
	if support.DateTo, err = ParseDate(r.DateTo); err != nil {
		return err
	}
	if support.InvoiceDate, err = ParseDate(r.InvoiceDate); err != nil {
		return err
	}

	support.ContractID = r.ContractID
	support.Name = r.Name
	support.Description = r.Description
	support.EscalationPath = r.EscalationPath
	support.ContractTerms = r.ContractTerms
	support.AdditionalNotes = r.AdditionalNotes
	support.SLAType = r.SLAType
	support.Producer = r.Producer
	support.Supplier = r.Supplier
	support.SerialNo = r.SerialNo
	support.InvoiceNo = r.InvoiceNo
	support.PeriodInMonths = r.PeriodInMonths
	support.PropertyOf = r.PropertyOf
	support.Region = r.Region
	support.SaveComment = r.Comment

	support.AssetIDs = make([]entities.AssetID, 0, len(r.AssetIDs))
	for _, id := range r.AssetIDs {
		support.AssetIDs = append(support.AssetIDs, entities.AssetID(id))
	}
	return nil
}
