package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SupportID identifies a support contract
type SupportID int64

// SupportType is the kind of support contract
type SupportType struct {
	ID   int64
	Name string
}

// SupportStatus of a contract
type SupportStatus int

const (
	SupportNew SupportStatus = iota + 1
	SupportActive
	SupportExpired
	SupportCancelled
)

// String method for SupportStatus enum
func (s SupportStatus) String() string {
	switch s {
	case SupportNew:
		return "new"
	case SupportActive:
		return "active"
	case SupportExpired:
		return "expired"
	case SupportCancelled:
		return "cancelled"
	default:
		return "Unknown"
	}
}

// Support is a support contract covering a set of assets
type Support struct {
	ID          SupportID
	AssetType   AssetType
	SupportType *SupportType
	Status      SupportStatus
	ContractID  string
	Name        string
	Description string
	Price       decimal.Decimal

	DateFrom *time.Time
	DateTo   *time.Time

	EscalationPath  string
	ContractTerms   string
	AdditionalNotes string
	SLAType         string
	Producer        string
	Supplier        string
	SerialNo        string
	InvoiceNo       string
	InvoiceDate     *time.Time
	PeriodInMonths  *int
	PropertyOf      string
	Region          string

	AssetIDs []AssetID

	Tracking
}

// Validate checks the support fields
func (s *Support) Validate() error {
	if !s.AssetType.IsDC() && s.AssetType != BackOffice {
		return fmt.Errorf("asset type must be %q or %q", BackOffice, DataCenter)
	}
	if s.ContractID == "" {
		return fmt.Errorf("contract id cannot be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if s.Region == "" {
		return fmt.Errorf("region is required")
	}
	if s.DateFrom != nil && s.DateTo != nil && s.DateTo.Before(*s.DateFrom) {
		return fmt.Errorf("date to (%s) cannot be before date from (%s)",
			s.DateTo.Format("2006-01-02"), s.DateFrom.Format("2006-01-02"))
	}
	if s.PeriodInMonths != nil && *s.PeriodInMonths < 0 {
		return fmt.Errorf("period in months cannot be negative, got %d", *s.PeriodInMonths)
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative, got %s", s.Price)
	}
	return nil
}

// Covers reports whether the asset is assigned to this contract
func (s *Support) Covers(id AssetID) bool {
	for _, assigned := range s.AssetIDs {
		if assigned == id {
			return true
		}
	}
	return false
}
