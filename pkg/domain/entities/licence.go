package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LicenceID identifies a software licence
type LicenceID int64

// SoftwareCategory groups licences for the same software
type SoftwareCategory struct {
	ID        int64
	Name      string
	AssetType AssetType
}

// LicenceType is the kind of licence agreement (per seat, site, volume...)
type LicenceType struct {
	ID   int64
	Name string
}

// Licence is a purchased software licence
type Licence struct {
	ID               LicenceID
	AssetType        *AssetType
	LicenceType      *LicenceType
	Manufacturer     *Manufacturer
	SoftwareCategory *SoftwareCategory
	PropertyOf       string

	NIW          string
	SN           string
	NumberBought int
	Used         int
	Price        decimal.Decimal
	InvoiceNo    string
	InvoiceDate  *time.Time
	OrderNo      string
	ValidThru    *time.Time
	Remarks      string

	Tracking
}

// Validate checks the licence fields
func (l *Licence) Validate() error {
	if l.SoftwareCategory == nil {
		return fmt.Errorf("software category is required")
	}
	if l.NIW == "" {
		return fmt.Errorf("inventory number cannot be empty")
	}
	if l.NumberBought < 0 {
		return fmt.Errorf("number bought cannot be negative, got %d", l.NumberBought)
	}
	if l.Used < 0 {
		return fmt.Errorf("used cannot be negative, got %d", l.Used)
	}
	if l.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative, got %s", l.Price)
	}
	return nil
}

// Free returns how many purchased seats are not in use
func (l *Licence) Free() int {
	if l.Used >= l.NumberBought {
		return 0
	}
	return l.NumberBought - l.Used
}
