package repositories

import (
	"strings"
	"time"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// DefaultPageSize is used when a query does not ask for a page size
const DefaultPageSize = 10

// Page selects a window of a result set. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize fills in defaults for unset fields
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset returns the number of rows before the page
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// PageResult is one page of records plus the total match count
type PageResult[T any] struct {
	Items []T
	Total int
	Page  Page
}

// Pages returns the number of pages needed for Total records
func (r PageResult[T]) Pages() int {
	size := r.Page.Normalize().Size
	return (r.Total + size - 1) / size
}

// Paginate cuts one page out of an already filtered slice
func Paginate[T any](all []T, page Page) PageResult[T] {
	page = page.Normalize()
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return PageResult[T]{Items: all[start:end], Total: len(all), Page: page}
}

// TextFilter matches a case-insensitive substring. An empty filter matches
// everything.
type TextFilter string

// Matches reports whether s contains the filter text. Surrounding spaces
// of the filter are ignored.
func (f TextFilter) Matches(s string) bool {
	if f.Empty() {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(string(f))))
}

// Empty reports whether the filter is unset
func (f TextFilter) Empty() bool { return strings.TrimSpace(string(f)) == "" }

// DateRange matches dates in [From, To]; either bound may be open
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Empty reports whether neither bound is set
func (r DateRange) Empty() bool { return r.From == nil && r.To == nil }

// Matches reports whether t is inside the range. A missing date only matches
// an empty range.
func (r DateRange) Matches(t *time.Time) bool {
	if r.Empty() {
		return true
	}
	if t == nil {
		return false
	}
	d := entities.DateOf(*t)
	if r.From != nil && d.Before(entities.DateOf(*r.From)) {
		return false
	}
	if r.To != nil && d.After(entities.DateOf(*r.To)) {
		return false
	}
	return true
}

// AssetQuery filters asset listings
type AssetQuery struct {
	Mode           entities.Mode
	Status         *entities.AssetStatus
	SN             TextFilter
	Barcode        TextFilter
	RackID         *entities.RackID
	DeprecatedOn   *time.Time
	IncludeDeleted bool
	Page           Page
}

// LicenceQuery filters licence listings
type LicenceQuery struct {
	Mode               entities.Mode
	SoftwareCategoryID *int64
	ManufacturerID     *int64
	LicenceTypeID      *int64
	NIW                TextFilter
	SN                 TextFilter
	PropertyOf         TextFilter
	InvoiceDate        DateRange
	Page               Page
}

// SupportQuery filters support contract listings
type SupportQuery struct {
	Mode            entities.Mode
	SupportTypeID   *int64
	ContractID      TextFilter
	Name            TextFilter
	Description     TextFilter
	DateFrom        DateRange
	DateTo          DateRange
	AdditionalNotes TextFilter
	AssetSN         TextFilter
	Region          TextFilter
	Page            Page
}
