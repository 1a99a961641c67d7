package entities

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AssetID identifies an asset
type AssetID int64

// AssetType separates data center hardware from back office equipment.
// Values are grouped: data center types below 100, back office from 100.
type AssetType int

const (
	DataCenter     AssetType = 1
	BackOffice     AssetType = 101
	Administration AssetType = 102
)

// String method for AssetType enum
func (t AssetType) String() string {
	switch t {
	case DataCenter:
		return "data center"
	case BackOffice:
		return "back office"
	case Administration:
		return "administration"
	default:
		return "Unknown"
	}
}

// IsDC reports whether t belongs to the data center group
func (t AssetType) IsDC() bool { return t == DataCenter }

// IsBO reports whether t belongs to the back office group
func (t AssetType) IsBO() bool { return t == BackOffice || t == Administration }

// ParseAssetType accepts either the numeric id or the display name
func ParseAssetType(s string) (AssetType, error) {
	for _, t := range []AssetType{DataCenter, BackOffice, Administration} {
		if s == t.String() || s == strconv.Itoa(int(t)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown asset type: %q", s)
}

// Mode is the section of the application a request works in
type Mode string

const (
	ModeDC         Mode = "dc"
	ModeBackOffice Mode = "back_office"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDC, ModeBackOffice:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// AssetType returns the type given to records created in this mode
func (m Mode) AssetType() AssetType {
	if m == ModeBackOffice {
		return BackOffice
	}
	return DataCenter
}

// Types lists the asset types visible in this mode
func (m Mode) Types() []AssetType {
	if m == ModeBackOffice {
		return []AssetType{BackOffice, Administration}
	}
	return []AssetType{DataCenter}
}

// Allows reports whether an asset type is visible in this mode
func (m Mode) Allows(t AssetType) bool {
	for _, allowed := range m.Types() {
		if allowed == t {
			return true
		}
	}
	return false
}

// AssetStatus is the lifecycle status of an asset. Hardware statuses are
// numbered from 1, software statuses from 101.
type AssetStatus int

const (
	StatusNew AssetStatus = iota + 1
	StatusInProgress
	StatusWaitingForRelease
	StatusUsed
	StatusLoan
	StatusDamaged
	StatusLiquidated
	StatusInService
	StatusInRepair
	StatusOK
)

const (
	StatusInstalled AssetStatus = iota + 101
	StatusFree
	StatusReserved
)

var assetStatusNames = map[AssetStatus]string{
	StatusNew:               "new",
	StatusInProgress:        "in progress",
	StatusWaitingForRelease: "waiting for release",
	StatusUsed:              "used",
	StatusLoan:              "loan",
	StatusDamaged:           "damaged",
	StatusLiquidated:        "liquidated",
	StatusInService:         "in service",
	StatusInRepair:          "in repair",
	StatusOK:                "ok",
	StatusInstalled:         "installed",
	StatusFree:              "free",
	StatusReserved:          "reserved",
}

// String method for AssetStatus enum
func (s AssetStatus) String() string {
	if name, ok := assetStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseAssetStatus converts a status name into an AssetStatus
func ParseAssetStatus(s string) (AssetStatus, error) {
	for status, name := range assetStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown asset status: %q", s)
}

// AssetSource tells how an asset was acquired
type AssetSource int

const (
	SourceShipment AssetSource = iota + 1
	SourceSalvaged
)

// String method for AssetSource enum
func (s AssetSource) String() string {
	switch s {
	case SourceShipment:
		return "shipment"
	case SourceSalvaged:
		return "salvaged"
	default:
		return "Unknown"
	}
}

// ParseAssetSource converts a source name into an AssetSource
func ParseAssetSource(s string) (AssetSource, error) {
	switch s {
	case "shipment":
		return SourceShipment, nil
	case "salvaged":
		return SourceSalvaged, nil
	default:
		return 0, fmt.Errorf("unknown asset source: %q", s)
	}
}

// AssetCategoryType splits the category tree between sections
type AssetCategoryType int

const (
	CategoryBackOffice AssetCategoryType = iota + 1
	CategoryDataCenter
)

// LicenseType describes how an office licence was purchased
type LicenseType int

const (
	LicenseNotApplicable LicenseType = iota + 1
	LicenseOEM
	LicenseBox
)

// String method for LicenseType enum
func (l LicenseType) String() string {
	switch l {
	case LicenseNotApplicable:
		return "not applicable"
	case LicenseOEM:
		return "oem"
	case LicenseBox:
		return "box"
	default:
		return "Unknown"
	}
}

// Manufacturer of asset models
type Manufacturer struct {
	ID   int64
	Name string
}

// MaxDeviceHeight is the largest device size in rack units
const MaxDeviceHeight = 100

// Model is a hardware model. HeightOfDevice is its size in rack units.
type Model struct {
	ID             int64
	Name           string
	Manufacturer   *Manufacturer
	HeightOfDevice int
}

// String returns "<manufacturer> <name>"
func (m Model) String() string {
	if m.Manufacturer == nil {
		return "None " + m.Name
	}
	return m.Manufacturer.Name + " " + m.Name
}

// Category is a node in the asset category tree
type Category struct {
	ID       int64
	Name     string
	Type     AssetCategoryType
	ParentID *int64
}

// Warehouse where assets are stored
type Warehouse struct {
	ID   int64
	Name string
}

// DeviceInfo holds the rack placement of a device asset
type DeviceInfo struct {
	ID            int64
	RalphDeviceID *int64
	RackID        *RackID
	Orientation   Orientation
	Position      int
	Size          int
}

// OfficeInfo holds licence and inventory details of back office equipment
type OfficeInfo struct {
	ID                  int64
	LicenseKey          string
	Version             string
	Attachment          string
	LicenseType         *LicenseType
	DateOfLastInventory *time.Time
	LastLoggedUser      string
}

// PartInfo links a part asset to the device it belongs to
type PartInfo struct {
	ID              int64
	BarcodeSalvaged string
	SourceDeviceID  *AssetID
	DeviceID        *AssetID
}

// Asset is a tracked piece of hardware
type Asset struct {
	ID   AssetID
	Type AssetType

	Model     *Model
	Category  *Category
	Warehouse *Warehouse
	Source    AssetSource
	Status    AssetStatus

	SN      *string
	Barcode *string
	URL     string

	InvoiceNo   string
	OrderNo     string
	InvoiceDate *time.Time

	Price                decimal.Decimal
	SupportPrice         *decimal.Decimal
	SupportPeriod        *int
	SupportType          string
	SupportVoidReporting bool
	Provider             string

	Remarks string
	Slots   float64

	RequestDate       *time.Time
	DeliveryDate      *time.Time
	ProductionUseDate *time.Time
	ProviderOrderDate *time.Time

	DeviceInfo *DeviceInfo
	PartInfo   *PartInfo
	OfficeInfo *OfficeInfo

	Tracking
}

// NewAsset creates a validated Asset with the defaults new records get
func NewAsset(assetType AssetType, model *Model, warehouse *Warehouse, source AssetSource, supportPeriod int, supportType string) (*Asset, error) {
	asset := &Asset{
		Type:                 assetType,
		Model:                model,
		Warehouse:            warehouse,
		Source:               source,
		Status:               StatusNew,
		Price:                decimal.Zero,
		SupportPeriod:        &supportPeriod,
		SupportType:          supportType,
		SupportVoidReporting: true,
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return asset, nil
}

// Validate checks the rules every stored asset must satisfy
func (a *Asset) Validate() error {
	if !a.Type.IsDC() && !a.Type.IsBO() {
		return fmt.Errorf("asset type is required")
	}
	if a.Model == nil {
		return fmt.Errorf("model is required")
	}
	if a.Warehouse == nil {
		return fmt.Errorf("warehouse is required")
	}
	if a.Source.String() == "Unknown" {
		return fmt.Errorf("source is required")
	}
	if a.SupportPeriod != nil && *a.SupportPeriod < 0 {
		return fmt.Errorf("support period cannot be negative, got %d", *a.SupportPeriod)
	}
	if a.Price.IsNegative() {
		return fmt.Errorf("price cannot be negative, got %s", a.Price)
	}
	if a.DeviceInfo != nil && a.DeviceInfo.Position < 0 {
		return fmt.Errorf("rack position cannot be negative, got %d", a.DeviceInfo.Position)
	}
	if a.Model != nil && (a.Model.HeightOfDevice < 0 || a.Model.HeightOfDevice > MaxDeviceHeight) {
		return fmt.Errorf("device height must be between 0 and %d, got %d", MaxDeviceHeight, a.Model.HeightOfDevice)
	}
	if a.DeviceInfo != nil && (a.DeviceInfo.Size < 0 || a.DeviceInfo.Size > MaxDeviceHeight) {
		return fmt.Errorf("device size must be between 0 and %d, got %d", MaxDeviceHeight, a.DeviceInfo.Size)
	}
	return nil
}

// String returns "<model> - <sn> - <barcode>"
func (a *Asset) String() string {
	model := "None"
	if a.Model != nil {
		model = a.Model.String()
	}
	return fmt.Sprintf("%s - %s - %s", model, optional(a.SN), optional(a.Barcode))
}

func optional(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

// DataType classifies the asset by the extra info attached to it
func (a *Asset) DataType() string {
	switch {
	case a.DeviceInfo != nil:
		return "device"
	case a.PartInfo != nil:
		return "part"
	default:
		return "Unknown"
	}
}

// ErrUnknownDataType is returned for assets with neither device nor part info
var ErrUnknownDataType = errors.New("unknown asset data type")

// DataIcon returns the icon name used in listings
func (a *Asset) DataIcon() (string, error) {
	switch a.DataType() {
	case "device":
		return "fugue-computer", nil
	case "part":
		return "fugue-box", nil
	default:
		return "", ErrUnknownDataType
	}
}

// DeprecationDate returns the day support for the asset ends
func (a *Asset) DeprecationDate() (time.Time, bool) {
	return DeprecationDate(a.InvoiceDate, a.SupportPeriod)
}

// IsDeprecated reports whether the asset's support ended before today
func (a *Asset) IsDeprecated(today time.Time) bool {
	return IsDeprecated(a.InvoiceDate, a.SupportPeriod, today)
}

// Height returns the number of rack units the asset occupies
func (a *Asset) Height() int {
	if a.Model != nil && a.Model.HeightOfDevice > 0 {
		return a.Model.HeightOfDevice
	}
	if a.DeviceInfo != nil && a.DeviceInfo.Size > 0 {
		return a.DeviceInfo.Size
	}
	return 1
}
