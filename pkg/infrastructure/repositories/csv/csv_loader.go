package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

var (
	assetHeader     = []string{"type", "manufacturer", "model", "height", "warehouse", "source", "status", "sn", "barcode", "invoice_date", "support_period", "price", "rack_id", "orientation", "position"}
	rackHeader      = []string{"id", "name", "max_u_height"}
	accessoryHeader = []string{"rack_id", "orientation", "position", "accessory_name", "remarks"}
	licenceHeader   = []string{"software_category", "manufacturer", "niw", "sn", "number_bought", "price", "invoice_date", "valid_thru"}
)

// Loader handles loading inventory records from CSV files. Reference
// records (models, warehouses, categories) with the same name share one
// value across all rows of a loader.
type Loader struct {
	manufacturers map[string]*entities.Manufacturer
	models        map[string]*entities.Model
	warehouses    map[string]*entities.Warehouse
	categories    map[string]*entities.SoftwareCategory
}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{
		manufacturers: make(map[string]*entities.Manufacturer),
		models:        make(map[string]*entities.Model),
		warehouses:    make(map[string]*entities.Warehouse),
		categories:    make(map[string]*entities.SoftwareCategory),
	}
}

// LoadAssets loads assets from a CSV file
func (l *Loader) LoadAssets(filename string) ([]*entities.Asset, error) {
	records, err := readRecords(filename, "assets", assetHeader)
	if err != nil {
		return nil, err
	}

	var assets []*entities.Asset
	for i, record := range records {
		asset, err := l.parseAsset(record)
		if err != nil {
			return nil, fmt.Errorf("assets CSV row %d: %w", i+2, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

// LoadRacks loads racks from a CSV file
func (l *Loader) LoadRacks(filename string) ([]*entities.Rack, error) {
	records, err := readRecords(filename, "racks", rackHeader)
	if err != nil {
		return nil, err
	}

	var racks []*entities.Rack
	for i, record := range records {
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("racks CSV row %d: invalid id: %s", i+2, record[0])
		}
		height, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("racks CSV row %d: invalid max_u_height: %s", i+2, record[2])
		}
		rack, err := entities.NewRack(entities.RackID(id), record[1], height)
		if err != nil {
			return nil, fmt.Errorf("racks CSV row %d: %w", i+2, err)
		}
		racks = append(racks, rack)
	}
	return racks, nil
}

// LoadAccessories loads rack accessories from a CSV file
func (l *Loader) LoadAccessories(filename string) ([]*entities.RackAccessory, error) {
	records, err := readRecords(filename, "accessories", accessoryHeader)
	if err != nil {
		return nil, err
	}

	var accessories []*entities.RackAccessory
	for i, record := range records {
		rackID, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("accessories CSV row %d: invalid rack_id: %s", i+2, record[0])
		}
		orientation, err := entities.ParseOrientation(strings.ToLower(record[1]))
		if err != nil {
			return nil, fmt.Errorf("accessories CSV row %d: %w", i+2, err)
		}
		position, err := strconv.Atoi(record[2])
		if err != nil || position < 1 {
			return nil, fmt.Errorf("accessories CSV row %d: invalid position: %s", i+2, record[2])
		}
		if record[3] == "" {
			return nil, fmt.Errorf("accessories CSV row %d: accessory_name cannot be empty", i+2)
		}
		accessories = append(accessories, &entities.RackAccessory{
			RackID:        entities.RackID(rackID),
			Orientation:   orientation,
			Position:      position,
			AccessoryName: record[3],
			Remarks:       record[4],
		})
	}
	return accessories, nil
}

// LoadLicences loads software licences from a CSV file
func (l *Loader) LoadLicences(filename string, assetType entities.AssetType) ([]*entities.Licence, error) {
	records, err := readRecords(filename, "licences", licenceHeader)
	if err != nil {
		return nil, err
	}

	var licences []*entities.Licence
	for i, record := range records {
		licence, err := l.parseLicence(record, assetType)
		if err != nil {
			return nil, fmt.Errorf("licences CSV row %d: %w", i+2, err)
		}
		licences = append(licences, licence)
	}
	return licences, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
		for j := range record {
			record[j] = strings.TrimSpace(record[j])
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func (l *Loader) parseAsset(record []string) (*entities.Asset, error) {
	assetType, err := entities.ParseAssetType(strings.ToLower(record[0]))
	if err != nil {
		return nil, err
	}

	if record[2] == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	height := 0
	if record[3] != "" {
		if height, err = strconv.Atoi(record[3]); err != nil {
			return nil, fmt.Errorf("invalid height: %s", record[3])
		}
	}
	model := l.model(record[1], record[2], height)

	if record[4] == "" {
		return nil, fmt.Errorf("warehouse cannot be empty")
	}
	warehouse, ok := l.warehouses[record[4]]
	if !ok {
		warehouse = &entities.Warehouse{Name: record[4]}
		l.warehouses[record[4]] = warehouse
	}

	source, err := entities.ParseAssetSource(strings.ToLower(record[5]))
	if err != nil {
		return nil, err
	}

	supportPeriod, err := optionalInt(record[10], "support_period")
	if err != nil {
		return nil, err
	}
	period := 0
	if supportPeriod != nil {
		period = *supportPeriod
	}

	asset, err := entities.NewAsset(assetType, model, warehouse, source, period, "")
	if err != nil {
		return nil, err
	}
	asset.SupportPeriod = supportPeriod

	if record[6] != "" {
		if asset.Status, err = entities.ParseAssetStatus(strings.ToLower(record[6])); err != nil {
			return nil, err
		}
	}
	asset.SN = optionalString(record[7])
	asset.Barcode = optionalString(record[8])

	if asset.InvoiceDate, err = optionalDate(record[9], "invoice_date"); err != nil {
		return nil, err
	}
	if record[11] != "" {
		if asset.Price, err = decimal.NewFromString(record[11]); err != nil {
			return nil, fmt.Errorf("invalid price: %s", record[11])
		}
	}

	if record[12] != "" {
		device, err := parseDeviceInfo(record[12], record[13], record[14])
		if err != nil {
			return nil, err
		}
		device.Size = model.HeightOfDevice
		asset.DeviceInfo = device
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return asset, nil
}

func parseDeviceInfo(rackStr, orientationStr, positionStr string) (*entities.DeviceInfo, error) {
	rackID, err := strconv.ParseInt(rackStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rack_id: %s", rackStr)
	}
	orientation := entities.Front
	if orientationStr != "" {
		if orientation, err = entities.ParseOrientation(strings.ToLower(orientationStr)); err != nil {
			return nil, err
		}
	}
	position, err := strconv.Atoi(positionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %s", positionStr)
	}
	rack := entities.RackID(rackID)
	return &entities.DeviceInfo{RackID: &rack, Orientation: orientation, Position: position}, nil
}

func (l *Loader) parseLicence(record []string, assetType entities.AssetType) (*entities.Licence, error) {
	if record[0] == "" {
		return nil, fmt.Errorf("software_category cannot be empty")
	}
	category, ok := l.categories[record[0]]
	if !ok {
		category = &entities.SoftwareCategory{Name: record[0], AssetType: assetType}
		l.categories[record[0]] = category
	}

	licence := &entities.Licence{
		AssetType:        &assetType,
		SoftwareCategory: category,
		Manufacturer:     l.manufacturer(record[1]),
		NIW:              record[2],
		SN:               record[3],
		Price:            decimal.Zero,
	}

	var err error
	if record[4] != "" {
		if licence.NumberBought, err = strconv.Atoi(record[4]); err != nil {
			return nil, fmt.Errorf("invalid number_bought: %s", record[4])
		}
	}
	if record[5] != "" {
		if licence.Price, err = decimal.NewFromString(record[5]); err != nil {
			return nil, fmt.Errorf("invalid price: %s", record[5])
		}
	}
	if licence.InvoiceDate, err = optionalDate(record[6], "invoice_date"); err != nil {
		return nil, err
	}
	if licence.ValidThru, err = optionalDate(record[7], "valid_thru"); err != nil {
		return nil, err
	}

	if err := licence.Validate(); err != nil {
		return nil, err
	}
	return licence, nil
}

func (l *Loader) manufacturer(name string) *entities.Manufacturer {
	if name == "" {
		return nil
	}
	m, ok := l.manufacturers[name]
	if !ok {
		m = &entities.Manufacturer{Name: name}
		l.manufacturers[name] = m
	}
	return m
}

func (l *Loader) model(manufacturer, name string, height int) *entities.Model {
	key := manufacturer + "\x00" + name
	m, ok := l.models[key]
	if !ok {
		m = &entities.Model{Name: name, Manufacturer: l.manufacturer(manufacturer), HeightOfDevice: height}
		l.models[key] = m
	}
	return m
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s, field string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", field, s)
	}
	return &n, nil
}

func optionalDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return &d, nil
}
