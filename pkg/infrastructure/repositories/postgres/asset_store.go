package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// AssetStore persists assets in the assets table
type AssetStore struct {
	client *Client
}

// NewAssetStore creates an asset store on client
func NewAssetStore(client *Client) *AssetStore {
	return &AssetStore{client: client}
}

// Verify interface compliance
var _ repositories.AssetRepository = (*AssetStore)(nil)

const assetSelect = `SELECT
	a.id, a.type, a.source, a.status, a.sn, a.barcode, a.url,
	a.invoice_no, a.order_no, a.invoice_date, a.price::text, a.support_price::text,
	a.support_period, a.support_type, a.support_void_reporting, a.provider, a.remarks, a.slots,
	a.request_date, a.delivery_date, a.production_use_date, a.provider_order_date,
	a.has_device, a.device_ralph_id, a.device_rack_id, a.device_orientation, a.device_position, a.device_size,
	a.has_part, a.part_barcode_salvaged, a.part_source_device_id, a.part_device_id,
	a.has_office, a.office_license_key, a.office_version, a.office_attachment, a.office_license_type,
	a.office_date_of_last_inventory, a.office_last_logged_user,
	a.created, a.modified, a.created_by, a.modified_by, a.deleted, a.save_comment,
	m.id, m.name, m.height_of_device, mf.id, mf.name,
	c.id, c.name, c.type, c.parent_id,
	w.id, w.name
FROM assets a
JOIN models m ON m.id = a.model_id
LEFT JOIN manufacturers mf ON mf.id = m.manufacturer_id
LEFT JOIN categories c ON c.id = a.category_id
JOIN warehouses w ON w.id = a.warehouse_id`

const assetFrom = ` FROM assets a`

// assetWriteColumns are written by SaveAsset in this order
var assetWriteColumns = []string{
	"type", "model_id", "category_id", "warehouse_id", "source", "status",
	"sn", "barcode", "url", "invoice_no", "order_no", "invoice_date",
	"price", "support_price", "support_period", "support_type", "support_void_reporting",
	"provider", "remarks", "slots",
	"request_date", "delivery_date", "production_use_date", "provider_order_date",
	"has_device", "device_ralph_id", "device_rack_id", "device_orientation", "device_position", "device_size",
	"has_part", "part_barcode_salvaged", "part_source_device_id", "part_device_id",
	"has_office", "office_license_key", "office_version", "office_attachment", "office_license_type",
	"office_date_of_last_inventory", "office_last_logged_user",
	"created", "modified", "created_by", "modified_by", "deleted", "save_comment",
}

// GetAsset returns a non-deleted asset
func (s *AssetStore) GetAsset(ctx context.Context, id entities.AssetID) (*entities.Asset, error) {
	row := s.client.pool.QueryRow(ctx, assetSelect+` WHERE a.id = $1 AND NOT a.deleted`, int64(id))
	asset, err := scanAsset(row)
	if err != nil {
		return nil, translateError(err, "Asset", id)
	}
	return asset, nil
}

// ListAssets returns assets matching the query ordered by id
func (s *AssetStore) ListAssets(ctx context.Context, query repositories.AssetQuery) (repositories.PageResult[*entities.Asset], error) {
	w := assetWhere(query)
	result := repositories.PageResult[*entities.Asset]{Page: query.Page.Normalize()}

	if err := s.client.pool.QueryRow(ctx, `SELECT count(*)`+assetFrom+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, translateError(err, "Asset", nil)
	}

	sql := assetSelect + w.sql() + ` ORDER BY a.id` + w.limit(query.Page)
	assets, err := s.queryAssets(ctx, sql, w.args...)
	if err != nil {
		return result, err
	}
	result.Items = assets
	return result, nil
}

// assetWhere translates an asset query into SQL conditions on alias a
func assetWhere(q repositories.AssetQuery) *where {
	w := &where{}
	if !q.IncludeDeleted {
		w.add("NOT a.deleted")
	}
	if q.Mode != "" {
		types := make([]int, 0, 2)
		for _, t := range q.Mode.Types() {
			types = append(types, int(t))
		}
		w.add("a.type = ANY(%s)", types)
	}
	if q.Status != nil {
		w.add("a.status = %s", int(*q.Status))
	}
	w.contains("a.sn", q.SN)
	w.contains("a.barcode", q.Barcode)
	if q.RackID != nil {
		w.add("a.has_device AND a.device_rack_id = %s", int64(*q.RackID))
	}
	if q.DeprecatedOn != nil {
		// date + interval clamps to the last day of shorter months
		w.add("a.invoice_date IS NOT NULL AND a.support_period IS NOT NULL AND a.support_period <> 0 AND "+
			"(a.invoice_date + make_interval(months => a.support_period))::date < %s", dateOnly(*q.DeprecatedOn))
	}
	return w
}

// SaveAsset inserts or replaces an asset together with its references
func (s *AssetStore) SaveAsset(ctx context.Context, asset *entities.Asset) error {
	err := pgx.BeginFunc(ctx, s.client.pool, func(tx pgx.Tx) error {
		if err := ensureModel(ctx, tx, asset.Model); err != nil {
			return err
		}
		if err := ensureCategory(ctx, tx, asset.Category); err != nil {
			return err
		}
		if err := ensureWarehouse(ctx, tx, asset.Warehouse); err != nil {
			return err
		}

		values := assetValues(asset)
		if asset.ID == 0 {
			var id int64
			if err := tx.QueryRow(ctx, insertSQL("assets", assetWriteColumns), values...).Scan(&id); err != nil {
				return err
			}
			asset.ID = entities.AssetID(id)
			return nil
		}
		if _, err := tx.Exec(ctx, upsertSQL("assets", assetWriteColumns), append([]any{int64(asset.ID)}, values...)...); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "assets")
	})
	return translateError(err, "Asset", asset.ID)
}

// DeleteAsset soft deletes an asset
func (s *AssetStore) DeleteAsset(ctx context.Context, id entities.AssetID, user string) error {
	tag, err := s.client.pool.Exec(ctx,
		`UPDATE assets SET deleted = TRUE, modified = $2, modified_by = $3 WHERE id = $1 AND NOT deleted`,
		int64(id), s.client.now(), user)
	if err != nil {
		return translateError(err, "Asset", id)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "Asset", id)
	}
	return nil
}

// GetParts returns the non-deleted parts installed in a device
func (s *AssetStore) GetParts(ctx context.Context, deviceID entities.AssetID) ([]*entities.Asset, error) {
	return s.queryAssets(ctx, assetSelect+` WHERE a.has_part AND a.part_device_id = $1 AND NOT a.deleted ORDER BY a.id`, int64(deviceID))
}

func (s *AssetStore) queryAssets(ctx context.Context, sql string, args ...any) ([]*entities.Asset, error) {
	rows, err := s.client.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, "Asset", nil)
	}
	defer rows.Close()

	var assets []*entities.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, translateError(err, "Asset", nil)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "Asset", nil)
	}
	return assets, nil
}

func insertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// upsertSQL writes a row with an explicit id in $1
func upsertSQL(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	updates := make([]string, len(columns))
	for i, c := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return fmt.Sprintf("INSERT INTO %s (id, %s) VALUES ($1, %s) ON CONFLICT (id) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

func assetValues(a *entities.Asset) []any {
	var categoryID *int64
	if a.Category != nil {
		categoryID = &a.Category.ID
	}
	var supportPrice *string
	if a.SupportPrice != nil {
		v := a.SupportPrice.String()
		supportPrice = &v
	}

	var (
		hasDevice                       bool
		ralphID, rackID                 *int64
		orientation, position, size     int
		hasPart                         bool
		barcodeSalvaged                 string
		sourceDeviceID, partDeviceID    *int64
		hasOffice                       bool
		licenseKey, version, attachment string
		licenseType                     *int
		lastInventory                   *time.Time
		lastLoggedUser                  string
	)
	orientation = int(entities.Front)
	if d := a.DeviceInfo; d != nil {
		hasDevice = true
		ralphID = d.RalphDeviceID
		if d.RackID != nil {
			v := int64(*d.RackID)
			rackID = &v
		}
		orientation, position, size = int(d.Orientation), d.Position, d.Size
	}
	if p := a.PartInfo; p != nil {
		hasPart = true
		barcodeSalvaged = p.BarcodeSalvaged
		sourceDeviceID = assetIDPtr(p.SourceDeviceID)
		partDeviceID = assetIDPtr(p.DeviceID)
	}
	if o := a.OfficeInfo; o != nil {
		hasOffice = true
		licenseKey, version, attachment = o.LicenseKey, o.Version, o.Attachment
		if o.LicenseType != nil {
			v := int(*o.LicenseType)
			licenseType = &v
		}
		lastInventory = o.DateOfLastInventory
		lastLoggedUser = o.LastLoggedUser
	}

	return []any{
		int(a.Type), a.Model.ID, categoryID, a.Warehouse.ID, int(a.Source), int(a.Status),
		a.SN, a.Barcode, a.URL, a.InvoiceNo, a.OrderNo, a.InvoiceDate,
		a.Price.String(), supportPrice, a.SupportPeriod, a.SupportType, a.SupportVoidReporting,
		a.Provider, a.Remarks, a.Slots,
		a.RequestDate, a.DeliveryDate, a.ProductionUseDate, a.ProviderOrderDate,
		hasDevice, ralphID, rackID, orientation, position, size,
		hasPart, barcodeSalvaged, sourceDeviceID, partDeviceID,
		hasOffice, licenseKey, version, attachment, licenseType,
		lastInventory, lastLoggedUser,
		a.Created, a.Modified, a.CreatedBy, a.ModifiedBy, a.Deleted, a.SaveComment,
	}
}

func assetIDPtr(id *entities.AssetID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var (
		a                            entities.Asset
		id                           int64
		typ, source, status          int
		price                        string
		supportPrice                 *string
		hasDevice                    bool
		ralphID, rackID              *int64
		orientation, position, size  int
		hasPart                      bool
		barcodeSalvaged              string
		sourceDeviceID, partDeviceID *int64
		hasOffice                    bool
		office                       entities.OfficeInfo
		licenseType                  *int
		model                        entities.Model
		manufacturerID               *int64
		manufacturerName             *string
		categoryID, categoryParent   *int64
		categoryName                 *string
		categoryType                 *int
		warehouse                    entities.Warehouse
	)

	err := row.Scan(
		&id, &typ, &source, &status, &a.SN, &a.Barcode, &a.URL,
		&a.InvoiceNo, &a.OrderNo, &a.InvoiceDate, &price, &supportPrice,
		&a.SupportPeriod, &a.SupportType, &a.SupportVoidReporting, &a.Provider, &a.Remarks, &a.Slots,
		&a.RequestDate, &a.DeliveryDate, &a.ProductionUseDate, &a.ProviderOrderDate,
		&hasDevice, &ralphID, &rackID, &orientation, &position, &size,
		&hasPart, &barcodeSalvaged, &sourceDeviceID, &partDeviceID,
		&hasOffice, &office.LicenseKey, &office.Version, &office.Attachment, &licenseType,
		&office.DateOfLastInventory, &office.LastLoggedUser,
		&a.Created, &a.Modified, &a.CreatedBy, &a.ModifiedBy, &a.Deleted, &a.SaveComment,
		&model.ID, &model.Name, &model.HeightOfDevice, &manufacturerID, &manufacturerName,
		&categoryID, &categoryName, &categoryType, &categoryParent,
		&warehouse.ID, &warehouse.Name,
	)
	if err != nil {
		return nil, err
	}

	a.ID = entities.AssetID(id)
	a.Type = entities.AssetType(typ)
	a.Source = entities.AssetSource(source)
	a.Status = entities.AssetStatus(status)
	if a.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if supportPrice != nil {
		v, err := decimal.NewFromString(*supportPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid support price %q: %w", *supportPrice, err)
		}
		a.SupportPrice = &v
	}

	if manufacturerID != nil {
		model.Manufacturer = &entities.Manufacturer{ID: *manufacturerID, Name: deref(manufacturerName)}
	}
	a.Model = &model
	if categoryID != nil {
		a.Category = &entities.Category{
			ID:       *categoryID,
			Name:     deref(categoryName),
			Type:     entities.AssetCategoryType(derefInt(categoryType)),
			ParentID: categoryParent,
		}
	}
	a.Warehouse = &warehouse

	if hasDevice {
		a.DeviceInfo = &entities.DeviceInfo{
			RalphDeviceID: ralphID,
			Orientation:   entities.Orientation(orientation),
			Position:      position,
			Size:          size,
		}
		if rackID != nil {
			r := entities.RackID(*rackID)
			a.DeviceInfo.RackID = &r
		}
	}
	if hasPart {
		a.PartInfo = &entities.PartInfo{
			BarcodeSalvaged: barcodeSalvaged,
			SourceDeviceID:  toAssetID(sourceDeviceID),
			DeviceID:        toAssetID(partDeviceID),
		}
	}
	if hasOffice {
		if licenseType != nil {
			lt := entities.LicenseType(*licenseType)
			office.LicenseType = &lt
		}
		a.OfficeInfo = &office
	}
	return &a, nil
}

func toAssetID(v *int64) *entities.AssetID {
	if v == nil {
		return nil
	}
	id := entities.AssetID(*v)
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
