package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// LicenceStore persists licences and software categories
type LicenceStore struct {
	client *Client
}

// NewLicenceStore creates a licence store on client
func NewLicenceStore(client *Client) *LicenceStore {
	return &LicenceStore{client: client}
}

// Verify interface compliance
var (
	_ repositories.LicenceRepository          = (*LicenceStore)(nil)
	_ repositories.SoftwareCategoryRepository = (*LicenceStore)(nil)
)

const licenceSelect = `SELECT
	l.id, l.asset_type, l.property_of, l.niw, l.sn, l.number_bought, l.used, l.price::text,
	l.invoice_no, l.invoice_date, l.order_no, l.valid_thru, l.remarks,
	l.created, l.modified, l.created_by, l.modified_by, l.deleted, l.save_comment,
	lt.id, lt.name, mf.id, mf.name, sc.id, sc.name, sc.asset_type
FROM licences l
JOIN software_categories sc ON sc.id = l.software_category_id
LEFT JOIN licence_types lt ON lt.id = l.licence_type_id
LEFT JOIN manufacturers mf ON mf.id = l.manufacturer_id`

var licenceWriteColumns = []string{
	"asset_type", "licence_type_id", "manufacturer_id", "software_category_id", "property_of",
	"niw", "sn", "number_bought", "used", "price", "invoice_no", "invoice_date", "order_no", "valid_thru", "remarks",
	"created", "modified", "created_by", "modified_by", "deleted", "save_comment",
}

// GetLicence returns a non-deleted licence
func (s *LicenceStore) GetLicence(ctx context.Context, id entities.LicenceID) (*entities.Licence, error) {
	licence, err := scanLicence(s.client.pool.QueryRow(ctx, licenceSelect+` WHERE l.id = $1 AND NOT l.deleted`, int64(id)))
	if err != nil {
		return nil, translateError(err, "Licence", id)
	}
	return licence, nil
}

// ListLicences returns licences matching the query ordered by id
func (s *LicenceStore) ListLicences(ctx context.Context, query repositories.LicenceQuery) (repositories.PageResult[*entities.Licence], error) {
	w := licenceWhere(query)
	result := repositories.PageResult[*entities.Licence]{Page: query.Page.Normalize()}

	if err := s.client.pool.QueryRow(ctx, `SELECT count(*) FROM licences l`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, translateError(err, "Licence", nil)
	}

	rows, err := s.client.pool.Query(ctx, licenceSelect+w.sql()+` ORDER BY l.id`+w.limit(query.Page), w.args...)
	if err != nil {
		return result, translateError(err, "Licence", nil)
	}
	defer rows.Close()

	for rows.Next() {
		licence, err := scanLicence(rows)
		if err != nil {
			return result, translateError(err, "Licence", nil)
		}
		result.Items = append(result.Items, licence)
	}
	return result, translateError(rows.Err(), "Licence", nil)
}

func licenceWhere(q repositories.LicenceQuery) *where {
	w := &where{}
	w.add("NOT l.deleted")
	if q.Mode != "" {
		types := make([]int, 0, 2)
		for _, t := range q.Mode.Types() {
			types = append(types, int(t))
		}
		w.add("(l.asset_type IS NULL OR l.asset_type = ANY(%s))", types)
	}
	if q.SoftwareCategoryID != nil {
		w.add("l.software_category_id = %s", *q.SoftwareCategoryID)
	}
	if q.ManufacturerID != nil {
		w.add("l.manufacturer_id = %s", *q.ManufacturerID)
	}
	if q.LicenceTypeID != nil {
		w.add("l.licence_type_id = %s", *q.LicenceTypeID)
	}
	w.contains("l.niw", q.NIW)
	w.contains("l.sn", q.SN)
	w.contains("l.property_of", q.PropertyOf)
	if !q.InvoiceDate.Empty() {
		w.add("l.invoice_date IS NOT NULL")
		w.between("l.invoice_date", q.InvoiceDate)
	}
	return w
}

// SaveLicence inserts or replaces a licence together with its references
func (s *LicenceStore) SaveLicence(ctx context.Context, licence *entities.Licence) error {
	err := pgx.BeginFunc(ctx, s.client.pool, func(tx pgx.Tx) error {
		if err := ensureSoftwareCategory(ctx, tx, licence.SoftwareCategory); err != nil {
			return err
		}
		if err := ensureLicenceType(ctx, tx, licence.LicenceType); err != nil {
			return err
		}
		if err := ensureManufacturer(ctx, tx, licence.Manufacturer); err != nil {
			return err
		}

		values := licenceValues(licence)
		if licence.ID == 0 {
			var id int64
			if err := tx.QueryRow(ctx, insertSQL("licences", licenceWriteColumns), values...).Scan(&id); err != nil {
				return err
			}
			licence.ID = entities.LicenceID(id)
			return nil
		}
		if _, err := tx.Exec(ctx, upsertSQL("licences", licenceWriteColumns), append([]any{int64(licence.ID)}, values...)...); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "licences")
	})
	return translateError(err, "Licence", licence.ID)
}

func licenceValues(l *entities.Licence) []any {
	var assetType *int
	if l.AssetType != nil {
		v := int(*l.AssetType)
		assetType = &v
	}
	var licenceTypeID, manufacturerID *int64
	if l.LicenceType != nil {
		licenceTypeID = &l.LicenceType.ID
	}
	if l.Manufacturer != nil {
		manufacturerID = &l.Manufacturer.ID
	}
	return []any{
		assetType, licenceTypeID, manufacturerID, l.SoftwareCategory.ID, l.PropertyOf,
		l.NIW, l.SN, l.NumberBought, l.Used, l.Price.String(), l.InvoiceNo, l.InvoiceDate, l.OrderNo, l.ValidThru, l.Remarks,
		l.Created, l.Modified, l.CreatedBy, l.ModifiedBy, l.Deleted, l.SaveComment,
	}
}

func scanLicence(row pgx.Row) (*entities.Licence, error) {
	var (
		l                 entities.Licence
		id                int64
		assetType         *int
		price             string
		licenceTypeID     *int64
		licenceTypeName   *string
		manufacturerID    *int64
		manufacturerName  *string
		category          entities.SoftwareCategory
		categoryAssetType int
	)
	err := row.Scan(
		&id, &assetType, &l.PropertyOf, &l.NIW, &l.SN, &l.NumberBought, &l.Used, &price,
		&l.InvoiceNo, &l.InvoiceDate, &l.OrderNo, &l.ValidThru, &l.Remarks,
		&l.Created, &l.Modified, &l.CreatedBy, &l.ModifiedBy, &l.Deleted, &l.SaveComment,
		&licenceTypeID, &licenceTypeName, &manufacturerID, &manufacturerName,
		&category.ID, &category.Name, &categoryAssetType,
	)
	if err != nil {
		return nil, err
	}

	l.ID = entities.LicenceID(id)
	if assetType != nil {
		t := entities.AssetType(*assetType)
		l.AssetType = &t
	}
	if l.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if licenceTypeID != nil {
		l.LicenceType = &entities.LicenceType{ID: *licenceTypeID, Name: deref(licenceTypeName)}
	}
	if manufacturerID != nil {
		l.Manufacturer = &entities.Manufacturer{ID: *manufacturerID, Name: deref(manufacturerName)}
	}
	category.AssetType = entities.AssetType(categoryAssetType)
	l.SoftwareCategory = &category
	return &l, nil
}

// SaveSoftwareCategory inserts or renames a software category
func (s *LicenceStore) SaveSoftwareCategory(ctx context.Context, category *entities.SoftwareCategory) error {
	var err error
	if category.ID == 0 {
		err = s.client.pool.QueryRow(ctx,
			`INSERT INTO software_categories (name, asset_type) VALUES ($1, $2) RETURNING id`,
			category.Name, int(category.AssetType)).Scan(&category.ID)
	} else {
		_, err = s.client.pool.Exec(ctx,
			`INSERT INTO software_categories (id, name, asset_type) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, asset_type = EXCLUDED.asset_type`,
			category.ID, category.Name, int(category.AssetType))
	}
	return translateError(err, "Software category", category.ID)
}

// ListSoftwareCategories returns categories ordered by name
func (s *LicenceStore) ListSoftwareCategories(ctx context.Context, name repositories.TextFilter, page repositories.Page) (repositories.PageResult[*entities.SoftwareCategory], error) {
	w := &where{}
	w.contains("name", name)
	result := repositories.PageResult[*entities.SoftwareCategory]{Page: page.Normalize()}

	if err := s.client.pool.QueryRow(ctx, `SELECT count(*) FROM software_categories`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, translateError(err, "Software category", nil)
	}

	rows, err := s.client.pool.Query(ctx,
		`SELECT id, name, asset_type FROM software_categories`+w.sql()+` ORDER BY name`+w.limit(page), w.args...)
	if err != nil {
		return result, translateError(err, "Software category", nil)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category  entities.SoftwareCategory
			assetType int
		)
		if err := rows.Scan(&category.ID, &category.Name, &assetType); err != nil {
			return result, translateError(err, "Software category", nil)
		}
		category.AssetType = entities.AssetType(assetType)
		result.Items = append(result.Items, &category)
	}
	return result, translateError(rows.Err(), "Software category", nil)
}
