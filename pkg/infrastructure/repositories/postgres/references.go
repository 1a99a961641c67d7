package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vsinha/itam/pkg/domain/entities"
)

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Reference records (manufacturers, models, categories, warehouses, licence
// and support types) are matched by name so imports can refer to them
// without knowing database ids. A set ID is trusted as is.

func ensureNamed(ctx context.Context, q querier, table string, id *int64, name string) error {
	if *id != 0 {
		return nil
	}
	sql := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`, table)
	return q.QueryRow(ctx, sql, name).Scan(id)
}

func ensureManufacturer(ctx context.Context, q querier, m *entities.Manufacturer) error {
	if m == nil {
		return nil
	}
	return ensureNamed(ctx, q, "manufacturers", &m.ID, m.Name)
}

func ensureWarehouse(ctx context.Context, q querier, w *entities.Warehouse) error {
	if w == nil {
		return nil
	}
	return ensureNamed(ctx, q, "warehouses", &w.ID, w.Name)
}

func ensureLicenceType(ctx context.Context, q querier, t *entities.LicenceType) error {
	if t == nil {
		return nil
	}
	return ensureNamed(ctx, q, "licence_types", &t.ID, t.Name)
}

func ensureSupportType(ctx context.Context, q querier, t *entities.SupportType) error {
	if t == nil {
		return nil
	}
	return ensureNamed(ctx, q, "support_types", &t.ID, t.Name)
}

func ensureModel(ctx context.Context, q querier, m *entities.Model) error {
	if m == nil || m.ID != 0 {
		return nil
	}
	if err := ensureManufacturer(ctx, q, m.Manufacturer); err != nil {
		return err
	}
	var manufacturerID *int64
	if m.Manufacturer != nil {
		manufacturerID = &m.Manufacturer.ID
	}
	return q.QueryRow(ctx, `INSERT INTO models (name, manufacturer_id, height_of_device) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET manufacturer_id = EXCLUDED.manufacturer_id, height_of_device = EXCLUDED.height_of_device
		RETURNING id`, m.Name, manufacturerID, m.HeightOfDevice).Scan(&m.ID)
}

func ensureCategory(ctx context.Context, q querier, c *entities.Category) error {
	if c == nil || c.ID != 0 {
		return nil
	}
	return q.QueryRow(ctx, `INSERT INTO categories (name, type, parent_id) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET type = EXCLUDED.type RETURNING id`,
		c.Name, int(c.Type), c.ParentID).Scan(&c.ID)
}

func ensureSoftwareCategory(ctx context.Context, q querier, c *entities.SoftwareCategory) error {
	if c == nil || c.ID != 0 {
		return nil
	}
	return q.QueryRow(ctx, `INSERT INTO software_categories (name, asset_type) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
		c.Name, int(c.AssetType)).Scan(&c.ID)
}
