package postgres

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
	"github.com/vsinha/itam/pkg/infrastructure/repositories/postgres/migrations"
)

func TestWhere_Placeholders(t *testing.T) {
	w := &where{}
	if w.sql() != "" {
		t.Errorf("Expected empty clause, got %q", w.sql())
	}

	w.add("NOT a.deleted")
	w.add("a.status = %s", 4)
	w.contains("a.sn", "ab_1%")
	w.contains("a.barcode", "  ")
	limit := w.limit(repositories.Page{Number: 3})

	expected := " WHERE NOT a.deleted AND a.status = $1 AND a.sn ILIKE $2 ESCAPE '\\'"
	if w.sql() != expected {
		t.Errorf("Expected %q, got %q", expected, w.sql())
	}
	if limit != " LIMIT $3 OFFSET $4" {
		t.Errorf("Unexpected limit clause %q", limit)
	}
	expectedArgs := []any{4, `%ab\_1\%%`, 10, 20}
	if !reflect.DeepEqual(w.args, expectedArgs) {
		t.Errorf("Expected args %v, got %v", expectedArgs, w.args)
	}
}

func TestWhere_Between(t *testing.T) {
	from := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	w := &where{}
	w.between("l.invoice_date", repositories.DateRange{From: &from})

	if w.sql() != " WHERE l.invoice_date >= $1" {
		t.Errorf("Unexpected clause %q", w.sql())
	}
	if got := w.args[0].(time.Time); !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected bound truncated to the date, got %v", got)
	}
}

func TestAssetWhere(t *testing.T) {
	status := entities.StatusUsed
	rack := entities.RackID(5)
	today := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		query    repositories.AssetQuery
		contains []string
		args     int
	}{
		{
			name:     "defaults hide deleted",
			query:    repositories.AssetQuery{},
			contains: []string{"NOT a.deleted"},
		},
		{
			name:     "include deleted",
			query:    repositories.AssetQuery{IncludeDeleted: true},
			contains: []string{},
		},
		{
			name:     "mode and status",
			query:    repositories.AssetQuery{Mode: entities.ModeBackOffice, Status: &status},
			contains: []string{"a.type = ANY($1)", "a.status = $2"},
			args:     2,
		},
		{
			name:     "rack and deprecation",
			query:    repositories.AssetQuery{RackID: &rack, DeprecatedOn: &today},
			contains: []string{"a.device_rack_id = $1", "make_interval(months => a.support_period))::date < $2"},
			args:     2,
		},
		{
			name:     "deprecation needs a support period",
			query:    repositories.AssetQuery{DeprecatedOn: &today, IncludeDeleted: true},
			contains: []string{"a.invoice_date IS NOT NULL", "a.support_period IS NOT NULL", "a.support_period <> 0"},
			args:     1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := assetWhere(tc.query)
			for _, fragment := range tc.contains {
				if !strings.Contains(w.sql(), fragment) {
					t.Errorf("Expected %q in %q", fragment, w.sql())
				}
			}
			if tc.query.IncludeDeleted && strings.Contains(w.sql(), "deleted") {
				t.Errorf("Expected deleted rows to be included, got %q", w.sql())
			}
			if len(w.args) != tc.args {
				t.Errorf("Expected %d args, got %d", tc.args, len(w.args))
			}
		})
	}

	w := assetWhere(repositories.AssetQuery{Mode: entities.ModeBackOffice})
	if !reflect.DeepEqual(w.args[0], []int{101, 102}) {
		t.Errorf("Expected back office types, got %v", w.args[0])
	}
}

func TestSupportWhere_AssetSN(t *testing.T) {
	w := supportWhere(repositories.SupportQuery{Mode: entities.ModeDC, AssetSN: "SN-1", Region: "eu"})
	sql := w.sql()
	if !strings.Contains(sql, "EXISTS (SELECT 1 FROM support_assets") {
		t.Errorf("Expected asset sn subquery, got %q", sql)
	}
	if !strings.Contains(sql, "s.region ILIKE") {
		t.Errorf("Expected region filter, got %q", sql)
	}
	if w.args[len(w.args)-1] != "%SN-1%" {
		t.Errorf("Expected escaped sn pattern last, got %v", w.args[len(w.args)-1])
	}
}

func TestLicenceWhere_InvoiceDate(t *testing.T) {
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	w := licenceWhere(repositories.LicenceQuery{InvoiceDate: repositories.DateRange{To: &to}, NIW: "N-1"})
	sql := w.sql()
	for _, fragment := range []string{"l.niw ILIKE $1", "l.invoice_date IS NOT NULL", "l.invoice_date <= $2"} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("Expected %q in %q", fragment, sql)
		}
	}
}

func TestWriteSQL(t *testing.T) {
	insert := insertSQL("racks", []string{"name", "max_u_height"})
	if insert != "INSERT INTO racks (name, max_u_height) VALUES ($1, $2) RETURNING id" {
		t.Errorf("Unexpected insert %q", insert)
	}
	upsert := upsertSQL("racks", []string{"name", "max_u_height"})
	expected := "INSERT INTO racks (id, name, max_u_height) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, max_u_height = EXCLUDED.max_u_height"
	if upsert != expected {
		t.Errorf("Expected %q, got %q", expected, upsert)
	}
	if len(assetValues(&entities.Asset{Model: &entities.Model{}, Warehouse: &entities.Warehouse{}})) != len(assetWriteColumns) {
		t.Error("Expected one asset value per write column")
	}
}

func TestListMigrationFiles(t *testing.T) {
	files, err := listMigrationFiles(migrations.Files)
	if err != nil {
		t.Fatalf("listMigrationFiles failed: %v", err)
	}
	if len(files) == 0 || files[0] != "0001_init.sql" {
		t.Errorf("Expected 0001_init.sql first, got %v", files)
	}
}
