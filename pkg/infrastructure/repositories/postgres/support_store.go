package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// SupportStore persists support contracts and their asset assignments
type SupportStore struct {
	client *Client
}

// NewSupportStore creates a support store on client
func NewSupportStore(client *Client) *SupportStore {
	return &SupportStore{client: client}
}

// Verify interface compliance
var _ repositories.SupportRepository = (*SupportStore)(nil)

const supportSelect = `SELECT
	s.id, s.asset_type, s.status, s.contract_id, s.name, s.description, s.price::text,
	s.date_from, s.date_to, s.escalation_path, s.contract_terms, s.additional_notes,
	s.sla_type, s.producer, s.supplier, s.serial_no, s.invoice_no, s.invoice_date,
	s.period_in_months, s.property_of, s.region,
	s.created, s.modified, s.created_by, s.modified_by, s.deleted, s.save_comment,
	st.id, st.name,
	COALESCE((SELECT array_agg(sa.asset_id ORDER BY sa.asset_id) FROM support_assets sa WHERE sa.support_id = s.id), '{}')
FROM supports s
LEFT JOIN support_types st ON st.id = s.support_type_id`

var supportWriteColumns = []string{
	"asset_type", "support_type_id", "status", "contract_id", "name", "description", "price",
	"date_from", "date_to", "escalation_path", "contract_terms", "additional_notes",
	"sla_type", "producer", "supplier", "serial_no", "invoice_no", "invoice_date",
	"period_in_months", "property_of", "region",
	"created", "modified", "created_by", "modified_by", "deleted", "save_comment",
}

// GetSupport returns a non-deleted support contract
func (s *SupportStore) GetSupport(ctx context.Context, id entities.SupportID) (*entities.Support, error) {
	support, err := scanSupport(s.client.pool.QueryRow(ctx, supportSelect+` WHERE s.id = $1 AND NOT s.deleted`, int64(id)))
	if err != nil {
		return nil, translateError(err, "Support", id)
	}
	return support, nil
}

// ListSupports returns support contracts matching the query ordered by id
func (s *SupportStore) ListSupports(ctx context.Context, query repositories.SupportQuery) (repositories.PageResult[*entities.Support], error) {
	w := supportWhere(query)
	result := repositories.PageResult[*entities.Support]{Page: query.Page.Normalize()}

	if err := s.client.pool.QueryRow(ctx, `SELECT count(*) FROM supports s`+w.sql(), w.args...).Scan(&result.Total); err != nil {
		return result, translateError(err, "Support", nil)
	}

	rows, err := s.client.pool.Query(ctx, supportSelect+w.sql()+` ORDER BY s.id`+w.limit(query.Page), w.args...)
	if err != nil {
		return result, translateError(err, "Support", nil)
	}
	defer rows.Close()

	for rows.Next() {
		support, err := scanSupport(rows)
		if err != nil {
			return result, translateError(err, "Support", nil)
		}
		result.Items = append(result.Items, support)
	}
	return result, translateError(rows.Err(), "Support", nil)
}

func supportWhere(q repositories.SupportQuery) *where {
	w := &where{}
	w.add("NOT s.deleted")
	if q.Mode != "" {
		types := make([]int, 0, 2)
		for _, t := range q.Mode.Types() {
			types = append(types, int(t))
		}
		w.add("s.asset_type = ANY(%s)", types)
	}
	if q.SupportTypeID != nil {
		w.add("s.support_type_id = %s", *q.SupportTypeID)
	}
	w.contains("s.contract_id", q.ContractID)
	w.contains("s.name", q.Name)
	w.contains("s.description", q.Description)
	w.contains("s.additional_notes", q.AdditionalNotes)
	w.contains("s.region", q.Region)
	if !q.DateFrom.Empty() {
		w.add("s.date_from IS NOT NULL")
		w.between("s.date_from", q.DateFrom)
	}
	if !q.DateTo.Empty() {
		w.add("s.date_to IS NOT NULL")
		w.between("s.date_to", q.DateTo)
	}
	if !q.AssetSN.Empty() {
		w.add(`EXISTS (SELECT 1 FROM support_assets sa JOIN assets a ON a.id = sa.asset_id
			WHERE sa.support_id = s.id AND NOT a.deleted AND a.sn ILIKE %s ESCAPE '\')`,
			"%"+escapeLike(string(q.AssetSN))+"%")
	}
	return w
}

// SaveSupport inserts or replaces a support contract and its assigned assets
func (s *SupportStore) SaveSupport(ctx context.Context, support *entities.Support) error {
	err := pgx.BeginFunc(ctx, s.client.pool, func(tx pgx.Tx) error {
		if err := ensureSupportType(ctx, tx, support.SupportType); err != nil {
			return err
		}

		values := supportValues(support)
		if support.ID == 0 {
			var id int64
			if err := tx.QueryRow(ctx, insertSQL("supports", supportWriteColumns), values...).Scan(&id); err != nil {
				return err
			}
			support.ID = entities.SupportID(id)
		} else {
			if _, err := tx.Exec(ctx, upsertSQL("supports", supportWriteColumns), append([]any{int64(support.ID)}, values...)...); err != nil {
				return err
			}
			if err := syncSequence(ctx, tx, "supports"); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM support_assets WHERE support_id = $1`, int64(support.ID)); err != nil {
			return err
		}
		if len(support.AssetIDs) == 0 {
			return nil
		}
		ids := make([]int64, len(support.AssetIDs))
		for i, id := range support.AssetIDs {
			ids[i] = int64(id)
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO support_assets (support_id, asset_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			int64(support.ID), ids)
		return err
	})
	return translateError(err, "Support", support.ID)
}

func supportValues(s *entities.Support) []any {
	var supportTypeID *int64
	if s.SupportType != nil {
		supportTypeID = &s.SupportType.ID
	}
	return []any{
		int(s.AssetType), supportTypeID, int(s.Status), s.ContractID, s.Name, s.Description, s.Price.String(),
		s.DateFrom, s.DateTo, s.EscalationPath, s.ContractTerms, s.AdditionalNotes,
		s.SLAType, s.Producer, s.Supplier, s.SerialNo, s.InvoiceNo, s.InvoiceDate,
		s.PeriodInMonths, s.PropertyOf, s.Region,
		s.Created, s.Modified, s.CreatedBy, s.ModifiedBy, s.Deleted, s.SaveComment,
	}
}

func scanSupport(row pgx.Row) (*entities.Support, error) {
	var (
		s               entities.Support
		id              int64
		assetType       int
		status          int
		price           string
		supportTypeID   *int64
		supportTypeName *string
		assetIDs        []int64
	)
	err := row.Scan(
		&id, &assetType, &status, &s.ContractID, &s.Name, &s.Description, &price,
		&s.DateFrom, &s.DateTo, &s.EscalationPath, &s.ContractTerms, &s.AdditionalNotes,
		&s.SLAType, &s.Producer, &s.Supplier, &s.SerialNo, &s.InvoiceNo, &s.InvoiceDate,
		&s.PeriodInMonths, &s.PropertyOf, &s.Region,
		&s.Created, &s.Modified, &s.CreatedBy, &s.ModifiedBy, &s.Deleted, &s.SaveComment,
		&supportTypeID, &supportTypeName,
		&assetIDs,
	)
	if err != nil {
		return nil, err
	}

	s.ID = entities.SupportID(id)
	s.AssetType = entities.AssetType(assetType)
	s.Status = entities.SupportStatus(status)
	if s.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if supportTypeID != nil {
		s.SupportType = &entities.SupportType{ID: *supportTypeID, Name: deref(supportTypeName)}
	}
	for _, assetID := range assetIDs {
		s.AssetIDs = append(s.AssetIDs, entities.AssetID(assetID))
	}
	return &s, nil
}
