package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// RackStore persists racks and rack accessories
type RackStore struct {
	client *Client
	assets *AssetStore
}

// NewRackStore creates a rack store on client
func NewRackStore(client *Client, assets *AssetStore) *RackStore {
	return &RackStore{client: client, assets: assets}
}

// Verify interface compliance
var _ repositories.RackRepository = (*RackStore)(nil)

const rackSelect = `SELECT id, name, max_u_height, created, modified, created_by, modified_by, deleted, save_comment FROM racks`

// GetRack returns a non-deleted rack
func (s *RackStore) GetRack(ctx context.Context, id entities.RackID) (*entities.Rack, error) {
	var (
		rack  entities.Rack
		rawID int64
	)
	err := s.client.pool.QueryRow(ctx, rackSelect+` WHERE id = $1 AND NOT deleted`, int64(id)).Scan(
		&rawID, &rack.Name, &rack.MaxUHeight,
		&rack.Created, &rack.Modified, &rack.CreatedBy, &rack.ModifiedBy, &rack.Deleted, &rack.SaveComment,
	)
	if err != nil {
		return nil, translateError(err, "Rack", id)
	}
	rack.ID = entities.RackID(rawID)
	return &rack, nil
}

var rackWriteColumns = []string{"name", "max_u_height", "created", "modified", "created_by", "modified_by", "deleted", "save_comment"}

// SaveRack inserts or replaces a rack
func (s *RackStore) SaveRack(ctx context.Context, rack *entities.Rack) error {
	values := []any{rack.Name, rack.MaxUHeight, rack.Created, rack.Modified, rack.CreatedBy, rack.ModifiedBy, rack.Deleted, rack.SaveComment}
	err := pgx.BeginFunc(ctx, s.client.pool, func(tx pgx.Tx) error {
		if rack.ID == 0 {
			var id int64
			if err := tx.QueryRow(ctx, insertSQL("racks", rackWriteColumns), values...).Scan(&id); err != nil {
				return err
			}
			rack.ID = entities.RackID(id)
			return nil
		}
		if _, err := tx.Exec(ctx, upsertSQL("racks", rackWriteColumns), append([]any{int64(rack.ID)}, values...)...); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "racks")
	})
	return translateError(err, "Rack", rack.ID)
}

// GetMountedAssets returns the assets mounted on one side of a rack
func (s *RackStore) GetMountedAssets(ctx context.Context, id entities.RackID, side entities.Orientation) ([]*entities.Asset, error) {
	return s.assets.queryAssets(ctx, assetSelect+
		` WHERE a.has_device AND a.device_rack_id = $1 AND a.device_orientation = $2 AND NOT a.deleted ORDER BY a.device_position, a.id`,
		int64(id), int(side))
}

// GetAccessories returns the accessories mounted on one side of a rack,
// ordered by position
func (s *RackStore) GetAccessories(ctx context.Context, id entities.RackID, side entities.Orientation) ([]*entities.RackAccessory, error) {
	rows, err := s.client.pool.Query(ctx,
		`SELECT id, rack_id, orientation, position, accessory_name, remarks FROM rack_accessories
		 WHERE rack_id = $1 AND orientation = $2 ORDER BY position, id`, int64(id), int(side))
	if err != nil {
		return nil, translateError(err, "Rack", id)
	}
	defer rows.Close()

	var accessories []*entities.RackAccessory
	for rows.Next() {
		var (
			acc         entities.RackAccessory
			rackID      int64
			orientation int
		)
		if err := rows.Scan(&acc.ID, &rackID, &orientation, &acc.Position, &acc.AccessoryName, &acc.Remarks); err != nil {
			return nil, translateError(err, "Rack", id)
		}
		acc.RackID = entities.RackID(rackID)
		acc.Orientation = entities.Orientation(orientation)
		accessories = append(accessories, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "Rack", id)
	}
	return accessories, nil
}

var accessoryWriteColumns = []string{"rack_id", "orientation", "position", "accessory_name", "remarks"}

// SaveAccessory inserts or replaces a rack accessory
func (s *RackStore) SaveAccessory(ctx context.Context, accessory *entities.RackAccessory) error {
	values := []any{int64(accessory.RackID), int(accessory.Orientation), accessory.Position, accessory.AccessoryName, accessory.Remarks}
	err := pgx.BeginFunc(ctx, s.client.pool, func(tx pgx.Tx) error {
		if accessory.ID == 0 {
			return tx.QueryRow(ctx, insertSQL("rack_accessories", accessoryWriteColumns), values...).Scan(&accessory.ID)
		}
		if _, err := tx.Exec(ctx, upsertSQL("rack_accessories", accessoryWriteColumns), append([]any{accessory.ID}, values...)...); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "rack_accessories")
	})
	return translateError(err, "Rack accessory", accessory.ID)
}
