package events

import (
	"fmt"

	"github.com/vsinha/itam/pkg/domain/entities"
)

const (
	AssetCreatedEvent = "asset.created"
	AssetUpdatedEvent = "asset.updated"
	AssetDeletedEvent = "asset.deleted"

	LicenceCreatedEvent = "licence.created"
	LicenceUpdatedEvent = "licence.updated"

	SupportCreatedEvent = "support.created"
	SupportUpdatedEvent = "support.updated"

	AttachmentStoredEvent = "attachment.stored"
)

type AssetCreated struct {
	Asset entities.Asset `json:"asset"`
}

type AssetUpdated struct {
	OldAsset entities.Asset `json:"old_asset"`
	NewAsset entities.Asset `json:"new_asset"`
	Comment  string         `json:"comment,omitempty"`
}

type AssetDeleted struct {
	AssetID entities.AssetID `json:"asset_id"`
}

type LicenceSaved struct {
	Licence entities.Licence `json:"licence"`
}

type SupportSaved struct {
	Support entities.Support `json:"support"`
}

type AttachmentStored struct {
	AssetID entities.AssetID `json:"asset_id"`
	Key     string           `json:"key"`
}

// AssetStream returns the stream id for an asset's history
func AssetStream(id entities.AssetID) string {
	return fmt.Sprintf("asset-%d", id)
}

// LicenceStream returns the stream id for a licence's history
func LicenceStream(id entities.LicenceID) string {
	return fmt.Sprintf("licence-%d", id)
}

// SupportStream returns the stream id for a support contract's history
func SupportStream(id entities.SupportID) string {
	return fmt.Sprintf("support-%d", id)
}
