// models/asset_log.go
package models

import "time"

// AssetLog actions.
const (
	LogCreated     = "Created"
	LogUpdated     = "Updated"
	LogAssigned    = "Assigned"
	LogReturned    = "Returned"
	LogTransferred = "Transferred"
	LogAudit       = "Audit"
	LogTicket      = "Ticket"
	LogReplaced    = "Replaced"
	LogRetired     = "Retired"
)

// AssetLog is an append-only row per asset mutation. Never updated or
// deleted by the app; AssetID is a weak reference and may dangle after an
// asset is hard-deleted.
type AssetLog struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	AssetID     string    `bson:"assetId" json:"assetId"`
	Action      string    `bson:"action" json:"action"`
	Details     string    `bson:"details,omitempty" json:"details,omitempty"`
	PerformedBy string    `bson:"performedBy" json:"performedBy"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	DocumentID  string    `bson:"documentId,omitempty" json:"documentId,omitempty"`
}
