// models/request.go
package models

import "time"

// Asset request statuses.
const (
	RequestNew            = "New"
	RequestAcknowledged   = "Acknowledged"
	RequestPendingFinance = "Pending Finance"
	RequestApproved       = "Approved"
	RequestDeployed       = "Deployed"
	RequestRejected       = "Rejected"
)

// Request urgencies.
const (
	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

type AssetRequest struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	RequestNumber   string     `bson:"requestNumber" json:"requestNumber"`
	RequesterName   string     `bson:"requesterName" json:"requesterName"`
	RequesterEmail  string     `bson:"requesterEmail,omitempty" json:"requesterEmail,omitempty"`
	Department      string     `bson:"department,omitempty" json:"department,omitempty"`
	Category        string     `bson:"category" json:"category"`
	Urgency         string     `bson:"urgency" json:"urgency"`
	Reason          string     `bson:"reason,omitempty" json:"reason,omitempty"`
	Status          string     `bson:"status" json:"status"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	ResolvedAt      *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ResolutionNotes string     `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`
	LinkedAssetID   string     `bson:"linkedAssetId,omitempty" json:"linkedAssetId,omitempty"`
}
