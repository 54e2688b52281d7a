// models/handover.go
package models

import "time"

// Handover types.
const (
	HandoverTypeHandover = "Handover"
	HandoverTypeReturn   = "Return"
	HandoverTypeTransfer = "Transfer"
)

// Pending handover / handover document statuses. A document is Pending until
// every required signature is present (a Return needs the IT co-signature).
const (
	HandoverPending   = "Pending"
	HandoverCompleted = "Completed"
)

// PendingHandover is the intent record created by staff. It is consumed
// exactly once by a successful signature submission, or revoked (deleted)
// before one arrives.
type PendingHandover struct {
	ID             string          `bson:"_id,omitempty" json:"id"`
	EmployeeName   string          `bson:"employeeName" json:"employeeName"`
	AssetIDs       []string        `bson:"assetIds" json:"assetIds"`
	AssetsSnapshot []AssetSnapshot `bson:"assetsSnapshot" json:"assetsSnapshot"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	CreatedBy      string          `bson:"createdBy" json:"createdBy"`
	Status         string          `bson:"status" json:"status"`
	Type           string          `bson:"type" json:"type"`
	TargetName     string          `bson:"targetName,omitempty" json:"targetName,omitempty"`
}

// HandoverDocument is the signed record. Immutable once both signatures are
// present; a Pending Return document is updated once to append the IT
// co-signature.
type HandoverDocument struct {
	ID                string          `bson:"_id,omitempty" json:"id"`
	EmployeeName      string          `bson:"employeeName" json:"employeeName"`
	Assets            []AssetSnapshot `bson:"assets" json:"assets"`
	SignatureBase64   string          `bson:"signatureBase64" json:"signatureBase64"`
	ITSignatureBase64 string          `bson:"itSignatureBase64,omitempty" json:"itSignatureBase64,omitempty"`
	Date              time.Time       `bson:"date" json:"date"`
	Type              string          `bson:"type" json:"type"`
	Status            string          `bson:"status" json:"status"`
	TargetName        string          `bson:"targetName,omitempty" json:"targetName,omitempty"`
}
