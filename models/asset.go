// models/asset.go
package models

import "time"

// Asset statuses.
const (
	AssetActive      = "Active"
	AssetInStorage   = "In Storage"
	AssetUnderRepair = "Under Repair"
	AssetRetired     = "Retired"
	AssetLost        = "Lost/Stolen"
)

type Asset struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Description      string    `bson:"description,omitempty" json:"description,omitempty"`
	Category         string    `bson:"category" json:"category"`
	Status           string    `bson:"status" json:"status"`
	Location         string    `bson:"location,omitempty" json:"location,omitempty"`
	Department       string    `bson:"department,omitempty" json:"department,omitempty"`
	AssignedEmployee string    `bson:"assignedEmployee" json:"assignedEmployee"`
	SerialNumber     string    `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	Supplier         string    `bson:"supplier,omitempty" json:"supplier,omitempty"`
	PurchaseDate     string    `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	PurchaseCost     float64   `bson:"purchaseCost,omitempty" json:"purchaseCost,omitempty"`
	LastUpdated      time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// AssetSnapshot is the immutable {id, name, serial} copy embedded in pending
// handovers and handover documents, kept for display even if the live asset
// is edited later.
type AssetSnapshot struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
}

func (a Asset) Snapshot() AssetSnapshot {
	return AssetSnapshot{ID: a.ID, Name: a.Name, SerialNumber: a.SerialNumber}
}
