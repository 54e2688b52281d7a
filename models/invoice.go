// models/invoice.go
package models

import "time"

type Invoice struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Vendor         string    `bson:"vendor" json:"vendor"`
	InvoiceNumber  string    `bson:"invoiceNumber" json:"invoiceNumber"`
	Amount         float64   `bson:"amount" json:"amount"`
	Date           string    `bson:"date,omitempty" json:"date,omitempty"`
	FileBase64     string    `bson:"fileBase64,omitempty" json:"fileBase64,omitempty"`
	FileName       string    `bson:"fileName,omitempty" json:"fileName,omitempty"`
	LinkedAssetIDs []string  `bson:"linkedAssetIds,omitempty" json:"linkedAssetIds"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
