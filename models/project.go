// models/project.go
package models

import "time"

// Project item statuses.
const (
	ItemPlanned   = "Planned"
	ItemOrdered   = "Ordered"
	ItemDelivered = "Delivered"
	ItemInstalled = "Installed"
)

// ProjectItem is embedded in its Project; there is no separate collection,
// so any item mutation rewrites the whole project document.
type ProjectItem struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Cost     float64 `bson:"cost,omitempty" json:"cost,omitempty"`
	Status   string  `bson:"status" json:"status"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Project struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Status      string        `bson:"status" json:"status"`
	Items       []ProjectItem `bson:"items" json:"items"`
	CreatedBy   string        `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
