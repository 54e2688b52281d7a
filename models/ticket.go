// models/ticket.go
package models

import "time"

// Incident ticket statuses.
const (
	TicketNew             = "New"
	TicketOpen            = "Open"
	TicketInProgress      = "In Progress"
	TicketWaitingForParts = "Waiting for Parts"
	TicketResolved        = "Resolved"
	TicketRejected        = "Rejected"
)

// Ticket priorities.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

type IncidentReport struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	TicketNumber    string     `bson:"ticketNumber" json:"ticketNumber"`
	AssetID         string     `bson:"assetId,omitempty" json:"assetId,omitempty"`
	AssetName       string     `bson:"assetName" json:"assetName"`
	DeviceType      string     `bson:"deviceType,omitempty" json:"deviceType,omitempty"`
	ReportedSerial  string     `bson:"reportedSerial,omitempty" json:"reportedSerial,omitempty"`
	ImageBase64     string     `bson:"imageBase64,omitempty" json:"imageBase64,omitempty"`
	Location        string     `bson:"location,omitempty" json:"location,omitempty"`
	ReportedBy      string     `bson:"reportedBy" json:"reportedBy"`
	ReporterEmail   string     `bson:"reporterEmail,omitempty" json:"reporterEmail,omitempty"`
	Description     string     `bson:"description" json:"description"`
	Priority        string     `bson:"priority" json:"priority"`
	Status          string     `bson:"status" json:"status"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	ResolvedAt      *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	ResolutionNotes string     `bson:"resolutionNotes,omitempty" json:"resolutionNotes,omitempty"`
}
