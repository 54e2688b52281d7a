// models/collections.go
package models

// Collection names, before environment namespacing.
const (
	ColAssets            = "assets"
	ColAssetLogs         = "asset_logs"
	ColTickets           = "tickets"
	ColRequests          = "asset_requests"
	ColPendingHandovers  = "pending_handovers"
	ColHandoverDocuments = "handover_documents"
	ColProjects          = "projects"
	ColInvoices          = "invoices"
	ColUsers             = "users"
	ColAppConfig         = "app_config"
)

// AllCollections is what the websocket feed and the sandbox reset iterate.
var AllCollections = []string{
	ColAssets,
	ColAssetLogs,
	ColTickets,
	ColRequests,
	ColPendingHandovers,
	ColHandoverDocuments,
	ColProjects,
	ColInvoices,
	ColUsers,
	ColAppConfig,
}
