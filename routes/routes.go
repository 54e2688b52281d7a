package routes

import (
	"github.com/gorilla/mux"

	"assetdesk/handlers"
	"assetdesk/middleware"
	"assetdesk/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc("/health", handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION (Public)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)

	// ====================
	// PUBLIC INTAKE & TRACKING (No auth; env comes from ?env=)
	// ====================
	r.HandleFunc("/api/public/tickets", handlers.PublicCreateTicket).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/public/requests", handlers.PublicCreateRequest).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/public/track/{reference}", handlers.TrackReference).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/handovers/{id}", handlers.PublicGetHandover).Methods(MethodsGetOnly...)
	r.HandleFunc("/api/public/handovers/{id}/sign", handlers.PublicSignHandover).Methods(MethodsPostOnly...)

	// ====================
	// WEBSOCKET (env from ?env=)
	// ====================
	r.HandleFunc("/ws", websocket.ServeWS).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// USER MANAGEMENT
	// ====================
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users", handlers.CreateUser).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/users/{id}/role", handlers.UpdateUserRole).Methods(MethodsPutOnly...)

	// ====================
	// ASSETS
	// ====================
	apiRouter.HandleFunc("/assets", handlers.ListAssets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets", handlers.SaveAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/import", handlers.ImportAssets).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.GetAsset).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.SaveAsset).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.DeleteAsset).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/assets/{id}/logs", handlers.GetAssetLogs).Methods(MethodsGetOnly...)

	// ====================
	// MASTER DATA / APP CONFIG
	// ====================
	apiRouter.HandleFunc("/config", handlers.GetAppConfig).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/config/{kind}", handlers.AddMasterDataValue).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/config/{kind}/rename", handlers.RenameMasterDataValue).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/config/{kind}", handlers.DeleteMasterDataValue).Methods(MethodsDeleteOnly...)

	// ====================
	// INCIDENT TICKETS
	// ====================
	apiRouter.HandleFunc("/tickets", handlers.ListTickets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tickets", handlers.CreateTicket).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/tickets/{id}", handlers.GetTicket).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/tickets/{id}/status", handlers.UpdateTicketStatus).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/tickets/{id}/resolve", handlers.ResolveTicket).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/tickets/{id}/replace", handlers.ReplaceTicketAsset).Methods(MethodsPostOnly...)

	// ====================
	// ASSET REQUESTS
	// ====================
	apiRouter.HandleFunc("/requests", handlers.ListRequests).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/requests", handlers.CreateRequest).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/requests/{id}", handlers.GetRequest).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/requests/{id}/status", handlers.UpdateRequestStatus).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/requests/{id}/fulfill", handlers.FulfillRequest).Methods(MethodsPostOnly...)

	// ====================
	// HANDOVERS
	// ====================
	apiRouter.HandleFunc("/handovers/pending", handlers.ListPendingHandovers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/handovers/pending", handlers.CreatePendingHandover).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/handovers/pending/{id}", handlers.RevokePendingHandover).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/handovers/pending/{id}/complete", handlers.CompleteHandover).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/handovers/documents", handlers.ListHandoverDocuments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/handovers/documents/{id}/countersign", handlers.CompleteReturn).Methods(MethodsPostOnly...)

	// ====================
	// PLANNER
	// ====================
	apiRouter.HandleFunc("/projects", handlers.ListProjects).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/projects", handlers.CreateProject).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/projects/{id}", handlers.GetProject).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/projects/{id}", handlers.UpdateProject).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/projects/{id}", handlers.DeleteProject).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/projects/{id}/items", handlers.AddProjectItem).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/projects/{id}/items/{itemId}", handlers.UpdateProjectItem).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/projects/{id}/items/{itemId}", handlers.RemoveProjectItem).Methods(MethodsDeleteOnly...)

	// ====================
	// INVOICES
	// ====================
	apiRouter.HandleFunc("/invoices", handlers.ListInvoices).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/invoices", handlers.SaveInvoice).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/invoices/{id}", handlers.GetInvoice).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/invoices/{id}", handlers.SaveInvoice).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/invoices/{id}", handlers.DeleteInvoice).Methods(MethodsDeleteOnly...)

	// ====================
	// DASHBOARD & SANDBOX
	// ====================
	apiRouter.HandleFunc("/dashboard", handlers.GetDashboard).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/sandbox/reset", handlers.ResetSandbox).Methods(MethodsPostOnly...)
}
