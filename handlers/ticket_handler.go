// handlers/ticket_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/config"
	"assetdesk/models"
	"assetdesk/utils"
	"assetdesk/workflow"
)

func ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tickets, err := engine.ListTickets(ctx, requestEnv(r), r.URL.Query().Get("status"))
	if err != nil {
		log.Printf("list tickets failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch tickets")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tickets)
}

func GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.GetTicket(ctx, requestEnv(r), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "ticket not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ticket)
}

type ticketPayload struct {
	AssetID        string `json:"assetId,omitempty"`
	AssetName      string `json:"assetName"`
	DeviceType     string `json:"deviceType,omitempty"`
	ReportedSerial string `json:"reportedSerial,omitempty"`
	ImageBase64    string `json:"imageBase64,omitempty"`
	Location       string `json:"location,omitempty"`
	ReportedBy     string `json:"reportedBy"`
	ReporterEmail  string `json:"reporterEmail,omitempty"`
	Description    string `json:"description"`
	Priority       string `json:"priority,omitempty"`
}

func (p ticketPayload) input() workflow.TicketInput {
	return workflow.TicketInput{
		AssetID:        p.AssetID,
		AssetName:      p.AssetName,
		DeviceType:     p.DeviceType,
		ReportedSerial: p.ReportedSerial,
		ImageBase64:    p.ImageBase64,
		Location:       p.Location,
		ReportedBy:     p.ReportedBy,
		ReporterEmail:  p.ReporterEmail,
		Description:    p.Description,
		Priority:       p.Priority,
	}
}

// CreateTicket is the staff intake; the public form goes through
// PublicCreateTicket.
func CreateTicket(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create tickets")
		return
	}

	var payload ticketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	in := payload.input()
	if in.ReportedBy == "" {
		in.ReportedBy = actor.DisplayNameOrEmail()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.CreateTicket(ctx, requestEnv(r), in)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, ticket)
}

// UpdateTicketStatus performs a guarded triage/approve/reject transition.
func UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update tickets")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.UpdateTicketStatus(ctx, requestEnv(r), mux.Vars(r)["id"], req.Status)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	notifyReporter(ticket, fmt.Sprintf("Ticket %s is now %s", ticket.TicketNumber, ticket.Status))
	utils.RespondWithJSON(w, http.StatusOK, ticket)
}

// ResolveTicket closes a ticket with the repair policy, optionally flipping
// the linked asset back to Active.
func ResolveTicket(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to resolve tickets")
		return
	}

	var req struct {
		Notes           string `json:"notes,omitempty"`
		ReactivateAsset bool   `json:"reactivateAsset,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.ResolveRepair(ctx, requestEnv(r), actor, mux.Vars(r)["id"], req.Notes, req.ReactivateAsset)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	notifyReporter(ticket, fmt.Sprintf("Ticket %s has been resolved", ticket.TicketNumber))
	utils.RespondWithJSON(w, http.StatusOK, ticket)
}

// ReplaceTicketAsset closes a ticket with the replacement policy.
func ReplaceTicketAsset(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to resolve tickets")
		return
	}

	var req struct {
		ReplacementAssetID string `json:"replacementAssetId"`
		Notes              string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.ResolveReplace(ctx, requestEnv(r), actor, mux.Vars(r)["id"], req.ReplacementAssetID, req.Notes)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	notifyReporter(ticket, fmt.Sprintf("Ticket %s resolved with a replacement device", ticket.TicketNumber))
	utils.RespondWithJSON(w, http.StatusOK, ticket)
}

// notifyReporter emails the ticket reporter, best-effort.
func notifyReporter(ticket models.IncidentReport, subject string) {
	if ticket.ReporterEmail == "" {
		return
	}
	link := fmt.Sprintf("%s/track/%s", config.PublicBaseURL, ticket.TicketNumber)
	body := fmt.Sprintf("Hello %s,\n\nthe status of your report %s (%s) changed to %s.",
		ticket.ReportedBy, ticket.TicketNumber, ticket.AssetName, ticket.Status)
	mail.Send(subject, body, link, ticket.ReporterEmail, false)
}
