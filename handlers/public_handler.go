// handlers/public_handler.go
//
// Unauthenticated surfaces: intake forms, the reference-number tracker and
// the signing link. They resolve the namespace from an explicit env query
// parameter instead of a session.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/config"
	"assetdesk/tracking"
	"assetdesk/utils"
	"assetdesk/workflow"
)

// PublicCreateTicket accepts an incident report from anyone and notifies
// the IT inbox.
func PublicCreateTicket(w http.ResponseWriter, r *http.Request) {
	var payload ticketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ticket, err := engine.CreateTicket(ctx, publicEnv(r), payload.input())
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	mail.Send(
		fmt.Sprintf("New incident %s: %s", ticket.TicketNumber, ticket.AssetName),
		fmt.Sprintf("%s reported: %s\nPriority: %s\nLocation: %s",
			ticket.ReportedBy, ticket.Description, ticket.Priority, ticket.Location),
		fmt.Sprintf("%s/tickets/%s", config.PublicBaseURL, ticket.ID), "", false)

	// the reference code is all the reporter needs to track progress
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"ticketNumber": ticket.TicketNumber,
		"status":       ticket.Status,
	})
}

// PublicCreateRequest accepts an asset request from anyone.
func PublicCreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := engine.CreateRequest(ctx, publicEnv(r), payload.input())
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	mail.Send(
		fmt.Sprintf("New asset request %s: %s", req.RequestNumber, req.Category),
		fmt.Sprintf("%s (%s) requested %s.\nUrgency: %s\nReason: %s",
			req.RequesterName, req.Department, req.Category, req.Urgency, req.Reason),
		fmt.Sprintf("%s/requests/%s", config.PublicBaseURL, req.ID), "", false)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"requestNumber": req.RequestNumber,
		"status":        req.Status,
	})
}

// TrackReference looks a reference code up across tickets and requests. An
// unknown code is a normal nothing-found response, not an error.
func TrackReference(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := tracking.Lookup(ctx, dataStore, publicEnv(r), mux.Vars(r)["reference"])
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if result == nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"found": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"found": true, "result": result})
}

// PublicGetHandover shows the signing page what was agreed, from the
// snapshot taken at creation time.
func PublicGetHandover(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pending, err := engine.GetPending(ctx, publicEnv(r), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "handover link is invalid or was revoked")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":           pending.ID,
		"type":         pending.Type,
		"employeeName": pending.EmployeeName,
		"targetName":   pending.TargetName,
		"assets":       pending.AssetsSnapshot,
		"status":       pending.Status,
	})
}

// PublicSignHandover is the employee's signature on the public link. The
// signer is never privileged here, so inventory is left to IT; the
// signature itself is always captured.
func PublicSignHandover(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SignatureBase64 string `json:"signatureBase64"`
		SignerName      string `json:"signerName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	signer := workflow.Signer{Name: body.SignerName, Privileged: false}
	outcome, err := engine.CompleteHandover(ctx, publicEnv(r), signer, mux.Vars(r)["id"], body.SignatureBase64)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	mail.Send(
		fmt.Sprintf("Signature received: %s for %s", outcome.Document.Type, outcome.Document.EmployeeName),
		fmt.Sprintf("The %s document %s was signed and awaits IT processing.", outcome.Document.Type, outcome.Document.ID),
		"", "", true)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documentId": outcome.Document.ID,
		"status":     outcome.Document.Status,
	})
}
