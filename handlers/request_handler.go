// handlers/request_handler.go
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

func ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requests, err := engine.ListRequests(ctx, requestEnv(r), r.URL.Query().Get("status"))
	if err != nil {
		log.Printf("list requests failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch requests")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, requests)
}

func GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := engine.GetRequest(ctx, requestEnv(r), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "request not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

type requestPayload struct {
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail,omitempty"`
	Department     string `json:"department,omitempty"`
	Category       string `json:"category"`
	Urgency        string `json:"urgency,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

func (p requestPayload) input() workflow.RequestInput {
	return workflow.RequestInput{
		RequesterName:  p.RequesterName,
		RequesterEmail: p.RequesterEmail,
		Department:     p.Department,
		Category:       p.Category,
		Urgency:        p.Urgency,
		Reason:         p.Reason,
	}
}

func CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create requests")
		return
	}

	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := engine.CreateRequest(ctx, requestEnv(r), payload.input())
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, req)
}

// UpdateRequestStatus performs a guarded transition; Deployed only happens
// through FulfillRequest.
func UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to update requests")
		return
	}

	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := engine.UpdateRequestStatus(ctx, requestEnv(r), mux.Vars(r)["id"], body.Status, body.Notes)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	notifyRequester(req, fmt.Sprintf("Request %s is now %s", req.RequestNumber, req.Status))
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// FulfillRequest deploys a chosen storage asset to the employee in one
// batch.
func FulfillRequest(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to fulfill requests")
		return
	}

	var body struct {
		AssetID      string `json:"assetId"`
		EmployeeName string `json:"employeeName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := engine.Fulfill(ctx, requestEnv(r), actor, mux.Vars(r)["id"], body.AssetID, body.EmployeeName)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	notifyRequester(req, fmt.Sprintf("Request %s has been fulfilled", req.RequestNumber))
	utils.RespondWithJSON(w, http.StatusOK, req)
}

func notifyRequester(req models.AssetRequest, subject string) {
	if req.RequesterEmail == "" {
		return
	}
	link := fmt.Sprintf("%s/track/%s", config.PublicBaseURL, req.RequestNumber)
	body := fmt.Sprintf("Hello %s,\n\nyour request %s (%s) changed to %s.",
		req.RequesterName, req.RequestNumber, req.Category, req.Status)
	mail.Send(subject, body, link, req.RequesterEmail, false)
}
