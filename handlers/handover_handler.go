// handlers/handover_handler.go
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
	"assetdesk/utils"
	"assetdesk/workflow"
)

func ListPendingHandovers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pending, err := engine.ListPending(ctx, requestEnv(r))
	if err != nil {
		log.Printf("list pending handovers failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch pending handovers")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pending)
}

func ListHandoverDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	docs, err := engine.ListDocuments(ctx, requestEnv(r))
	if err != nil {
		log.Printf("list handover documents failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch handover documents")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, docs)
}

// CreatePendingHandover records the intent and mails the signing link to
// the IT inbox for forwarding.
func CreatePendingHandover(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to create handovers")
		return
	}

	var body struct {
		Type         string   `json:"type"`
		EmployeeName string   `json:"employeeName"`
		AssetIDs     []string `json:"assetIds"`
		TargetName   string   `json:"targetName,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	pending, err := engine.CreatePendingHandover(ctx, env, actor, body.Type, body.EmployeeName, body.AssetIDs, body.TargetName)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	link := fmt.Sprintf("%s/sign/%s?env=%s", config.PublicBaseURL, pending.ID, env)
	mail.Send(
		fmt.Sprintf("%s ready for signature: %s", pending.Type, pending.EmployeeName),
		fmt.Sprintf("A %s for %s with %d asset(s) is awaiting a signature.", pending.Type, pending.EmployeeName, len(pending.AssetIDs)),
		link, "", false)

	utils.RespondWithJSON(w, http.StatusCreated, pending)
}

// CompleteHandover is the staff-side signature submission; signer privilege
// follows the caller's role.
func CompleteHandover(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)

	var body struct {
		SignatureBase64 string `json:"signatureBase64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	signer := workflow.Signer{Name: actor.DisplayNameOrEmail(), Privileged: actor.CanManageInventory()}
	outcome, err := engine.CompleteHandover(ctx, requestEnv(r), signer, mux.Vars(r)["id"], body.SignatureBase64)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}

	response := map[string]interface{}{
		"document":         outcome.Document,
		"inventoryApplied": outcome.InventoryApplied,
	}
	if outcome.InventoryErr != nil {
		log.Printf("handover %s: inventory update rejected: %v", outcome.Document.ID, outcome.InventoryErr)
		response["warning"] = "signature captured, inventory update pending manual reconciliation"
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// CompleteReturn is the IT co-signature step that actually books assets
// back into storage.
func CompleteReturn(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to complete returns")
		return
	}

	var body struct {
		ITSignatureBase64 string `json:"itSignatureBase64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	document, err := engine.CompleteReturn(ctx, requestEnv(r), actor, mux.Vars(r)["id"], body.ITSignatureBase64)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, document)
}

// RevokePendingHandover deletes an unsigned intent. No inventory effect.
func RevokePendingHandover(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to revoke handovers")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := engine.RevokePending(ctx, requestEnv(r), mux.Vars(r)["id"]); err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to revoke handover")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "handover revoked"})
}
