// handlers/config_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"assetdesk/apperr"
	"assetdesk/utils"
)

func GetAppConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cfg, err := master.Get(ctx, requestEnv(r))
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to load config")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

type masterDataRequest struct {
	Kind     string `json:"kind"` // category, location, department
	Value    string `json:"value"`
	NewValue string `json:"newValue,omitempty"`
}

func AddMasterDataValue(w http.ResponseWriter, r *http.Request) {
	if !canEditInventory(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req masterDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cfg, err := master.AddValue(ctx, requestEnv(r), req.Kind, req.Value)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

// RenameMasterDataValue cascades to every referencing asset and the config
// document in one batch.
func RenameMasterDataValue(w http.ResponseWriter, r *http.Request) {
	if !canEditInventory(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req masterDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	touched, err := master.Rename(ctx, requestEnv(r), req.Kind, req.Value, req.NewValue)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       fmt.Sprintf("renamed %q to %q", req.Value, req.NewValue),
		"assetsUpdated": touched,
	})
}

// DeleteMasterDataValue runs the advisory reference precheck first. The
// check and the delete are two separate calls, so a concurrent asset edit
// can slip between them; callers accepted that.
func DeleteMasterDataValue(w http.ResponseWriter, r *http.Request) {
	if !canEditInventory(requestActor(r)) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var req masterDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	refs, err := master.CountReferences(ctx, env, req.Kind, req.Value)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	if refs > 0 {
		utils.RespondWithError(w, http.StatusConflict,
			fmt.Sprintf("%d assets still reference %q", refs, req.Value))
		return
	}

	cfg, err := master.DeleteValue(ctx, env, req.Kind, req.Value)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}
