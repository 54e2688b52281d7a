// handlers/asset_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/utils"
)

func ListAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := assets.List(ctx, requestEnv(r))
	if err != nil {
		log.Printf("list assets failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch assets")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	asset, err := assets.Get(ctx, requestEnv(r), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "asset not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// SaveAsset handles both create (no id) and update (id present). The log
// append is best-effort; a degraded save still returns 200 with a warning
// field so the caller can see it.
func SaveAsset(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to edit assets")
		return
	}

	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if asset.ID == "" {
		asset.ID = mux.Vars(r)["id"]
	}
	if asset.Name == "" || asset.Category == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	if asset.Status == "" {
		asset.Status = models.AssetInStorage
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outcome, err := assets.Save(ctx, requestEnv(r), actor, asset)
	if err != nil {
		log.Printf("save asset failed: %v", err)
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to save asset")
		return
	}

	response := map[string]interface{}{"asset": outcome.Asset, "created": outcome.Created}
	if outcome.LogErr != nil {
		log.Printf("save asset: log append failed: %v", outcome.LogErr)
		response["warning"] = "change log entry could not be written"
	}
	code := http.StatusOK
	if outcome.Created {
		code = http.StatusCreated
	}
	utils.RespondWithJSON(w, code, response)
}

func DeleteAsset(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !isAdmin(actor) && models.NormalizeRole(actor.Role) != models.RoleSandboxUser {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to delete assets")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := assets.Delete(ctx, requestEnv(r), mux.Vars(r)["id"]); err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to delete asset")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

// ImportAssets bulk-upserts in one batch. Rows skip the change log; that
// asymmetry with SaveAsset is intended.
func ImportAssets(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to import assets")
		return
	}

	var rows []models.Asset
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(rows) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no assets to import")
		return
	}
	for i := range rows {
		if rows[i].Status == "" {
			rows[i].Status = models.AssetInStorage
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	imported, err := assets.ImportBulk(ctx, requestEnv(r), rows)
	if err != nil {
		log.Printf("import assets failed: %v", err)
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to import assets")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"imported": len(imported), "assets": imported})
}

// GetAssetLogs lists the change log for one asset. Rows may reference an
// asset that has since been deleted; that is fine here because the id comes
// from the URL, not a join.
func GetAssetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logs, err := assets.Logs(ctx, requestEnv(r), mux.Vars(r)["id"])
	if err != nil {
		log.Printf("list asset logs failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch asset logs")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, logs)
}
