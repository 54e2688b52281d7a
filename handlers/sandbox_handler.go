// handlers/sandbox_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/utils"
)

// ResetSandbox wipes every sandbox collection. It refuses to touch the live
// namespace no matter what the request says; the environment is hardcoded.
func ResetSandbox(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	role := models.NormalizeRole(actor.Role)
	if role != models.RoleAdmin && role != models.RoleSandboxUser {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to reset the sandbox")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cleared := 0
	for _, col := range models.AllCollections {
		docs, err := dataStore.Query(ctx, store.EnvSandbox, col, store.Doc{}, nil)
		if err != nil {
			log.Printf("sandbox reset: query %s failed: %v", col, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "sandbox reset failed")
			return
		}
		for _, doc := range docs {
			id, _ := doc["_id"].(string)
			if id == "" {
				continue
			}
			if err := dataStore.Delete(ctx, store.EnvSandbox, col, id); err != nil {
				log.Printf("sandbox reset: delete %s/%s failed: %v", col, id, err)
				continue
			}
			cleared++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "sandbox reset",
		"deleted": cleared,
	})
}
