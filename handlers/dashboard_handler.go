// handlers/dashboard_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"assetdesk/models"
	"assetdesk/registry"
	"assetdesk/store"
	"assetdesk/utils"
)

// GetDashboard recomputes everything from the current data on each call.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	list, err := assets.List(ctx, env)
	if err != nil {
		log.Printf("dashboard: list assets failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}

	openTickets, err := countOpen(ctx, env, models.ColTickets,
		[]string{models.TicketResolved, models.TicketRejected})
	if err != nil {
		log.Printf("dashboard: count tickets failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}
	openRequests, err := countOpen(ctx, env, models.ColRequests,
		[]string{models.RequestDeployed, models.RequestRejected})
	if err != nil {
		log.Printf("dashboard: count requests failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stats":        registry.ComputeStats(list),
		"openTickets":  openTickets,
		"openRequests": openRequests,
	})
}

// countOpen counts documents whose status is not one of the terminal ones.
// The store filter is equality-only, so the exclusion happens here.
func countOpen(ctx context.Context, env store.Environment, collection string, terminal []string) (int, error) {
	docs, err := dataStore.Query(ctx, env, collection, store.Doc{}, nil)
	if err != nil {
		return 0, err
	}
	open := 0
	for _, doc := range docs {
		status, _ := doc["status"].(string)
		closed := false
		for _, t := range terminal {
			if status == t {
				closed = true
				break
			}
		}
		if !closed {
			open++
		}
	}
	return open, nil
}
