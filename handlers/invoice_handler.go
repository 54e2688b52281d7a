// handlers/invoice_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/utils"
)

func ListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	docs, err := dataStore.Query(ctx, requestEnv(r), models.ColInvoices, store.Doc{},
		&store.QueryOptions{SortField: "createdAt", SortDesc: true})
	if err != nil {
		log.Printf("list invoices failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch invoices")
		return
	}

	invoices := []models.Invoice{}
	for _, doc := range docs {
		var inv models.Invoice
		if err := store.Decode(doc, &inv); err != nil {
			continue
		}
		invoices = append(invoices, inv)
	}
	utils.RespondWithJSON(w, http.StatusOK, invoices)
}

func GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doc, err := dataStore.Get(ctx, requestEnv(r), models.ColInvoices, mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "invoice not found")
		return
	}
	var inv models.Invoice
	if err := store.Decode(doc, &inv); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to read invoice")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inv)
}

// SaveInvoice creates or updates. linkedAssetIds are weak references; they
// are not checked against the registry and may point at deleted assets.
func SaveInvoice(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage invoices")
		return
	}

	var inv models.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if inv.ID == "" {
		inv.ID = mux.Vars(r)["id"]
	}
	if inv.Vendor == "" || inv.InvoiceNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vendor and invoice number are required")
		return
	}

	created := inv.ID == ""
	if created {
		inv.ID = uuid.New().String()
		inv.CreatedAt = time.Now().UTC()
	}
	if inv.LinkedAssetIDs == nil {
		inv.LinkedAssetIDs = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doc, err := store.Encode(inv)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save invoice")
		return
	}
	if err := dataStore.Set(ctx, requestEnv(r), models.ColInvoices, inv.ID, doc); err != nil {
		log.Printf("save invoice failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save invoice")
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	utils.RespondWithJSON(w, code, inv)
}

func DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage invoices")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := dataStore.Delete(ctx, requestEnv(r), models.ColInvoices, mux.Vars(r)["id"]); err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to delete invoice")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "invoice deleted"})
}
