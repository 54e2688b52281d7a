package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/registry"
	"assetdesk/store"
)

// Signer identifies whoever submits a signature: a staff member (privileged
// when their role may manage inventory) or an employee on the public link
// (never privileged).
type Signer struct {
	Name       string
	Privileged bool
}

// CompleteOutcome reports both halves of a signature completion separately.
// The document save and the pending-record flip are the primary effect; the
// inventory mutation is conditional and may legitimately not happen.
type CompleteOutcome struct {
	Document         models.HandoverDocument
	InventoryApplied bool
	InventoryErr     error
}

// CreatePendingHandover records the staff intent, snapshotting the target
// assets so the signing page shows what was agreed even if an asset is
// edited before the signature arrives.
func (e *Engine) CreatePendingHandover(ctx context.Context, env store.Environment, actor models.Actor, typ, employeeName string, assetIDs []string, targetName string) (models.PendingHandover, error) {
	switch typ {
	case models.HandoverTypeHandover, models.HandoverTypeReturn, models.HandoverTypeTransfer:
	default:
		return models.PendingHandover{}, apperr.Validation("unknown handover type %q", typ)
	}
	if employeeName == "" {
		return models.PendingHandover{}, apperr.Validation("employee name is required")
	}
	if len(assetIDs) == 0 {
		return models.PendingHandover{}, apperr.Validation("at least one asset is required")
	}
	if typ == models.HandoverTypeTransfer && targetName == "" {
		return models.PendingHandover{}, apperr.Validation("transfer target is required")
	}
	if typ != models.HandoverTypeTransfer {
		targetName = ""
	}

	snapshots := make([]models.AssetSnapshot, 0, len(assetIDs))
	for _, id := range assetIDs {
		asset, err := e.getAsset(ctx, env, id)
		if err != nil {
			return models.PendingHandover{}, err
		}
		snapshots = append(snapshots, asset.Snapshot())
	}

	pending := models.PendingHandover{
		ID:             uuid.NewString(),
		EmployeeName:   employeeName,
		AssetIDs:       assetIDs,
		AssetsSnapshot: snapshots,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      actor.DisplayNameOrEmail(),
		Status:         models.HandoverPending,
		Type:           typ,
		TargetName:     targetName,
	}

	doc, err := store.Encode(pending)
	if err != nil {
		return models.PendingHandover{}, err
	}
	if err := e.store.Set(ctx, env, models.ColPendingHandovers, pending.ID, doc); err != nil {
		return models.PendingHandover{}, err
	}
	return pending, nil
}

// CompleteHandover consumes a pending record with a signature.
//
// A privileged signer on a Handover or Transfer gets the inventory mutation
// in the same batch as the document. A Return, or an unprivileged signer,
// produces a Pending document and leaves inventory alone. If the inventory
// batch is rejected, the signature is still captured: the document is saved
// Pending and the pending record is consumed, with the rejection reported in
// the outcome for manual reconciliation. The signature is never lost.
func (e *Engine) CompleteHandover(ctx context.Context, env store.Environment, signer Signer, pendingID, signatureBase64 string) (CompleteOutcome, error) {
	if signatureBase64 == "" {
		return CompleteOutcome{}, apperr.Validation("signature is required")
	}

	pending, err := e.getPending(ctx, env, pendingID)
	if err != nil {
		return CompleteOutcome{}, err
	}
	if pending.Status != models.HandoverPending {
		return CompleteOutcome{}, apperr.NotFound("handover %s already completed", pendingID)
	}

	now := time.Now().UTC()
	document := models.HandoverDocument{
		ID:              uuid.NewString(),
		EmployeeName:    pending.EmployeeName,
		Assets:          pending.AssetsSnapshot,
		SignatureBase64: signatureBase64,
		Date:            now,
		Type:            pending.Type,
		Status:          models.HandoverPending,
		TargetName:      pending.TargetName,
	}

	applyInventory := signer.Privileged && pending.Type != models.HandoverTypeReturn
	if applyInventory {
		document.Status = models.HandoverCompleted
		batch := e.store.Batch()
		if err := batchSet(batch, env, models.ColHandoverDocuments, document.ID, document); err != nil {
			return CompleteOutcome{}, err
		}
		batch.Update(env, models.ColPendingHandovers, pendingID, store.Doc{"status": models.HandoverCompleted})
		if err := e.addInventoryOps(batch, env, signer, pending, document, now); err != nil {
			return CompleteOutcome{}, err
		}

		commitErr := batch.Commit(ctx)
		if commitErr == nil {
			return CompleteOutcome{Document: document, InventoryApplied: true}, nil
		}

		// Fallback: keep the signature even though inventory was rejected.
		// IT revisits the Pending document later.
		document.Status = models.HandoverPending
		if saveErr := e.saveDocumentOnly(ctx, env, pendingID, document); saveErr != nil {
			return CompleteOutcome{}, saveErr
		}
		return CompleteOutcome{Document: document, InventoryErr: commitErr}, nil
	}

	if err := e.saveDocumentOnly(ctx, env, pendingID, document); err != nil {
		return CompleteOutcome{}, err
	}
	return CompleteOutcome{Document: document}, nil
}

// saveDocumentOnly commits the document plus the pending flip, nothing else.
func (e *Engine) saveDocumentOnly(ctx context.Context, env store.Environment, pendingID string, document models.HandoverDocument) error {
	batch := e.store.Batch()
	if err := batchSet(batch, env, models.ColHandoverDocuments, document.ID, document); err != nil {
		return err
	}
	batch.Update(env, models.ColPendingHandovers, pendingID, store.Doc{"status": models.HandoverCompleted})
	return batch.Commit(ctx)
}

// addInventoryOps appends the asset mutations and log rows for a privileged
// Handover or Transfer completion.
func (e *Engine) addInventoryOps(batch store.Batch, env store.Environment, signer Signer, pending models.PendingHandover, document models.HandoverDocument, now time.Time) error {
	for _, assetID := range pending.AssetIDs {
		var fields store.Doc
		var row models.AssetLog
		switch pending.Type {
		case models.HandoverTypeHandover:
			fields = store.Doc{
				"assignedEmployee": pending.EmployeeName,
				"status":           models.AssetActive,
				"lastUpdated":      now,
			}
			row = registry.NewLog(assetID, models.LogAssigned,
				fmt.Sprintf("Handed over to %s", pending.EmployeeName),
				signer.Name, document.ID)
		case models.HandoverTypeTransfer:
			// Transfer reassigns ownership only; status is untouched.
			fields = store.Doc{
				"assignedEmployee": pending.TargetName,
				"lastUpdated":      now,
			}
			row = registry.NewLog(assetID, models.LogTransferred,
				fmt.Sprintf("Transferred from %s to %s", pending.EmployeeName, pending.TargetName),
				signer.Name, document.ID)
		}
		batch.Update(env, models.ColAssets, assetID, fields)
		if err := batchSet(batch, env, models.ColAssetLogs, row.ID, row); err != nil {
			return err
		}
	}
	return nil
}

// CompleteReturn is the second, IT-signed step of a Return: it appends the
// co-signature, marks the document Completed and performs the inventory
// return in one batch. Assets deleted since the snapshot was taken are
// skipped rather than failing the return.
func (e *Engine) CompleteReturn(ctx context.Context, env store.Environment, actor models.Actor, documentID, itSignatureBase64 string) (models.HandoverDocument, error) {
	if itSignatureBase64 == "" {
		return models.HandoverDocument{}, apperr.Validation("IT signature is required")
	}

	document, err := e.getDocument(ctx, env, documentID)
	if err != nil {
		return models.HandoverDocument{}, err
	}
	if document.Type != models.HandoverTypeReturn {
		return models.HandoverDocument{}, apperr.Validation("document %s is not a return", documentID)
	}
	if document.Status == models.HandoverCompleted {
		return models.HandoverDocument{}, apperr.Validation("return %s is already completed", documentID)
	}

	now := time.Now().UTC()
	batch := e.store.Batch()
	batch.Update(env, models.ColHandoverDocuments, documentID, store.Doc{
		"itSignatureBase64": itSignatureBase64,
		"status":            models.HandoverCompleted,
	})
	for _, snap := range document.Assets {
		if _, err := e.getAsset(ctx, env, snap.ID); err != nil {
			continue
		}
		batch.Update(env, models.ColAssets, snap.ID, store.Doc{
			"assignedEmployee": "",
			"status":           models.AssetInStorage,
			"lastUpdated":      now,
		})
		row := registry.NewLog(snap.ID, models.LogReturned,
			fmt.Sprintf("Returned by %s to storage", document.EmployeeName),
			actor.DisplayNameOrEmail(), documentID)
		if err := batchSet(batch, env, models.ColAssetLogs, row.ID, row); err != nil {
			return models.HandoverDocument{}, err
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return models.HandoverDocument{}, err
	}

	document.ITSignatureBase64 = itSignatureBase64
	document.Status = models.HandoverCompleted
	return document, nil
}

// RevokePending removes an unsigned pending record. No inventory effect.
func (e *Engine) RevokePending(ctx context.Context, env store.Environment, id string) error {
	return e.store.Delete(ctx, env, models.ColPendingHandovers, id)
}

// GetPending loads one pending handover (the public signing page view).
func (e *Engine) GetPending(ctx context.Context, env store.Environment, id string) (models.PendingHandover, error) {
	return e.getPending(ctx, env, id)
}

// ListPending returns pending handovers newest first.
func (e *Engine) ListPending(ctx context.Context, env store.Environment) ([]models.PendingHandover, error) {
	docs, err := e.store.Query(ctx, env, models.ColPendingHandovers, nil, &store.QueryOptions{SortField: "createdAt", SortDesc: true})
	if err != nil {
		return nil, err
	}
	out := make([]models.PendingHandover, 0, len(docs))
	for _, doc := range docs {
		var p models.PendingHandover
		if err := store.Decode(doc, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ListDocuments returns handover documents newest first.
func (e *Engine) ListDocuments(ctx context.Context, env store.Environment) ([]models.HandoverDocument, error) {
	docs, err := e.store.Query(ctx, env, models.ColHandoverDocuments, nil, &store.QueryOptions{SortField: "date", SortDesc: true})
	if err != nil {
		return nil, err
	}
	out := make([]models.HandoverDocument, 0, len(docs))
	for _, doc := range docs {
		var d models.HandoverDocument
		if err := store.Decode(doc, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
