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
	"assetdesk/utils"
)

// RequestInput is the intake payload, shared by the public form and staff.
type RequestInput struct {
	RequesterName  string
	RequesterEmail string
	Department     string
	Category       string
	Urgency        string
	Reason         string
}

// CreateRequest opens a new asset request in status New.
func (e *Engine) CreateRequest(ctx context.Context, env store.Environment, in RequestInput) (models.AssetRequest, error) {
	if in.RequesterName == "" || in.Category == "" {
		return models.AssetRequest{}, apperr.Validation("requester name and requested item are required")
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}

	now := time.Now().UTC()
	req := models.AssetRequest{
		ID:             uuid.NewString(),
		RequestNumber:  utils.NewRequestNumber(now),
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		Department:     in.Department,
		Category:       in.Category,
		Urgency:        urgency,
		Reason:         in.Reason,
		Status:         models.RequestNew,
		CreatedAt:      now,
	}

	doc, err := store.Encode(req)
	if err != nil {
		return models.AssetRequest{}, err
	}
	if err := e.store.Set(ctx, env, models.ColRequests, req.ID, doc); err != nil {
		return models.AssetRequest{}, err
	}
	return req, nil
}

// UpdateRequestStatus performs a guarded direct status change. Deployed is
// not reachable here; use Fulfill.
func (e *Engine) UpdateRequestStatus(ctx context.Context, env store.Environment, id, newStatus, notes string) (models.AssetRequest, error) {
	req, err := e.getRequest(ctx, env, id)
	if err != nil {
		return models.AssetRequest{}, err
	}
	if !CanTransitionRequest(req.Status, newStatus) {
		return models.AssetRequest{}, apperr.Validation("cannot move request %s from %q to %q", req.RequestNumber, req.Status, newStatus)
	}

	fields := store.Doc{"status": newStatus}
	if notes != "" {
		fields["resolutionNotes"] = notes
		req.ResolutionNotes = notes
	}
	if newStatus == models.RequestRejected {
		now := time.Now().UTC()
		fields["resolvedAt"] = now
		req.ResolvedAt = &now
	}
	if err := e.store.Update(ctx, env, models.ColRequests, id, fields); err != nil {
		return models.AssetRequest{}, err
	}
	req.Status = newStatus
	return req, nil
}

// Fulfill deploys a specific asset against the request: one batch sets the
// request Deployed with the linked asset, flips the asset to Active assigned
// to the employee, and appends the Assigned log row. The chosen asset is
// expected to be In Storage; availability is not re-checked at commit time,
// so two concurrent fulfillments can race for the same asset.
func (e *Engine) Fulfill(ctx context.Context, env store.Environment, actor models.Actor, id, assetID, employeeName string) (models.AssetRequest, error) {
	if assetID == "" || employeeName == "" {
		return models.AssetRequest{}, apperr.Validation("asset and employee are required to fulfill a request")
	}

	req, err := e.getRequest(ctx, env, id)
	if err != nil {
		return models.AssetRequest{}, err
	}
	if RequestIsTerminal(req.Status) {
		return models.AssetRequest{}, apperr.Validation("request %s is already %s", req.RequestNumber, req.Status)
	}
	asset, err := e.getAsset(ctx, env, assetID)
	if err != nil {
		return models.AssetRequest{}, err
	}

	now := time.Now().UTC()
	notes := fmt.Sprintf("Deployed asset %s (%s) to %s", asset.Name, assetID, employeeName)

	batch := e.store.Batch()
	batch.Update(env, models.ColRequests, id, store.Doc{
		"status":          models.RequestDeployed,
		"linkedAssetId":   assetID,
		"resolutionNotes": notes,
		"resolvedAt":      now,
	})
	batch.Update(env, models.ColAssets, assetID, store.Doc{
		"status":           models.AssetActive,
		"assignedEmployee": employeeName,
		"lastUpdated":      now,
	})
	row := registry.NewLog(assetID, models.LogAssigned,
		fmt.Sprintf("Assigned to %s fulfilling request %s", employeeName, req.RequestNumber),
		actor.DisplayNameOrEmail(), "")
	if err := batchSet(batch, env, models.ColAssetLogs, row.ID, row); err != nil {
		return models.AssetRequest{}, err
	}

	if err := batch.Commit(ctx); err != nil {
		return models.AssetRequest{}, err
	}

	req.Status = models.RequestDeployed
	req.LinkedAssetID = assetID
	req.ResolutionNotes = notes
	req.ResolvedAt = &now
	return req, nil
}

// ListRequests returns requests newest first, optionally filtered by status.
func (e *Engine) ListRequests(ctx context.Context, env store.Environment, status string) ([]models.AssetRequest, error) {
	var filter store.Doc
	if status != "" && status != "all" {
		filter = store.Doc{"status": status}
	}
	docs, err := e.store.Query(ctx, env, models.ColRequests, filter, &store.QueryOptions{SortField: "createdAt", SortDesc: true})
	if err != nil {
		return nil, err
	}
	requests := make([]models.AssetRequest, 0, len(docs))
	for _, doc := range docs {
		var r models.AssetRequest
		if err := store.Decode(doc, &r); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, nil
}

// GetRequest loads one request.
func (e *Engine) GetRequest(ctx context.Context, env store.Environment, id string) (models.AssetRequest, error) {
	return e.getRequest(ctx, env, id)
}
