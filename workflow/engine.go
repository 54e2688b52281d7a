package workflow

import (
	"context"

	"assetdesk/models"
	"assetdesk/store"
)

type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

func (e *Engine) getTicket(ctx context.Context, env store.Environment, id string) (models.IncidentReport, error) {
	doc, err := e.store.Get(ctx, env, models.ColTickets, id)
	if err != nil {
		return models.IncidentReport{}, err
	}
	var t models.IncidentReport
	if err := store.Decode(doc, &t); err != nil {
		return models.IncidentReport{}, err
	}
	return t, nil
}

func (e *Engine) getRequest(ctx context.Context, env store.Environment, id string) (models.AssetRequest, error) {
	doc, err := e.store.Get(ctx, env, models.ColRequests, id)
	if err != nil {
		return models.AssetRequest{}, err
	}
	var r models.AssetRequest
	if err := store.Decode(doc, &r); err != nil {
		return models.AssetRequest{}, err
	}
	return r, nil
}

func (e *Engine) getAsset(ctx context.Context, env store.Environment, id string) (models.Asset, error) {
	doc, err := e.store.Get(ctx, env, models.ColAssets, id)
	if err != nil {
		return models.Asset{}, err
	}
	var a models.Asset
	if err := store.Decode(doc, &a); err != nil {
		return models.Asset{}, err
	}
	return a, nil
}

func (e *Engine) getPending(ctx context.Context, env store.Environment, id string) (models.PendingHandover, error) {
	doc, err := e.store.Get(ctx, env, models.ColPendingHandovers, id)
	if err != nil {
		return models.PendingHandover{}, err
	}
	var p models.PendingHandover
	if err := store.Decode(doc, &p); err != nil {
		return models.PendingHandover{}, err
	}
	return p, nil
}

func (e *Engine) getDocument(ctx context.Context, env store.Environment, id string) (models.HandoverDocument, error) {
	doc, err := e.store.Get(ctx, env, models.ColHandoverDocuments, id)
	if err != nil {
		return models.HandoverDocument{}, err
	}
	var d models.HandoverDocument
	if err := store.Decode(doc, &d); err != nil {
		return models.HandoverDocument{}, err
	}
	return d, nil
}

// batchSet encodes a record into a batch set op.
func batchSet(b store.Batch, env store.Environment, collection, id string, v interface{}) error {
	doc, err := store.Encode(v)
	if err != nil {
		return err
	}
	b.Set(env, collection, id, doc)
	return nil
}
