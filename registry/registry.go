// Package registry owns asset CRUD, the append-only per-asset change log,
// and the aggregate stats used by the dashboard.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assetdesk/models"
	"assetdesk/store"
)

type Registry struct {
	store store.Store
}

func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// SaveOutcome distinguishes the guaranteed asset write from the best-effort
// log append, so callers can observe a degraded save instead of losing it to
// a swallowed error.
type SaveOutcome struct {
	Asset   models.Asset
	Created bool
	LogErr  error
}

// NewLog builds an asset log row. The workflow engine embeds these in its
// atomic batches; Save appends them best-effort after the asset write.
func NewLog(assetID, action, details, performedBy, documentID string) models.AssetLog {
	return models.AssetLog{
		ID:          uuid.NewString(),
		AssetID:     assetID,
		Action:      action,
		Details:     details,
		PerformedBy: performedBy,
		Timestamp:   time.Now().UTC(),
		DocumentID:  documentID,
	}
}

// Save upserts an asset, stamping lastUpdated and generating an id when
// absent. The log append failing never fails the save.
func (r *Registry) Save(ctx context.Context, env store.Environment, actor models.Actor, asset models.Asset) (SaveOutcome, error) {
	created := asset.ID == ""
	if created {
		asset.ID = uuid.NewString()
	} else if _, err := r.store.Get(ctx, env, models.ColAssets, asset.ID); err != nil {
		created = true
	}
	asset.LastUpdated = time.Now().UTC()

	doc, err := store.Encode(asset)
	if err != nil {
		return SaveOutcome{}, err
	}
	if err := r.store.Set(ctx, env, models.ColAssets, asset.ID, doc); err != nil {
		return SaveOutcome{}, err
	}

	action := models.LogUpdated
	details := fmt.Sprintf("Asset %q updated", asset.Name)
	if created {
		action = models.LogCreated
		details = fmt.Sprintf("Asset %q created", asset.Name)
	}
	logErr := r.AppendLog(ctx, env, NewLog(asset.ID, action, details, actor.DisplayNameOrEmail(), ""))

	return SaveOutcome{Asset: asset, Created: created, LogErr: logErr}, nil
}

// AppendLog writes one log row. Callers treat failures as best-effort.
func (r *Registry) AppendLog(ctx context.Context, env store.Environment, row models.AssetLog) error {
	doc, err := store.Encode(row)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, env, models.ColAssetLogs, row.ID, doc)
}

// Delete hard-deletes the asset. No log row, no referential cleanup: logs
// and tickets referencing the id keep their now-dangling weak reference.
func (r *Registry) Delete(ctx context.Context, env store.Environment, id string) error {
	return r.store.Delete(ctx, env, models.ColAssets, id)
}

// ImportBulk upserts every asset in one atomic batch. Bulk import bypasses
// the change log, unlike Save.
func (r *Registry) ImportBulk(ctx context.Context, env store.Environment, assets []models.Asset) ([]models.Asset, error) {
	now := time.Now().UTC()
	batch := r.store.Batch()
	for i := range assets {
		if assets[i].ID == "" {
			assets[i].ID = uuid.NewString()
		}
		assets[i].LastUpdated = now
		doc, err := store.Encode(assets[i])
		if err != nil {
			return nil, err
		}
		batch.Set(env, models.ColAssets, assets[i].ID, doc)
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *Registry) Get(ctx context.Context, env store.Environment, id string) (models.Asset, error) {
	doc, err := r.store.Get(ctx, env, models.ColAssets, id)
	if err != nil {
		return models.Asset{}, err
	}
	var asset models.Asset
	if err := store.Decode(doc, &asset); err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

func (r *Registry) List(ctx context.Context, env store.Environment) ([]models.Asset, error) {
	docs, err := r.store.Query(ctx, env, models.ColAssets, nil, &store.QueryOptions{SortField: "lastUpdated", SortDesc: true})
	if err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0, len(docs))
	for _, doc := range docs {
		var a models.Asset
		if err := store.Decode(doc, &a); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// Logs lists the change log for one asset, newest first.
func (r *Registry) Logs(ctx context.Context, env store.Environment, assetID string) ([]models.AssetLog, error) {
	docs, err := r.store.Query(ctx, env, models.ColAssetLogs, store.Doc{"assetId": assetID}, &store.QueryOptions{SortField: "timestamp", SortDesc: true})
	if err != nil {
		return nil, err
	}
	logs := make([]models.AssetLog, 0, len(docs))
	for _, doc := range docs {
		var row models.AssetLog
		if err := store.Decode(doc, &row); err != nil {
			return nil, err
		}
		logs = append(logs, row)
	}
	return logs, nil
}
