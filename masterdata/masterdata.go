// Package masterdata manages the singleton config document holding the
// category/location/department lists, including the rename cascade that
// rewrites every referencing asset in one batch.
package masterdata

import (
	"context"
	"time"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
)

// Kinds of master-data values.
const (
	KindCategory   = "category"
	KindLocation   = "location"
	KindDepartment = "department"
)

// assetField maps a kind to the asset field it governs.
func assetField(kind string) (string, error) {
	switch kind {
	case KindCategory:
		return "category", nil
	case KindLocation:
		return "location", nil
	case KindDepartment:
		return "department", nil
	}
	return "", apperr.Validation("unknown master data kind %q", kind)
}

// configList returns the config array for a kind and a setter for it.
func configList(cfg *models.AppConfig, kind string) *[]string {
	switch kind {
	case KindCategory:
		return &cfg.Categories
	case KindLocation:
		return &cfg.Locations
	case KindDepartment:
		return &cfg.Departments
	}
	return nil
}

type Service struct {
	store store.Store
}

func New(s store.Store) *Service {
	return &Service{store: s}
}

// Get loads the config document, seeding defaults on first access.
func (s *Service) Get(ctx context.Context, env store.Environment) (models.AppConfig, error) {
	doc, err := s.store.Get(ctx, env, models.ColAppConfig, models.AppConfigID)
	if err == nil {
		var cfg models.AppConfig
		if err := store.Decode(doc, &cfg); err != nil {
			return models.AppConfig{}, err
		}
		return cfg, nil
	}

	cfg := models.DefaultAppConfig()
	seeded, encErr := store.Encode(cfg)
	if encErr != nil {
		return models.AppConfig{}, encErr
	}
	if err := s.store.Set(ctx, env, models.ColAppConfig, models.AppConfigID, seeded); err != nil {
		return models.AppConfig{}, err
	}
	return cfg, nil
}

// AddValue appends a value to one of the lists. Duplicates are rejected.
func (s *Service) AddValue(ctx context.Context, env store.Environment, kind, value string) (models.AppConfig, error) {
	if value == "" {
		return models.AppConfig{}, apperr.Validation("value is required")
	}
	cfg, err := s.Get(ctx, env)
	if err != nil {
		return models.AppConfig{}, err
	}
	list := configList(&cfg, kind)
	if list == nil {
		return models.AppConfig{}, apperr.Validation("unknown master data kind %q", kind)
	}
	for _, v := range *list {
		if v == value {
			return models.AppConfig{}, apperr.Validation("%s %q already exists", kind, value)
		}
	}
	*list = append(*list, value)

	doc, err := store.Encode(cfg)
	if err != nil {
		return models.AppConfig{}, err
	}
	if err := s.store.Set(ctx, env, models.ColAppConfig, models.AppConfigID, doc); err != nil {
		return models.AppConfig{}, err
	}
	return cfg, nil
}

// Rename changes a value and cascades it to every referencing asset plus the
// config document in one atomic batch. Renaming a value to itself is a
// no-op: nothing is written and no asset's lastUpdated moves.
func (s *Service) Rename(ctx context.Context, env store.Environment, kind, oldValue, newValue string) (int, error) {
	if oldValue == "" || newValue == "" {
		return 0, apperr.Validation("old and new values are required")
	}
	if oldValue == newValue {
		return 0, nil
	}
	field, err := assetField(kind)
	if err != nil {
		return 0, err
	}
	cfg, err := s.Get(ctx, env)
	if err != nil {
		return 0, err
	}
	list := configList(&cfg, kind)
	found := false
	for i, v := range *list {
		if v == oldValue {
			(*list)[i] = newValue
			found = true
		}
	}
	if !found {
		return 0, apperr.NotFound("%s %q", kind, oldValue)
	}

	assets, err := s.store.Query(ctx, env, models.ColAssets, store.Doc{field: oldValue}, nil)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	batch := s.store.Batch()
	for _, doc := range assets {
		id, _ := doc["_id"].(string)
		if id == "" {
			continue
		}
		batch.Update(env, models.ColAssets, id, store.Doc{field: newValue, "lastUpdated": now})
	}
	cfgDoc, err := store.Encode(cfg)
	if err != nil {
		return 0, err
	}
	batch.Set(env, models.ColAppConfig, models.AppConfigID, cfgDoc)

	if err := batch.Commit(ctx); err != nil {
		return 0, err
	}
	return len(assets), nil
}

// CountReferences reports how many assets use a value. It is an advisory
// read: DeleteValue is a separate call, so a concurrent asset edit between
// the two can slip through. Kept as best-effort on purpose.
func (s *Service) CountReferences(ctx context.Context, env store.Environment, kind, value string) (int, error) {
	field, err := assetField(kind)
	if err != nil {
		return 0, err
	}
	assets, err := s.store.Query(ctx, env, models.ColAssets, store.Doc{field: value}, nil)
	if err != nil {
		return 0, err
	}
	return len(assets), nil
}

// DeleteValue removes a value from its list. Callers run CountReferences
// first; this function does not re-check.
func (s *Service) DeleteValue(ctx context.Context, env store.Environment, kind, value string) (models.AppConfig, error) {
	cfg, err := s.Get(ctx, env)
	if err != nil {
		return models.AppConfig{}, err
	}
	list := configList(&cfg, kind)
	if list == nil {
		return models.AppConfig{}, apperr.Validation("unknown master data kind %q", kind)
	}
	kept := (*list)[:0]
	found := false
	for _, v := range *list {
		if v == value {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return models.AppConfig{}, apperr.NotFound("%s %q", kind, value)
	}
	*list = kept

	doc, err := store.Encode(cfg)
	if err != nil {
		return models.AppConfig{}, err
	}
	if err := s.store.Set(ctx, env, models.ColAppConfig, models.AppConfigID, doc); err != nil {
		return models.AppConfig{}, err
	}
	return cfg, nil
}
