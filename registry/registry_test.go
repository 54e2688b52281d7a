package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
)

var testActor = models.Actor{UID: "u1", Name: "Admin", Email: "admin@corp.test", Role: models.RoleAdmin}

func TestSaveCreateAndUpdate(t *testing.T) {
	reg := New(store.NewMemory())
	ctx := context.Background()

	outcome, err := reg.Save(ctx, store.EnvLive, testActor, models.Asset{Name: "Laptop 5", Category: "Laptop", Status: models.AssetInStorage})
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.NoError(t, outcome.LogErr)
	assert.NotEmpty(t, outcome.Asset.ID)
	assert.False(t, outcome.Asset.LastUpdated.IsZero())

	// round-trip
	got, err := reg.Get(ctx, store.EnvLive, outcome.Asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop 5", got.Name)
	assert.Equal(t, models.AssetInStorage, got.Status)

	// update keeps the id and is logged as Updated
	got.Status = models.AssetActive
	second, err := reg.Save(ctx, store.EnvLive, testActor, got)
	require.NoError(t, err)
	assert.False(t, second.Created)

	logs, err := reg.Logs(ctx, store.EnvLive, outcome.Asset.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	actions := []string{logs[0].Action, logs[1].Action}
	assert.ElementsMatch(t, []string{models.LogCreated, models.LogUpdated}, actions)
	assert.Equal(t, "Admin", logs[0].PerformedBy)
}

func TestSaveWithClientIDCreates(t *testing.T) {
	reg := New(store.NewMemory())
	ctx := context.Background()

	outcome, err := reg.Save(ctx, store.EnvLive, testActor, models.Asset{ID: "client-chosen", Name: "Dock", Category: "Accessory"})
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.Equal(t, "client-chosen", outcome.Asset.ID)
}

func TestDeleteKeepsLogs(t *testing.T) {
	reg := New(store.NewMemory())
	ctx := context.Background()

	outcome, err := reg.Save(ctx, store.EnvLive, testActor, models.Asset{Name: "Laptop", Category: "Laptop"})
	require.NoError(t, err)

	require.NoError(t, reg.Delete(ctx, store.EnvLive, outcome.Asset.ID))
	_, err = reg.Get(ctx, store.EnvLive, outcome.Asset.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// log rows keep their now-dangling asset reference
	logs, err := reg.Logs(ctx, store.EnvLive, outcome.Asset.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestImportBulkSkipsChangeLog(t *testing.T) {
	reg := New(store.NewMemory())
	ctx := context.Background()

	imported, err := reg.ImportBulk(ctx, store.EnvLive, []models.Asset{
		{Name: "Laptop 1", Category: "Laptop"},
		{Name: "Laptop 2", Category: "Laptop"},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)

	list, err := reg.List(ctx, store.EnvLive)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	for _, a := range imported {
		assert.NotEmpty(t, a.ID)
		logs, err := reg.Logs(ctx, store.EnvLive, a.ID)
		require.NoError(t, err)
		assert.Empty(t, logs)
	}
}

func TestEnvironmentIsolation(t *testing.T) {
	reg := New(store.NewMemory())
	ctx := context.Background()

	_, err := reg.Save(ctx, store.EnvSandbox, testActor, models.Asset{Name: "Practice", Category: "Laptop"})
	require.NoError(t, err)

	live, err := reg.List(ctx, store.EnvLive)
	require.NoError(t, err)
	assert.Empty(t, live)

	sandbox, err := reg.List(ctx, store.EnvSandbox)
	require.NoError(t, err)
	assert.Len(t, sandbox, 1)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]models.Asset{
		{Name: "a", Category: "Laptop", Status: models.AssetActive, PurchaseCost: 1200},
		{Name: "b", Category: "Laptop", Status: models.AssetInStorage, PurchaseCost: 800},
		{Name: "c", Category: "Monitor", Status: models.AssetActive, PurchaseCost: 300},
		{Name: "d", Status: models.AssetRetired}, // no category, no cost
	})

	assert.Equal(t, 4, stats.TotalAssets)
	assert.Equal(t, 2300.0, stats.TotalValue)
	assert.Equal(t, 2, stats.CountsByStatus[models.AssetActive])
	assert.Equal(t, 1, stats.CountsByStatus[models.AssetInStorage])
	assert.Equal(t, 2000.0, stats.ValueByCategory["Laptop"])
	assert.Equal(t, 300.0, stats.ValueByCategory["Monitor"])
	_, hasEmpty := stats.ValueByCategory[""]
	assert.False(t, hasEmpty)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.TotalAssets)
	assert.Equal(t, 0.0, stats.TotalValue)
	assert.Empty(t, stats.CountsByStatus)
}
