package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/registry"
	"assetdesk/store"
)

func seedHandover(t *testing.T, engine *Engine, reg *registry.Registry, typ, employee, target string) (models.PendingHandover, models.Asset) {
	t.Helper()
	ctx := context.Background()
	asset := seedAsset(t, reg, models.Asset{Name: "Laptop 5", Category: "Laptop", Status: models.AssetInStorage, AssignedEmployee: employee})
	pending, err := engine.CreatePendingHandover(ctx, store.EnvLive, testActor, typ, employee, []string{asset.ID}, target)
	require.NoError(t, err)
	return pending, asset
}

func TestCreatePendingHandoverValidation(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	asset := seedAsset(t, reg, models.Asset{Name: "Laptop", Category: "Laptop"})

	_, err := engine.CreatePendingHandover(ctx, store.EnvLive, testActor, "Loan", "Dana", []string{asset.ID}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeHandover, "", []string{asset.ID}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeHandover, "Dana", nil, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// transfer requires a target
	_, err = engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeTransfer, "Dana", []string{asset.ID}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// a missing asset fails the whole create
	_, err = engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeHandover, "Dana", []string{"missing"}, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// target is dropped for non-transfers
	pending, err := engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeHandover, "Dana", []string{asset.ID}, "ignored")
	require.NoError(t, err)
	assert.Empty(t, pending.TargetName)
	assert.Equal(t, models.HandoverPending, pending.Status)
	require.Len(t, pending.AssetsSnapshot, 1)
	assert.Equal(t, asset.Name, pending.AssetsSnapshot[0].Name)
}

func TestSnapshotSurvivesAssetEdit(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	asset.Name = "Renamed after the fact"
	_, err := reg.Save(ctx, store.EnvLive, testActor, asset)
	require.NoError(t, err)

	got, err := engine.GetPending(ctx, store.EnvLive, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop 5", got.AssetsSnapshot[0].Name)
}

func TestCompleteHandoverPrivilegedAppliesInventory(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	signer := Signer{Name: "Tech One", Privileged: true}
	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, signer, pending.ID, "sig-data")
	require.NoError(t, err)

	assert.True(t, outcome.InventoryApplied)
	assert.NoError(t, outcome.InventoryErr)
	assert.Equal(t, models.HandoverCompleted, outcome.Document.Status)
	assert.Equal(t, "sig-data", outcome.Document.SignatureBase64)

	got, err := reg.Get(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetActive, got.Status)
	assert.Equal(t, "Dana", got.AssignedEmployee)

	logs, err := reg.Logs(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	row := findLog(t, logs, models.LogAssigned)
	assert.Equal(t, outcome.Document.ID, row.DocumentID)

	// the pending record is consumed
	consumed, err := engine.GetPending(ctx, store.EnvLive, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandoverCompleted, consumed.Status)
	_, err = engine.CompleteHandover(ctx, store.EnvLive, signer, pending.ID, "sig-again")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCompleteHandoverUnprivilegedLeavesInventory(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, Signer{Name: "Dana"}, pending.ID, "sig-data")
	require.NoError(t, err)

	assert.False(t, outcome.InventoryApplied)
	assert.Equal(t, models.HandoverPending, outcome.Document.Status)

	got, err := reg.Get(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetInStorage, got.Status)
}

func TestCompleteReturnNeedsCoSignature(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeReturn, "Dana", "")

	// even a privileged signer leaves inventory alone on a Return
	signer := Signer{Name: "Tech One", Privileged: true}
	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, signer, pending.ID, "employee-sig")
	require.NoError(t, err)
	assert.False(t, outcome.InventoryApplied)
	assert.Equal(t, models.HandoverPending, outcome.Document.Status)

	// the IT co-signature completes it and clears the assets
	document, err := engine.CompleteReturn(ctx, store.EnvLive, testActor, outcome.Document.ID, "it-sig")
	require.NoError(t, err)
	assert.Equal(t, models.HandoverCompleted, document.Status)
	assert.Equal(t, "it-sig", document.ITSignatureBase64)

	got, err := reg.Get(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetInStorage, got.Status)
	assert.Empty(t, got.AssignedEmployee)

	logs, err := reg.Logs(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	findLog(t, logs, models.LogReturned)

	// countersigning twice fails
	_, err = engine.CompleteReturn(ctx, store.EnvLive, testActor, outcome.Document.ID, "it-sig")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCompleteReturnSkipsDeletedAssets(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeReturn, "Dana", "")

	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, Signer{Name: "Dana"}, pending.ID, "employee-sig")
	require.NoError(t, err)

	require.NoError(t, reg.Delete(ctx, store.EnvLive, asset.ID))

	document, err := engine.CompleteReturn(ctx, store.EnvLive, testActor, outcome.Document.ID, "it-sig")
	require.NoError(t, err)
	assert.Equal(t, models.HandoverCompleted, document.Status)
}

func TestCompleteTransferReassignsOnly(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	asset := seedAsset(t, reg, models.Asset{Name: "Laptop 5", Category: "Laptop", Status: models.AssetActive, AssignedEmployee: "Dana"})
	pending, err := engine.CreatePendingHandover(ctx, store.EnvLive, testActor, models.HandoverTypeTransfer, "Dana", []string{asset.ID}, "Eli")
	require.NoError(t, err)

	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, Signer{Name: "Tech One", Privileged: true}, pending.ID, "sig")
	require.NoError(t, err)
	assert.True(t, outcome.InventoryApplied)

	got, err := reg.Get(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eli", got.AssignedEmployee)
	// status untouched on a transfer
	assert.Equal(t, models.AssetActive, got.Status)

	logs, err := reg.Logs(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	findLog(t, logs, models.LogTransferred)
}

func TestCompleteHandoverInventoryFailureKeepsSignature(t *testing.T) {
	engine, reg, s := newTestEngine(t)
	ctx := context.Background()
	pending, asset := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	// deleting the asset after the snapshot makes the inventory update
	// target a missing document, so the atomic batch is rejected
	require.NoError(t, reg.Delete(ctx, store.EnvLive, asset.ID))

	outcome, err := engine.CompleteHandover(ctx, store.EnvLive, Signer{Name: "Tech One", Privileged: true}, pending.ID, "sig-data")
	require.NoError(t, err)

	assert.False(t, outcome.InventoryApplied)
	require.Error(t, outcome.InventoryErr)
	assert.Equal(t, models.HandoverPending, outcome.Document.Status)

	// the signature survived
	doc, err := s.Get(ctx, store.EnvLive, models.ColHandoverDocuments, outcome.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, "sig-data", doc["signatureBase64"])

	// and the pending record was still consumed
	consumed, err := engine.GetPending(ctx, store.EnvLive, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HandoverCompleted, consumed.Status)
}

func TestRevokePending(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()
	pending, _ := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	require.NoError(t, engine.RevokePending(ctx, store.EnvLive, pending.ID))

	_, err := engine.CompleteHandover(ctx, store.EnvLive, Signer{Name: "Dana"}, pending.ID, "sig")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCompleteHandoverRequiresSignature(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	pending, _ := seedHandover(t, engine, reg, models.HandoverTypeHandover, "Dana", "")

	_, err := engine.CompleteHandover(context.Background(), store.EnvLive, Signer{Name: "Dana"}, pending.ID, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
