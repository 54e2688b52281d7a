package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
)

func TestCreateRequestDefaults(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	req, err := engine.CreateRequest(ctx, store.EnvLive, RequestInput{
		RequesterName: "Dana",
		Category:      "Laptop",
		Reason:        "new hire",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RequestNew, req.Status)
	assert.Equal(t, models.UrgencyMedium, req.Urgency)
	assert.Regexp(t, `^REQ-\d{4}-\d{4}$`, req.RequestNumber)

	_, err = engine.CreateRequest(ctx, store.EnvLive, RequestInput{RequesterName: "Dana"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateRequestStatusGuarded(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	req, err := engine.CreateRequest(ctx, store.EnvLive, RequestInput{RequesterName: "Dana", Category: "Laptop"})
	require.NoError(t, err)

	// Deployed is never a direct move
	_, err = engine.UpdateRequestStatus(ctx, store.EnvLive, req.ID, models.RequestDeployed, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// walk the happy path
	for _, status := range []string{models.RequestAcknowledged, models.RequestPendingFinance, models.RequestApproved} {
		req, err = engine.UpdateRequestStatus(ctx, store.EnvLive, req.ID, status, "")
		require.NoError(t, err)
		assert.Equal(t, status, req.Status)
	}

	// rejection from Pending Finance stamps resolvedAt
	second, err := engine.CreateRequest(ctx, store.EnvLive, RequestInput{RequesterName: "Eli", Category: "Monitor"})
	require.NoError(t, err)
	second, err = engine.UpdateRequestStatus(ctx, store.EnvLive, second.ID, models.RequestRejected, "out of budget")
	require.NoError(t, err)
	require.NotNil(t, second.ResolvedAt)
	assert.Equal(t, "out of budget", second.ResolutionNotes)
}

func TestFulfillDeploysAsset(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	spare := seedAsset(t, reg, models.Asset{Name: "Laptop 9", Category: "Laptop", Status: models.AssetInStorage})
	req, err := engine.CreateRequest(ctx, store.EnvLive, RequestInput{RequesterName: "Dana", Category: "Laptop"})
	require.NoError(t, err)

	fulfilled, err := engine.Fulfill(ctx, store.EnvLive, testActor, req.ID, spare.ID, "Dana")
	require.NoError(t, err)
	assert.Equal(t, models.RequestDeployed, fulfilled.Status)
	assert.Equal(t, spare.ID, fulfilled.LinkedAssetID)
	require.NotNil(t, fulfilled.ResolvedAt)

	got, err := reg.Get(ctx, store.EnvLive, spare.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetActive, got.Status)
	assert.Equal(t, "Dana", got.AssignedEmployee)

	logs, err := reg.Logs(ctx, store.EnvLive, spare.ID)
	require.NoError(t, err)
	findLog(t, logs, models.LogAssigned)

	// a deployed request cannot be fulfilled again
	_, err = engine.Fulfill(ctx, store.EnvLive, testActor, req.ID, spare.ID, "Dana")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestFulfillMissingAssetLeavesRequestUntouched(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	req, err := engine.CreateRequest(ctx, store.EnvLive, RequestInput{RequesterName: "Dana", Category: "Laptop"})
	require.NoError(t, err)

	_, err = engine.Fulfill(ctx, store.EnvLive, testActor, req.ID, "no-such-asset", "Dana")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := engine.GetRequest(ctx, store.EnvLive, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestNew, got.Status)
	assert.Empty(t, got.LinkedAssetID)
}
