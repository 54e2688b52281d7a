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

var testActor = models.Actor{UID: "u1", Name: "Tech One", Email: "tech@corp.test", Role: models.RoleTechnician}

func newTestEngine(t *testing.T) (*Engine, *registry.Registry, store.Store) {
	t.Helper()
	s := store.NewMemory()
	return NewEngine(s), registry.New(s), s
}

func seedAsset(t *testing.T, reg *registry.Registry, asset models.Asset) models.Asset {
	t.Helper()
	outcome, err := reg.Save(context.Background(), store.EnvLive, testActor, asset)
	require.NoError(t, err)
	return outcome.Asset
}

// findLog picks the row with the wanted action; log order within the same
// millisecond is not stable, so tests never index into the slice directly.
func findLog(t *testing.T, logs []models.AssetLog, action string) models.AssetLog {
	t.Helper()
	for _, row := range logs {
		if row.Action == action {
			return row
		}
	}
	t.Fatalf("no %q log row in %d rows", action, len(logs))
	return models.AssetLog{}
}

func TestCreateTicketDefaults(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	ticket, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetName:   "Printer 3rd floor",
		ReportedBy:  "Dana",
		Description: "paper jam every second page",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TicketNew, ticket.Status)
	assert.Equal(t, models.PriorityMedium, ticket.Priority)
	assert.Regexp(t, `^TKT-\d{4}-\d{4}$`, ticket.TicketNumber)
	assert.NotEmpty(t, ticket.ID)

	_, err = engine.CreateTicket(ctx, store.EnvLive, TicketInput{AssetName: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateTicketStatusGuarded(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	ticket, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetName: "Laptop", ReportedBy: "Dana", Description: "won't boot",
	})
	require.NoError(t, err)

	// direct resolution is never allowed
	_, err = engine.UpdateTicketStatus(ctx, store.EnvLive, ticket.ID, models.TicketResolved)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ticket, err = engine.UpdateTicketStatus(ctx, store.EnvLive, ticket.ID, models.TicketOpen)
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)

	// rejection stamps resolvedAt
	rejected, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetName: "Mouse", ReportedBy: "Dana", Description: "not an incident",
	})
	require.NoError(t, err)
	rejected, err = engine.UpdateTicketStatus(ctx, store.EnvLive, rejected.ID, models.TicketRejected)
	require.NoError(t, err)
	require.NotNil(t, rejected.ResolvedAt)
}

func TestResolveRepairReactivatesAsset(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	asset := seedAsset(t, reg, models.Asset{Name: "Laptop 17", Category: "Laptop", Status: models.AssetUnderRepair})
	ticket, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetID: asset.ID, AssetName: asset.Name, ReportedBy: "Dana", Description: "screen flicker",
	})
	require.NoError(t, err)

	resolved, err := engine.ResolveRepair(ctx, store.EnvLive, testActor, ticket.ID, "replaced cable", true)
	require.NoError(t, err)
	assert.Equal(t, models.TicketResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	got, err := reg.Get(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetActive, got.Status)

	logs, err := reg.Logs(ctx, store.EnvLive, asset.ID)
	require.NoError(t, err)
	findLog(t, logs, models.LogTicket)

	// resolving twice fails
	_, err = engine.ResolveRepair(ctx, store.EnvLive, testActor, ticket.ID, "", false)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestResolveReplaceSwapsAssets(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	broken := seedAsset(t, reg, models.Asset{Name: "Laptop 17", Category: "Laptop", Status: models.AssetUnderRepair, AssignedEmployee: "Dana"})
	spare := seedAsset(t, reg, models.Asset{Name: "Laptop 22", Category: "Laptop", Status: models.AssetInStorage})

	ticket, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetID: broken.ID, AssetName: broken.Name, Location: "HQ 3rd floor",
		ReportedBy: "Dana", Description: "dead motherboard",
	})
	require.NoError(t, err)

	resolved, err := engine.ResolveReplace(ctx, store.EnvLive, testActor, ticket.ID, spare.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TicketResolved, resolved.Status)
	assert.Contains(t, resolved.ResolutionNotes, spare.ID)

	gotBroken, err := reg.Get(ctx, store.EnvLive, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetRetired, gotBroken.Status)
	assert.Empty(t, gotBroken.AssignedEmployee)

	gotSpare, err := reg.Get(ctx, store.EnvLive, spare.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetActive, gotSpare.Status)
	assert.Equal(t, "Dana", gotSpare.AssignedEmployee)
	assert.Equal(t, "HQ 3rd floor", gotSpare.Location)

	// both sides got their log rows
	brokenLogs, err := reg.Logs(ctx, store.EnvLive, broken.ID)
	require.NoError(t, err)
	findLog(t, brokenLogs, models.LogRetired)
	spareLogs, err := reg.Logs(ctx, store.EnvLive, spare.ID)
	require.NoError(t, err)
	findLog(t, spareLogs, models.LogReplaced)
}

func TestResolveReplaceValidation(t *testing.T) {
	engine, reg, _ := newTestEngine(t)
	ctx := context.Background()

	broken := seedAsset(t, reg, models.Asset{Name: "Laptop", Category: "Laptop"})
	ticket, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{
		AssetID: broken.ID, AssetName: broken.Name, ReportedBy: "Dana", Description: "dead",
	})
	require.NoError(t, err)

	_, err = engine.ResolveReplace(ctx, store.EnvLive, testActor, ticket.ID, "", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = engine.ResolveReplace(ctx, store.EnvLive, testActor, ticket.ID, "no-such-asset", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListTicketsStatusFilter(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.CreateTicket(ctx, store.EnvLive, TicketInput{AssetName: "A", ReportedBy: "x", Description: "d"})
	require.NoError(t, err)
	_, err = engine.CreateTicket(ctx, store.EnvLive, TicketInput{AssetName: "B", ReportedBy: "x", Description: "d"})
	require.NoError(t, err)
	_, err = engine.UpdateTicketStatus(ctx, store.EnvLive, first.ID, models.TicketOpen)
	require.NoError(t, err)

	open, err := engine.ListTickets(ctx, store.EnvLive, models.TicketOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, first.ID, open[0].ID)

	all, err := engine.ListTickets(ctx, store.EnvLive, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
