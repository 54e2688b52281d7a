package tracking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/workflow"
)

func TestLookupTicket(t *testing.T) {
	s := store.NewMemory()
	engine := workflow.NewEngine(s)
	ctx := context.Background()

	ticket, err := engine.CreateTicket(ctx, store.EnvLive, workflow.TicketInput{
		AssetName: "Printer", ReportedBy: "Dana", Description: "jammed",
	})
	require.NoError(t, err)

	result, err := Lookup(ctx, s, store.EnvLive, ticket.TicketNumber)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, TypeTicket, result.Type)
	assert.Equal(t, ticket.ID, result.ID)
	assert.Equal(t, models.TicketNew, result.Status)
	assert.Equal(t, "Printer", result.Subject)
	assert.Nil(t, result.Updated)
}

func TestLookupRequest(t *testing.T) {
	s := store.NewMemory()
	engine := workflow.NewEngine(s)
	ctx := context.Background()

	req, err := engine.CreateRequest(ctx, store.EnvLive, workflow.RequestInput{
		RequesterName: "Dana", Category: "Laptop", Reason: "new hire",
	})
	require.NoError(t, err)

	result, err := Lookup(ctx, s, store.EnvLive, req.RequestNumber)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, TypeRequest, result.Type)
	assert.Equal(t, req.ID, result.ID)
	assert.Equal(t, "Laptop", result.Subject)
	assert.Equal(t, "new hire", result.Details)
}

func TestLookupUnknownReference(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	result, err := Lookup(ctx, s, store.EnvLive, "TKT-2026-0000")
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Lookup(ctx, s, store.EnvLive, "")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupRespectsEnvironment(t *testing.T) {
	s := store.NewMemory()
	engine := workflow.NewEngine(s)
	ctx := context.Background()

	ticket, err := engine.CreateTicket(ctx, store.EnvSandbox, workflow.TicketInput{
		AssetName: "Practice", ReportedBy: "Trainee", Description: "drill",
	})
	require.NoError(t, err)

	result, err := Lookup(ctx, s, store.EnvLive, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Lookup(ctx, s, store.EnvSandbox, ticket.TicketNumber)
	require.NoError(t, err)
	require.NotNil(t, result)
}
