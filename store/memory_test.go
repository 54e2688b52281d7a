package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/apperr"
)

func TestEnvironmentNamespacing(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a1", Doc{"name": "Laptop"}))
	require.NoError(t, s.Set(ctx, EnvSandbox, "assets", "a1", Doc{"name": "Practice laptop"}))

	live, err := s.Get(ctx, EnvLive, "assets", "a1")
	require.NoError(t, err)
	sandbox, err := s.Get(ctx, EnvSandbox, "assets", "a1")
	require.NoError(t, err)

	assert.Equal(t, "Laptop", live["name"])
	assert.Equal(t, "Practice laptop", sandbox["name"])

	// deleting in one namespace never touches the other
	require.NoError(t, s.Delete(ctx, EnvSandbox, "assets", "a1"))
	_, err = s.Get(ctx, EnvSandbox, "assets", "a1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.Get(ctx, EnvLive, "assets", "a1")
	assert.NoError(t, err)
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, EnvSandbox, ParseEnvironment("sandbox"))
	assert.Equal(t, EnvLive, ParseEnvironment("live"))
	assert.Equal(t, EnvLive, ParseEnvironment(""))
	assert.Equal(t, EnvLive, ParseEnvironment("production"))
}

func TestGetNotFound(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), EnvLive, "assets", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a1", Doc{"name": "Laptop", "status": "In Storage"}))

	require.NoError(t, s.Update(ctx, EnvLive, "assets", "a1", Doc{"status": "Active"}))

	doc, err := s.Get(ctx, EnvLive, "assets", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Active", doc["status"])
	assert.Equal(t, "Laptop", doc["name"])
}

func TestUpdateMissingDocFails(t *testing.T) {
	s := NewMemory()
	err := s.Update(context.Background(), EnvLive, "assets", "missing", Doc{"status": "Active"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQueryFilterAndSort(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a1", Doc{"category": "Laptop", "name": "B"}))
	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a2", Doc{"category": "Laptop", "name": "A"}))
	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a3", Doc{"category": "Monitor", "name": "C"}))

	docs, err := s.Query(ctx, EnvLive, "assets", Doc{"category": "Laptop"}, &QueryOptions{SortField: "name"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A", docs[0]["name"])
	assert.Equal(t, "B", docs[1]["name"])

	docs, err = s.Query(ctx, EnvLive, "assets", nil, &QueryOptions{SortField: "name", SortDesc: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "C", docs[0]["name"])
}

func TestBatchAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a1", Doc{"status": "In Storage"}))

	// one update targets a missing document; nothing must be applied
	batch := s.Batch()
	batch.Update(EnvLive, "assets", "a1", Doc{"status": "Active"})
	batch.Update(EnvLive, "assets", "missing", Doc{"status": "Active"})
	err := batch.Commit(ctx)
	require.Error(t, err)

	doc, err := s.Get(ctx, EnvLive, "assets", "a1")
	require.NoError(t, err)
	assert.Equal(t, "In Storage", doc["status"])
}

func TestBatchUpdateAfterSetInSameBatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	batch := s.Batch()
	batch.Set(EnvLive, "tickets", "t1", Doc{"status": "New"})
	batch.Update(EnvLive, "tickets", "t1", Doc{"status": "Open"})
	require.NoError(t, batch.Commit(ctx))

	doc, err := s.Get(ctx, EnvLive, "tickets", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Open", doc["status"])
}

func TestSubscribeReceivesCommittedChanges(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	ch, cancel := s.Subscribe(EnvLive, "assets")
	defer cancel()

	require.NoError(t, s.Set(ctx, EnvLive, "assets", "a1", Doc{"name": "Laptop"}))

	ev := <-ch
	assert.Equal(t, "set", ev.Type)
	assert.Equal(t, "a1", ev.ID)
	assert.Equal(t, "assets", ev.Collection)

	// sandbox writes never reach a live subscriber
	require.NoError(t, s.Set(ctx, EnvSandbox, "assets", "a2", Doc{"name": "Other"}))
	require.NoError(t, s.Delete(ctx, EnvLive, "assets", "a1"))
	ev = <-ch
	assert.Equal(t, "delete", ev.Type)
	assert.Equal(t, "a1", ev.ID)
}

func TestSanitizeDropsNil(t *testing.T) {
	doc := Sanitize(Doc{"a": 1, "b": nil, "c": "x"})
	assert.Equal(t, Doc{"a": 1, "c": "x"}, doc)
}
