//go:build integration
// +build integration

package db

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestSessionCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id := uuid.New()
	defer func() { _ = db.DeleteSession(ctx, id) }()

	_, err := db.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, db.SaveSession(ctx, id, map[string]any{"currentStep": 1}))
	require.NoError(t, db.SaveSession(ctx, id, map[string]any{"currentStep": 3}))

	got, err := db.GetSession(ctx, id)
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(got.Snapshot, &snap))
	assert.Equal(t, float64(3), snap["currentStep"])
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	list, err := db.ListSessions(ctx, 1000)
	require.NoError(t, err)
	found := false
	for _, s := range list {
		if s.ID == id {
			found = true
		}
	}
	assert.True(t, found)

	require.NoError(t, db.DeleteSession(ctx, id))
	_, err = db.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, db.DeleteSession(ctx, id))
}

func TestDeleteSessionsBefore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, db.SaveSession(ctx, id, map[string]any{}))

	n, err := db.DeleteSessionsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	_, err = db.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
