package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory SessionStore.
type memoryStore struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]json.RawMessage
	updated   map[uuid.UUID]time.Time
	now       func() time.Time
	saveErr   error
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		snapshots: make(map[uuid.UUID]json.RawMessage),
		updated:   make(map[uuid.UUID]time.Time),
		now:       now,
	}
}

func (m *memoryStore) SaveSession(_ context.Context, id uuid.UUID, snapshot any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[id] = data
	m.updated[id] = m.now()
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, id uuid.UUID) (*db.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.snapshots[id]
	if !ok {
		return nil, db.ErrSessionNotFound
	}
	return &db.Session{ID: id, Snapshot: data, UpdatedAt: m.updated[id]}, nil
}

func (m *memoryStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	delete(m.updated, id)
	return nil
}

func (m *memoryStore) DeleteSessionsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, at := range m.updated {
		if at.Before(cutoff) {
			delete(m.snapshots, id)
			delete(m.updated, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) snapshot(t *testing.T, id uuid.UUID) store.State {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var st store.State
	require.NoError(t, json.Unmarshal(m.snapshots[id], &st))
	return st
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestSessions(persist SessionStore, clock *testClock) *Sessions {
	r := NewSessions(persist, time.Hour, types.TemplateModern, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = clock.Now
	return r
}

func TestSessions_InMemory(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := newTestSessions(nil, clock)
	ctx := context.Background()

	sess, err := r.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.TemplateModern, sess.Store.Resume().SelectedTemplate)

	got, err := r.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = r.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, r.Delete(ctx, sess.ID))
	assert.ErrorIs(t, r.Delete(ctx, sess.ID), ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestSessions_PersistsEverySnapshot(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	persist := newMemoryStore(clock.Now)
	r := newTestSessions(persist, clock)
	ctx := context.Background()

	sess, err := r.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.StepPersonalInfo, persist.snapshot(t, sess.ID).CurrentStep)

	sess.Store.UpdatePersonalInfo(types.PersonalInfo{FirstName: "Ada"})
	sess.Store.SetStep(store.StepEducation)

	saved := persist.snapshot(t, sess.ID)
	assert.Equal(t, "Ada", saved.Resume.PersonalInfo.FirstName)
	assert.Equal(t, store.StepEducation, saved.CurrentStep)
}

func TestSessions_RestoresEvictedSession(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	persist := newMemoryStore(clock.Now)
	r := newTestSessions(persist, clock)
	ctx := context.Background()

	sess, err := r.Create(ctx)
	require.NoError(t, err)
	sess.Store.AddSkill(types.Skill{ID: "go", Name: "Go", Category: types.SkillTechnical})

	// A fresh registry over the same store stands in for a restart.
	restarted := newTestSessions(persist, clock)
	restored, err := restarted.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, restored.Store.Has(store.CollectionSkills, "go"))
	assert.Equal(t, 1, restarted.Len())

	restored.Store.SetTemplate(types.TemplateClassic)
	assert.Equal(t, types.TemplateClassic, persist.snapshot(t, sess.ID).Resume.SelectedTemplate)
}

func TestSessions_EvictExpired(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	persist := newMemoryStore(clock.Now)
	r := newTestSessions(persist, clock)
	ctx := context.Background()

	idle, err := r.Create(ctx)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	active, err := r.Create(ctx)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, err = r.Get(ctx, active.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, r.EvictExpired(ctx))
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.Get(ctx, active.ID)
	assert.NoError(t, err)
}

func TestSessions_EvictedButPersistedSurvives(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	persist := newMemoryStore(clock.Now)
	r := newTestSessions(persist, clock)
	ctx := context.Background()

	sess, err := r.Create(ctx)
	require.NoError(t, err)
	clock.Advance(50 * time.Minute)
	// The edit refreshes the stored snapshot but not the in-memory access time.
	sess.Store.TogglePreview()
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 1, r.EvictExpired(ctx))
	restored, err := r.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, restored.Store.Snapshot().IsPreviewMode)
}

func TestSessions_CreateFailsWhenPersistenceFails(t *testing.T) {
	clock := &testClock{t: time.Now()}
	persist := newMemoryStore(clock.Now)
	persist.saveErr = errors.New("connection refused")
	r := newTestSessions(persist, clock)

	_, err := r.Create(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestSession_TryBeginAI(t *testing.T) {
	r := newTestSessions(nil, &testClock{t: time.Now()})
	sess, err := r.Create(context.Background())
	require.NoError(t, err)

	release, err := sess.TryBeginAI()
	require.NoError(t, err)

	_, err = sess.TryBeginAI()
	assert.ErrorIs(t, err, ErrSessionBusy)

	release()
	release2, err := sess.TryBeginAI()
	require.NoError(t, err)
	release2()
}
