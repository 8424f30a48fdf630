package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/store"
	"golang.org/x/sync/semaphore"
)

// persistTimeout bounds a single snapshot write.
const persistTimeout = 5 * time.Second

// SessionStore persists session snapshots. *db.DB implements it.
type SessionStore interface {
	SaveSession(ctx context.Context, id uuid.UUID, snapshot any) error
	GetSession(ctx context.Context, id uuid.UUID) (*db.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Session is one editing session: a document store plus the guard that
// keeps a single AI request in flight.
type Session struct {
	ID    uuid.UUID
	Store *store.Store

	busy        *semaphore.Weighted
	unsubscribe func()

	mu         sync.Mutex
	lastAccess time.Time
}

// TryBeginAI reserves the session for an AI or extraction request. The
// returned release func must be called when the request finishes.
func (s *Session) TryBeginAI() (release func(), err error) {
	if !s.busy.TryAcquire(1) {
		return nil, ErrSessionBusy
	}
	return func() { s.busy.Release(1) }, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

// Sessions is the registry of live sessions. With a SessionStore attached,
// every snapshot is persisted and sessions evicted from memory are
// restored on access.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	persist  SessionStore
	ttl      time.Duration
	template string
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessions creates a registry. persist may be nil. New sessions start
// with template selected.
func NewSessions(persist SessionStore, ttl time.Duration, template string, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		sessions: make(map[uuid.UUID]*Session),
		persist:  persist,
		ttl:      ttl,
		template: template,
		logger:   logger,
		now:      time.Now,
	}
}

// Create opens a new session holding the initial state.
func (r *Sessions) Create(ctx context.Context) (*Session, error) {
	initial := store.InitialState()
	if r.template != "" {
		initial.Resume.SelectedTemplate = r.template
	}

	sess := r.attach(uuid.New(), initial)
	if r.persist != nil {
		if err := r.persist.SaveSession(ctx, sess.ID, sess.Store.Snapshot()); err != nil {
			r.detach(sess.ID)
			return nil, fmt.Errorf("failed to persist new session: %w", err)
		}
	}
	r.logger.InfoContext(ctx, "session created", "session_id", sess.ID)
	return sess, nil
}

// Get returns a live session, restoring it from persistence when it was
// evicted from memory.
func (r *Sessions) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		sess.touch(r.now())
		return sess, nil
	}

	if r.persist == nil {
		return nil, ErrSessionNotFound
	}
	saved, err := r.persist.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var st store.State
	if err := json.Unmarshal(saved.Snapshot, &st); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it meanwhile.
	if existing, ok := r.sessions[id]; ok {
		existing.touch(r.now())
		return existing, nil
	}
	sess = r.newSession(id, st)
	r.sessions[id] = sess
	r.logger.InfoContext(ctx, "session restored", "session_id", id)
	return sess, nil
}

// Delete closes a session and removes its persisted snapshot.
func (r *Sessions) Delete(ctx context.Context, id uuid.UUID) error {
	_, live := r.detach(id)

	if r.persist != nil {
		if !live {
			if _, err := r.persist.GetSession(ctx, id); err != nil {
				if errors.Is(err, db.ErrSessionNotFound) {
					return ErrSessionNotFound
				}
				return err
			}
		}
		if err := r.persist.DeleteSession(ctx, id); err != nil {
			return err
		}
	} else if !live {
		return ErrSessionNotFound
	}

	r.logger.InfoContext(ctx, "session deleted", "session_id", id)
	return nil
}

// Len returns the number of sessions held in memory.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictExpired drops sessions idle for longer than the TTL from memory and
// deletes expired snapshots from persistence.
func (r *Sessions) EvictExpired(ctx context.Context) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	var expired []uuid.UUID
	r.mu.Lock()
	for id, sess := range r.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		r.detach(id)
	}

	if r.persist != nil {
		n, err := r.persist.DeleteSessionsBefore(ctx, cutoff)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to delete expired sessions", "error", err)
		} else if n > 0 {
			r.logger.InfoContext(ctx, "deleted expired sessions", "count", n)
		}
	}
	if len(expired) > 0 {
		r.logger.InfoContext(ctx, "evicted idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run evicts expired sessions every interval until ctx is done.
func (r *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictExpired(ctx)
		}
	}
}

func (r *Sessions) attach(id uuid.UUID, st store.State) *Session {
	sess := r.newSession(id, st)
	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()
	return sess
}

// newSession builds a session and subscribes the persistence observer.
func (r *Sessions) newSession(id uuid.UUID, st store.State) *Session {
	sess := &Session{
		ID:         id,
		Store:      store.New(store.WithState(st), store.WithLogger(r.logger.With("session_id", id))),
		busy:       semaphore.NewWeighted(1),
		lastAccess: r.now(),
	}
	if r.persist != nil {
		sess.unsubscribe = sess.Store.Subscribe(func(snapshot store.State) {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			if err := r.persist.SaveSession(ctx, id, snapshot); err != nil {
				r.logger.Error("failed to persist session snapshot", "session_id", id, "error", err)
			}
		})
	}
	return sess
}

func (r *Sessions) detach(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok && sess.unsubscribe != nil {
		sess.unsubscribe()
	}
	return sess, ok
}
