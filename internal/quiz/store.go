package quiz

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned for operations on unknown session keys.
var ErrSessionNotFound = errors.New("session not found")

// Store holds the live sessions, one per key, and serializes all engine
// operations per session. Sessions are in-memory only and die with the
// process; idle ones are swept after the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	ttl      time.Duration
	logger   zerolog.Logger
}

type entry struct {
	mu        sync.Mutex
	session   *Session
	lastTouch time.Time
}

// NewStore creates a session store. ttl <= 0 disables sweeping.
func NewStore(ttl time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      ttl,
		logger:   logger.With().Str("component", "session_store").Logger(),
	}
}

// Create registers a fresh session and returns its key.
func (st *Store) Create() uuid.UUID {
	id := uuid.New()

	st.mu.Lock()
	st.sessions[id] = &entry{session: NewSession(), lastTouch: time.Now()}
	st.mu.Unlock()

	st.logger.Debug().Str("session_id", id.String()).Msg("session created")
	return id
}

// Ensure initializes a session under the given key only if absent. Repeated
// calls are no-ops; use With + Session.Reset for an explicit wipe.
func (st *Store) Ensure(id uuid.UUID) {
	st.mu.Lock()
	if _, ok := st.sessions[id]; !ok {
		st.sessions[id] = &entry{session: NewSession(), lastTouch: time.Now()}
	}
	st.mu.Unlock()
}

// With runs fn with exclusive access to the session. All mutating engine
// calls must go through here so no two operations interleave on one session.
func (st *Store) With(id uuid.UUID, fn func(*Session) error) error {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastTouch = time.Now()
	return fn(e.session)
}

// Drop removes a session entirely, history included.
func (st *Store) Drop(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// RunJanitor sweeps idle sessions until ctx is canceled. Intended to run as
// a background worker from the application bootstrap.
func (st *Store) RunJanitor(ctx context.Context) error {
	if st.ttl <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(st.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st.sweep(time.Now())
		}
	}
}

func (st *Store) sweep(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for id, e := range st.sessions {
		// lastTouch is written under the entry lock in With.
		e.mu.Lock()
		idle := now.Sub(e.lastTouch) > st.ttl
		e.mu.Unlock()

		if idle {
			delete(st.sessions, id)
			st.logger.Info().Str("session_id", id.String()).Msg("idle session evicted")
		}
	}
}
