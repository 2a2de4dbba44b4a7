package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/image-enhancer/internal/enhance"
	"github.com/fpang/image-enhancer/internal/stats"
)

// ErrStoreFull is returned by Create when the session cap is reached.
var ErrStoreFull = errors.New("too many active sessions")

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one user's editing session: the current state plus the
// generation counter used to discard stale runs. All access goes
// through the mutex; State itself is immutable so snapshots handed out
// under the lock stay valid after it is released.
type Session struct {
	ID string

	mu     sync.Mutex
	state  State
	issued uint64 // token of the most recently begun run
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin registers a new run with the given parameters and returns its
// generation token plus the source the run must read. Beginning a run
// supersedes every earlier uncommitted run for this session.
func (s *Session) Begin(p enhance.Params) (uint64, *enhance.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.state = Apply(s.state, ParamsChanged{Params: p})
	return s.issued, s.state.Source
}

// Commit installs a run's result if its token is still current.
// Results from superseded runs are discarded, which keeps the enhanced
// output and its stats always derived from the latest requested
// parameters. Returns false when the run was stale.
func (s *Session) Commit(token uint64, res *enhance.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued {
		log.Debug().
			Str("session", s.ID).
			Uint64("token", token).
			Uint64("current", s.issued).
			Msg("Discarding stale enhancement run")
		return false
	}
	s.state = Apply(s.state, RunCommitted{Generation: token, Data: res.Data, Stats: res.Stats})
	return true
}

// Replace swaps in a new source image, dropping the previous enhanced
// output and invalidating every in-flight run.
func (s *Session) Replace(src *enhance.Source, st stats.ImageStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.state = Apply(s.state, SourceLoaded{Source: src, Stats: st})
}

// Store is the in-memory session registry. Sessions live for the
// lifetime of the process; nothing is persisted.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
}

// DefaultMaxSessions bounds concurrent in-memory sessions. Each session
// can hold a full decoded image plus its enhanced render, so the cap
// keeps a runaway tab from exhausting memory.
const DefaultMaxSessions = 32

// NewStore creates a Store holding at most max sessions. A max of zero
// or less falls back to DefaultMaxSessions.
func NewStore(max int) *Store {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Store{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Create registers a new session for an uploaded source image.
func (st *Store) Create(src *enhance.Source, srcStats stats.ImageStats) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.max {
		return nil, ErrStoreFull
	}

	sess := &Session{ID: uuid.NewString()}
	sess.state = Apply(State{Params: enhance.DefaultParams()}, SourceLoaded{Source: src, Stats: srcStats})
	st.sessions[sess.ID] = sess

	log.Info().
		Str("session", sess.ID).
		Int("active", len(st.sessions)).
		Msg("Session created")
	return sess, nil
}

// Get looks up a session by ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete drops a session. Deleting an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; ok {
		delete(st.sessions, id)
		log.Info().Str("session", id).Int("active", len(st.sessions)).Msg("Session deleted")
	}
}

// Len reports the number of active sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
