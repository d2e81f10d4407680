package conversation

import (
	"context"
	"sync"
)

type session struct {
	turns []Turn
	// touched is the store write counter at the session's last append.
	touched uint64
}

// round serialises Exchange calls of one session. It lives only while
// some caller holds or waits for it.
type round struct {
	mu   sync.Mutex
	refs int
}

// MemoryStore keeps history in process memory, keyed by session id.
// maxTurns bounds each session and maxSessions the number of sessions;
// 0 means unbounded for both.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*session
	rounds      map[string]*round
	maxTurns    int
	maxSessions int
	writes      uint64
}

type Option func(*MemoryStore)

// WithMaxSessions bounds how many sessions are kept. When exceeded, the
// session idle the longest is dropped.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// NewMemoryStore returns an empty store. A maxTurns of 1 is raised to 2 so
// that a full exchange always fits.
func NewMemoryStore(maxTurns int, opts ...Option) *MemoryStore {
	if maxTurns < 0 {
		maxTurns = 0
	}
	if maxTurns == 1 {
		maxTurns = 2
	}
	s := &MemoryStore{
		sessions: make(map[string]*session),
		rounds:   make(map[string]*round),
		maxTurns: maxTurns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...Turn) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	for _, t := range turns {
		if t.Role != RoleUser && t.Role != RoleModel {
			return ErrInvalidRole
		}
		if t.Content == "" {
			return ErrEmptyContent
		}
	}
	if len(turns) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	s.writes++
	sess.touched = s.writes
	sess.turns = s.evict(append(sess.turns, turns...))
	if len(sess.turns) == 0 {
		delete(s.sessions, sessionID)
	}
	s.evictSessions(sessionID)
	return nil
}

// evict drops the oldest turns beyond maxTurns. The retained window never
// starts with a model turn.
func (s *MemoryStore) evict(turns []Turn) []Turn {
	if s.maxTurns == 0 || len(turns) <= s.maxTurns {
		return turns
	}
	drop := len(turns) - s.maxTurns
	for drop < len(turns) && turns[drop].Role == RoleModel {
		drop++
	}
	kept := make([]Turn, len(turns)-drop)
	copy(kept, turns[drop:])
	return kept
}

// evictSessions drops the least recently active sessions beyond
// maxSessions, never the one just written. Callers hold s.mu.
func (s *MemoryStore) evictSessions(keep string) {
	if s.maxSessions == 0 {
		return
	}
	for len(s.sessions) > s.maxSessions {
		var (
			oldestID string
			oldest   uint64
		)
		for id, sess := range s.sessions {
			if id == keep {
				continue
			}
			if oldestID == "" || sess.touched < oldest {
				oldestID, oldest = id, sess.touched
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.sessions, oldestID)
	}
}

func (s *MemoryStore) Snapshot(_ context.Context, sessionID string) ([]Turn, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return []Turn{}, nil
	}
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

func (s *MemoryStore) Len(_ context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, ErrEmptySession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return len(sess.turns), nil
	}
	return 0, nil
}

// Sessions returns the number of sessions with recorded history.
func (s *MemoryStore) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) lockRound(sessionID string) *round {
	s.mu.Lock()
	r, ok := s.rounds[sessionID]
	if !ok {
		r = &round{}
		s.rounds[sessionID] = r
	}
	r.refs++
	s.mu.Unlock()

	r.mu.Lock()
	return r
}

func (s *MemoryStore) unlockRound(sessionID string, r *round) {
	r.mu.Unlock()

	s.mu.Lock()
	r.refs--
	if r.refs == 0 {
		delete(s.rounds, sessionID)
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Exchange(ctx context.Context, sessionID, input string, generate GenerateFunc) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySession
	}
	userTurn, err := NewTurn(RoleUser, input)
	if err != nil {
		return "", err
	}

	r := s.lockRound(sessionID)
	defer s.unlockRound(sessionID, r)

	history, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return "", err
	}
	reply, err := generate(ctx, history, userTurn.Content)
	if err != nil {
		return "", err
	}
	modelTurn, err := NewTurn(RoleModel, reply)
	if err != nil {
		return "", err
	}
	if err := s.Append(ctx, sessionID, userTurn, modelTurn); err != nil {
		return "", err
	}
	return modelTurn.Content, nil
}
