package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/observability"
)

var ErrSessionNotFound = errors.New("session not found")

type session struct {
	shell    *flow.Shell
	lastSeen time.Time
}

// SessionStore keeps one Shell per client in memory. Nothing survives a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	gw       flow.Gateway
	log      *logger.Logger
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(gw flow.Gateway, ttl time.Duration, log *logger.Logger) *SessionStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		gw:       gw,
		log:      log.With("component", "sessions"),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a fresh shell and returns its id.
func (s *SessionStore) Create() (string, *flow.Shell) {
	id := uuid.NewString()
	shell := flow.NewShell(s.gw, s.log.With("session_id", id))

	s.mu.Lock()
	s.sessions[id] = &session{shell: shell, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	observability.ActiveSessions.Set(float64(n))
	s.log.Info("session created", "session_id", id)
	return id, shell
}

// Get returns the shell for id and marks the session as used.
func (s *SessionStore) Get(id string) (*flow.Shell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.shell, nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and reports how many went.
// A zero TTL keeps sessions forever.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	observability.ActiveSessions.Set(float64(n))
	if removed > 0 {
		s.log.Info("expired idle sessions", "removed", removed, "remaining", n)
	}
	return removed
}

// RunJanitor sweeps on every tick until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
