package service

import (
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/google/uuid"
)

// Sessions tracks the sessions started by login. A session stays valid until
// logout or until its TTL runs out.
type Sessions struct {
	mu     sync.Mutex
	clock  clock.Clock
	ttl    time.Duration
	active map[uuid.UUID]model.Session
}

// NewSessions returns an empty session registry.
func NewSessions(clk clock.Clock, ttl time.Duration) *Sessions {
	return &Sessions{
		clock:  clk,
		ttl:    ttl,
		active: make(map[uuid.UUID]model.Session),
	}
}

// Start creates a session for a principal.
func (s *Sessions) Start(role model.Role, email, name string) model.Session {
	now := s.clock.Now()
	sess := model.Session{
		ID:        uuid.New(),
		Role:      role,
		Email:     email,
		Name:      name,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Sessions that were never looked up again are dropped here.
	for id, old := range s.active {
		if !now.Before(old.ExpiresAt) {
			delete(s.active, id)
		}
	}
	s.active[sess.ID] = sess
	return sess
}

// Get returns the live session with id.
func (s *Sessions) Get(id uuid.UUID) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[id]
	if !ok {
		return model.Session{}, ErrUnauthenticated
	}
	if !s.clock.Now().Before(sess.ExpiresAt) {
		delete(s.active, id)
		return model.Session{}, ErrUnauthenticated
	}
	return sess, nil
}

// End removes a session. It reports whether the session was active.
func (s *Sessions) End(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.active[id]
	delete(s.active, id)
	return ok
}
