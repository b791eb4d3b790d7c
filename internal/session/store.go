// Package session keeps server-side login sessions and the signed cookie
// that references them.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session maps an opaque id to an authenticated user.
type Session struct {
	ID        string
	UserID    int
	ExpiresAt time.Time
}

// Backend stores sessions.
type Backend interface {
	Create(userID int) (Session, error)
	Get(id string) (Session, bool)
	Destroy(id string) error
	DestroyUser(userID int) int
	Sweep() int
	Len() int
}

// MemoryStore is an in-process Backend. Expired sessions are invisible to Get
// and removed by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns a store whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(userID int) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return Session{}, false
	}
	return sess, true
}

// Destroy removes a session. Unknown ids are not an error.
func (s *MemoryStore) Destroy(id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// DestroyUser removes every session of userID and returns how many there were.
func (s *MemoryStore) DestroyUser(userID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Sweep prunes expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
