package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/chatboard/internal/models"
)

// MemoryStore is the in-process Store. Ids start at 1 and are never reused.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int]models.User
	messages   map[int]models.Message
	nextUserID int
	nextMsgID  int

	now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int]models.User),
		messages:   make(map[int]models.Message),
		nextUserID: 1,
		nextMsgID:  1,
		now:        time.Now,
	}
}

func (s *MemoryStore) GetUser(_ context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// GetUserByUsername scans all users and returns the first match.
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, in models.NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{
		ID:       s.nextUserID,
		Username: in.Username,
		Password: in.Password,
		IsAdmin:  in.IsAdmin,
	}
	s.nextUserID++
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) GetAllUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *MemoryStore) MakeUserAdmin(_ context.Context, id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	u.IsAdmin = true
	s.users[id] = u
	return u, nil
}

func (s *MemoryStore) GetMessages(_ context.Context) ([]models.MessageWithUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MessageWithUser, 0, len(s.messages))
	for _, m := range s.messages {
		u, ok := s.users[m.UserID]
		if !ok {
			continue
		}
		out = append(out, models.MessageWithUser{Message: m, Username: u.Username})
	}

	// Map iteration is random, so equal timestamps fall back to insertion (id) order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateMessage(_ context.Context, in models.NewMessage) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := models.Message{
		ID:        s.nextMsgID,
		UserID:    in.UserID,
		Content:   in.Content,
		Timestamp: s.now().UTC(),
	}
	s.nextMsgID++
	s.messages[m.ID] = m
	return m, nil
}

// DeleteUserMessages removes every message owned by userID. Zero matches is
// not an error.
func (s *MemoryStore) DeleteUserMessages(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range s.messages {
		if m.UserID == userID {
			delete(s.messages, id)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
