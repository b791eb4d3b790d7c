package repo

import (
	"context"
	"errors"

	"github.com/crucial707/chatboard/internal/models"
)

var (
	// ErrNotFound is returned by every lookup whose target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned by backends that enforce username uniqueness.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store holds users and messages. Every method is atomic on its own; no
// guarantee links two calls.
type Store interface {
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.NewUser) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	// DeleteUser reports whether a user with id existed.
	DeleteUser(ctx context.Context, id int) (bool, error)
	MakeUserAdmin(ctx context.Context, id int) (models.User, error)

	// GetMessages returns every message whose owner still exists, joined
	// with the owner's username, oldest first.
	GetMessages(ctx context.Context) ([]models.MessageWithUser, error)
	CreateMessage(ctx context.Context, m models.NewMessage) (models.Message, error)
	DeleteUserMessages(ctx context.Context, userID int) error

	Ping(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
