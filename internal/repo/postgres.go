package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/chatboard/internal/models"
)

// PostgresStore is a Store backed by the users and messages tables.
type PostgresStore struct {
	db       *sql.DB
	Users    *UserRepo
	Messages *MessageRepo
}

// NewPostgresStore wires the repos onto db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:       db,
		Users:    NewUserRepo(db),
		Messages: NewMessageRepo(db),
	}
}

func (s *PostgresStore) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.Users.GetByUsername(ctx, username)
}

func (s *PostgresStore) CreateUser(ctx context.Context, u models.NewUser) (models.User, error) {
	return s.Users.Create(ctx, u)
}

func (s *PostgresStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.List(ctx)
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id int) (bool, error) {
	return s.Users.Delete(ctx, id)
}

func (s *PostgresStore) MakeUserAdmin(ctx context.Context, id int) (models.User, error) {
	return s.Users.MakeAdmin(ctx, id)
}

func (s *PostgresStore) GetMessages(ctx context.Context) ([]models.MessageWithUser, error) {
	return s.Messages.ListWithUsers(ctx)
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m models.NewMessage) (models.Message, error) {
	return s.Messages.Create(ctx, m)
}

func (s *PostgresStore) DeleteUserMessages(ctx context.Context, userID int) error {
	return s.Messages.DeleteByUser(ctx, userID)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
