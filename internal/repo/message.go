package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/chatboard/internal/models"
)

// ==========================
// MessageRepo
// ==========================
type MessageRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db}
}

// ==========================
// Create Message
// ==========================
// The database assigns id and timestamp.
func (r *MessageRepo) Create(ctx context.Context, in models.NewMessage) (models.Message, error) {
	query := `
		INSERT INTO messages (user_id, content)
		VALUES ($1, $2)
		RETURNING id, user_id, content, timestamp
	`

	var m models.Message
	err := r.DB.QueryRowContext(ctx, query, in.UserID, in.Content).
		Scan(&m.ID, &m.UserID, &m.Content, &m.Timestamp)
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return m, nil
}

// ==========================
// List With Users
// ==========================
// The inner join drops messages whose owner no longer exists.
func (r *MessageRepo) ListWithUsers(ctx context.Context) ([]models.MessageWithUser, error) {
	query := `
		SELECT m.id, m.user_id, m.content, m.timestamp, u.username
		FROM messages m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.timestamp ASC, m.id ASC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := []models.MessageWithUser{}
	for rows.Next() {
		var m models.MessageWithUser
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Timestamp, &m.Username); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// ==========================
// Delete By User
// ==========================
func (r *MessageRepo) DeleteByUser(ctx context.Context, userID int) error {
	query := `DELETE FROM messages WHERE user_id = $1`

	if _, err := r.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	return nil
}
