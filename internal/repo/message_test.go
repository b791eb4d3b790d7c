package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/chatboard/internal/models"
)

func TestMessageRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO messages \(user_id, content\)`).
		WithArgs(1, "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "timestamp"}).AddRow(10, 1, "hello", ts))

	repo := NewMessageRepo(db)
	msg, err := repo.Create(context.Background(), models.NewMessage{UserID: 1, Content: "hello"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if msg.ID != 10 || msg.UserID != 1 || !msg.Timestamp.Equal(ts) {
		t.Errorf("unexpected message: %+v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMessageRepo_ListWithUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT m.id, m.user_id, m.content, m.timestamp, u.username FROM messages m JOIN users u`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "timestamp", "username"}).
			AddRow(1, 1, "a", t0, "alice").
			AddRow(2, 2, "b", t0.Add(time.Second), "bob"))

	repo := NewMessageRepo(db)
	msgs, err := repo.ListWithUsers(context.Background())
	if err != nil {
		t.Fatalf("ListWithUsers: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Username != "alice" || msgs[1].Content != "b" {
		t.Errorf("unexpected messages: %+v", msgs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMessageRepo_DeleteByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM messages WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewMessageRepo(db)
	if err := repo.DeleteByUser(context.Background(), 7); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
