package models

import "time"

// Message is a single chat board post. Timestamp is assigned by the store.
type Message struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage is the insert payload for a message.
type NewMessage struct {
	UserID  int
	Content string
}

// MessageWithUser is a Message joined with the owning user's username.
type MessageWithUser struct {
	Message
	Username string `json:"username"`
}
