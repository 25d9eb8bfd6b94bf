package models

import "time"

// Message is a directed message between two users, optionally tied to a
// textbook listing the conversation started from.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"sender_id"`
	ReceiverID int       `db:"receiver_id" json:"receiver_id"`
	TextbookID *int      `db:"textbook_id" json:"textbook_id,omitempty"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
