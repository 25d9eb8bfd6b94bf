package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"textbook-market/internal/models"
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID int, receiverID int, textbookID *int, content string) (models.Message, error)
	Thread(ctx context.Context, userA int, userB int) ([]models.Message, error)
	MessagesInvolving(ctx context.Context, userID int) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, readerID int, senderID int) (int64, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to the log. The row is visible to
// subsequent reads as soon as the insert commits.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID int, receiverID int, textbookID *int, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, textbook_id, content) VALUES ($1, $2, $3, $4) RETURNING id, sender_id, receiver_id, textbook_id, content, is_read, created_at`, senderID, receiverID, textbookID, content).
		StructScan(&msg)
	return msg, err
}

// Thread returns every message exchanged between the two users, oldest
// first. Ties on created_at fall back to id, which is the authoritative
// order for same-timestamp bursts.
func (r *MessageRepo) Thread(ctx context.Context, userA int, userB int) ([]models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, textbook_id, content, is_read, created_at
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, id ASC`
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, query, userA, userB)
	return msgs, err
}

// MessagesInvolving returns every message the user sent or received.
func (r *MessageRepo) MessagesInvolving(ctx context.Context, userID int) ([]models.Message, error) {
	query := `SELECT id, sender_id, receiver_id, textbook_id, content, is_read, created_at
        FROM messages
        WHERE sender_id=$1 OR receiver_id=$1
        ORDER BY id ASC`
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, query, userID)
	return msgs, err
}

// MarkThreadRead flips every unread message from senderID to readerID to
// read. Re-running it is a no-op, so concurrent opens of the same thread
// are safe without locking. Returns the number of rows transitioned.
func (r *MessageRepo) MarkThreadRead(ctx context.Context, readerID int, senderID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE receiver_id=$1 AND sender_id=$2 AND is_read = FALSE`, readerID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnreadCount counts unread inbound messages for the user.
func (r *MessageRepo) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE receiver_id=$1 AND is_read = FALSE`, userID)
	return count, err
}
