package models

import "time"

// Post is a community board entry.
type Post struct {
	ID         int       `db:"id" json:"id"`
	Content    string    `db:"content" json:"content"`
	AuthorName string    `db:"author_name" json:"author_name"`
	Category   string    `db:"category" json:"category"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
