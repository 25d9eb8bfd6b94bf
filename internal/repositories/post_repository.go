package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"textbook-market/internal/models"
)

// PostRepository abstracts community post persistence.
type PostRepository interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, content string, authorName string, category string) (models.Post, error)
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// ListPosts returns all posts, newest first.
func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, `SELECT id, content, author_name, category, created_at FROM posts ORDER BY created_at DESC`)
	return posts, err
}

// CreatePost stores a post.
func (r *PostRepo) CreatePost(ctx context.Context, content string, authorName string, category string) (models.Post, error) {
	var post models.Post
	err := r.db.QueryRowxContext(ctx, `INSERT INTO posts (content, author_name, category) VALUES ($1, $2, $3) RETURNING id, content, author_name, category, created_at`,
		content, authorName, category).
		StructScan(&post)
	return post, err
}
