package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"textbook-market/internal/models"
)

var ErrTextbookNotFound = errors.New("textbook not found")

// TextbookRepository abstracts listing persistence.
type TextbookRepository interface {
	ListTextbooks(ctx context.Context) ([]models.Textbook, error)
	GetTextbook(ctx context.Context, textbookID int) (models.TextbookDetail, error)
	CreateTextbook(ctx context.Context, book models.Textbook) (models.Textbook, error)
}

// TextbookRepo is a sqlx implementation of TextbookRepository.
type TextbookRepo struct {
	db *sqlx.DB
}

// NewTextbookRepo constructs a TextbookRepo.
func NewTextbookRepo(db *sqlx.DB) *TextbookRepo {
	return &TextbookRepo{db: db}
}

// ListTextbooks returns all listings, newest first.
func (r *TextbookRepo) ListTextbooks(ctx context.Context) ([]models.Textbook, error) {
	books := []models.Textbook{}
	err := r.db.SelectContext(ctx, &books, `SELECT id, title, subject, course_number, condition_status, price, seller_contact, description, image_url, created_at
        FROM textbooks ORDER BY created_at DESC`)
	return books, err
}

// GetTextbook fetches one listing and resolves the seller account from the
// listing's contact email. Listings posted with an unregistered contact
// still resolve, with seller fields left empty.
func (r *TextbookRepo) GetTextbook(ctx context.Context, textbookID int) (models.TextbookDetail, error) {
	var detail models.TextbookDetail
	query := `SELECT t.id, t.title, t.subject, t.course_number, t.condition_status, t.price, t.seller_contact, t.description, t.image_url, t.created_at,
            u.id AS seller_id, u.name AS seller_name
        FROM textbooks t
        LEFT JOIN users u ON t.seller_contact = u.email
        WHERE t.id=$1`
	err := r.db.GetContext(ctx, &detail, query, textbookID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TextbookDetail{}, ErrTextbookNotFound
	}
	return detail, err
}

// CreateTextbook stores a new listing.
func (r *TextbookRepo) CreateTextbook(ctx context.Context, book models.Textbook) (models.Textbook, error) {
	var created models.Textbook
	err := r.db.QueryRowxContext(ctx, `INSERT INTO textbooks (title, subject, course_number, condition_status, price, seller_contact, description, image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, title, subject, course_number, condition_status, price, seller_contact, description, image_url, created_at`,
		book.Title, book.Subject, book.CourseNumber, book.ConditionStatus, book.Price, book.SellerContact, book.Description, book.ImageURL).
		StructScan(&created)
	return created, err
}
