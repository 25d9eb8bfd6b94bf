package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"textbook-market/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository abstracts user account persistence. The messaging engine
// only consults it to resolve display names; the rest serves account
// management endpoints.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UsersByIDs(ctx context.Context, ids []int) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpsertUsers(ctx context.Context, users []models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ClearUsers(ctx context.Context) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ListUsers returns all registered users.
func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT id, name, email, age, city FROM users ORDER BY id ASC`)
	return users, err
}

// UsersByIDs fetches users by id in one round trip. Unknown ids are simply
// absent from the result, not an error.
func (r *UserRepo) UsersByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT id, name, email, age, city FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return users, err
}

// CreateUser inserts a user, honoring an explicit id when one is given.
func (r *UserRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	var row *sqlx.Row
	if user.ID != 0 {
		row = r.db.QueryRowxContext(ctx, `INSERT INTO users (id, name, email, age, city) VALUES ($1, $2, $3, $4, $5) RETURNING id, name, email, age, city`,
			user.ID, user.Name, user.Email, user.Age, user.City)
	} else {
		row = r.db.QueryRowxContext(ctx, `INSERT INTO users (name, email, age, city) VALUES ($1, $2, $3, $4) RETURNING id, name, email, age, city`,
			user.Name, user.Email, user.Age, user.City)
	}

	var created models.User
	if err := row.StructScan(&created); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return created, nil
}

// UpsertUsers bulk-loads seed users, updating existing rows by id.
func (r *UserRepo) UpsertUsers(ctx context.Context, users []models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, user := range users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, age, city) VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, age = EXCLUDED.age, city = EXCLUDED.city`,
			user.ID, user.Name, user.Email, user.Age, user.City); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetUserByEmail fetches a user by email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, name, email, age, city FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ClearUsers removes every user row.
func (r *UserRepo) ClearUsers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}
