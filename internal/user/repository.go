package user

import (
	"context"

	"staybook/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, firstName, lastName, username, email, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, first_name, last_name, username, email, password_hash, created_at, updated_at
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, firstName, lastName, username, email, passwordHash)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByCredential looks a user up by username or email.
func (r *repository) FindByCredential(ctx context.Context, credential string) (*User, error) {
	query := `
		SELECT id, first_name, last_name, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, credential)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, first_name, last_name, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}
