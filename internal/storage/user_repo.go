package storage

import (
	"context"

	"github.com/estoquehub/internal/model"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, password, created_at, updated_at`

type UserRepository struct {
	db *Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user in one statement. A taken email surfaces as
// model.ErrConflict from the users_email_key constraint.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	var user model.User
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	err := r.db.QueryRowxContext(ctx, query, name, email, passwordHash).StructScan(&user)
	if err != nil {
		return nil, translate("create user", err)
	}
	return &user, nil
}

// FindByEmail gets a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

// FindByID gets a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrNotFound
	}

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

// EnsureUser creates the user or returns the existing row for email,
// leaving its password untouched.
func (r *UserRepository) EnsureUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	var user model.User
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING ` + userColumns
	err := r.db.QueryRowxContext(ctx, query, name, email, passwordHash).StructScan(&user)
	if err != nil {
		return nil, translate("ensure user", err)
	}
	return &user, nil
}
