package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/utils"
)

// UserRepo persists rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,password_hash,is_active,created_at"

// Create validates the registration fields, hashes the password and inserts
// a new active user.  Uniqueness is checked email first, then username, so
// that when both collide the email conflict is the one reported.  The
// database unique keys remain the authoritative guard: a concurrent
// registration that slips past both lookups surfaces as a 1062 on insert
// and is mapped back to the same sentinel errors.
func (r *UserRepo) Create(ctx context.Context, email, username, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := model.ValidateEmail(email); err != nil {
		return model.User{}, err
	}
	if err := model.ValidateUsername(username); err != nil {
		return model.User{}, err
	}
	if err := model.ValidatePassword(password); err != nil {
		return model.User{}, err
	}

	// Fast-path uniqueness checks, ordered for deterministic error messages.
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailExists
	} else if err != sql.ErrNoRows {
		return model.User{}, err
	}
	if _, err := r.GetByUsername(ctx, username); err == nil {
		return model.User{}, ErrUsernameExists
	} else if err != sql.ErrNoRows {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, password_hash, is_active) VALUES (?,?,?,TRUE)",
		email, username, hash)
	if err != nil {
		switch {
		case isDuplicate(err, "uq_users_email"):
			return model.User{}, ErrEmailExists
		case isDuplicate(err, "uq_users_username"):
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByUsername fetches a user by username.  Used by the authentication
// gate to resolve a token subject.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	return u, err
}
