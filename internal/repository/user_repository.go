package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/thanhng/workchat/internal/model"
)

// UserRepo persists user accounts.  Password hashes are produced by the
// caller; this layer never sees plaintext credentials.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,username,first_name,last_name,password_hash,active,created_at,updated_at"

// Create inserts an inactive user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, username, firstName, lastName, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, first_name, last_name, password_hash, active) VALUES (?,?,?,?,?,FALSE)",
		email, username, firstName, lastName, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", passwordHash, id)
	return err
}

// SetActive flips the account's active flag.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET active=?, updated_at=NOW() WHERE id=?", active, id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
