package repository

import (
	"context"
	"database/sql"

	"github.com/thanhng/workchat/internal/model"
)

// SessionRepo persists login sessions.  A session stores only the current
// opaque hash; refresh-token replay protection relies entirely on the
// conditional update in UpdateHashIfMatches.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row and returns its ID.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, hash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, hash) VALUES (?,?)", userID, hash)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a session by id.  Returns sql.ErrNoRows when the
// session was revoked or never existed.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,hash,created_at FROM sessions WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.UserID, &s.Hash, &s.CreatedAt)
	return s, err
}

// UpdateHashIfMatches swaps in newHash only when the stored hash still
// equals oldHash.  The single conditional UPDATE makes rotation atomic:
// of two concurrent refreshes presenting the same stale hash, exactly one
// matches the row and the other gets ErrHashMismatch.  A missing session
// also reports ErrHashMismatch here; callers that need to distinguish
// revocation look the session up first.
func (r *SessionRepo) UpdateHashIfMatches(ctx context.Context, id uint64, oldHash, newHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET hash=? WHERE id=? AND hash=?", newHash, id, oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHashMismatch
	}
	return nil
}

// DeleteByID revokes a single session.
func (r *SessionRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

// DeleteAllForUser revokes every session of a user, forcing re-login on
// all clients.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
