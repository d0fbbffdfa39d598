package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thanhng/workchat/internal/model"
	"github.com/thanhng/workchat/internal/repository"
	"github.com/thanhng/workchat/internal/utils"
)

// SessionStore is the persistence contract the session manager needs.
// *repository.SessionRepo satisfies it.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, hash string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Session, error)
	UpdateHashIfMatches(ctx context.Context, id uint64, oldHash, newHash string) error
	DeleteByID(ctx context.Context, id uint64) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// SessionManager creates, rotates and revokes login sessions.  A session
// moves Active -> Active(rotated) on refresh and Active -> Revoked
// (deleted) on logout or forced revocation; revocation is terminal.
type SessionManager struct {
	sessions SessionStore
}

func NewSessionManager(sessions SessionStore) *SessionManager {
	return &SessionManager{sessions: sessions}
}

// Create opens a new session for the user with a fresh opaque hash.
func (m *SessionManager) Create(ctx context.Context, userID uint64) (model.Session, error) {
	hash, err := utils.NewSessionHash()
	if err != nil {
		return model.Session{}, err
	}
	id, err := m.sessions.Create(ctx, userID, hash)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{ID: id, UserID: userID, Hash: hash}, nil
}

// Rotate swaps the session's hash for a freshly generated one, but only
// if the stored hash still equals expectedHash.  The store performs the
// swap as one compare-and-set, so two concurrent rotations with the same
// stale hash have exactly one winner; the loser gets
// ErrSessionHashMismatch.  A session that no longer exists reports
// ErrSessionNotFound instead.
func (m *SessionManager) Rotate(ctx context.Context, sessionID uint64, expectedHash string) (string, error) {
	newHash, err := utils.NewSessionHash()
	if err != nil {
		return "", err
	}
	err = m.sessions.UpdateHashIfMatches(ctx, sessionID, expectedHash, newHash)
	if errors.Is(err, repository.ErrHashMismatch) {
		// Distinguish a revoked session from a replayed hash: the former
		// means the refresh token's session is gone entirely.
		if _, lookErr := m.sessions.GetByID(ctx, sessionID); lookErr == sql.ErrNoRows {
			return "", ErrSessionNotFound
		}
		return "", ErrSessionHashMismatch
	}
	if err != nil {
		return "", err
	}
	return newHash, nil
}

// Revoke deletes a single session.
func (m *SessionManager) Revoke(ctx context.Context, sessionID uint64) error {
	return m.sessions.DeleteByID(ctx, sessionID)
}

// RevokeAllForUser deletes every session of a user.  Any refresh token
// bound to one of them subsequently fails with ErrSessionNotFound.
func (m *SessionManager) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.sessions.DeleteAllForUser(ctx, userID)
}

// FindByID loads a session, mapping a missing row to ErrSessionNotFound.
func (m *SessionManager) FindByID(ctx context.Context, sessionID uint64) (model.Session, error) {
	s, err := m.sessions.GetByID(ctx, sessionID)
	if err == sql.ErrNoRows {
		return model.Session{}, ErrSessionNotFound
	}
	return s, err
}
