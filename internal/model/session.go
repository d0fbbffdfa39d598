package model

import "time"

// Session models a row in the `sessions` table.  A session backs one
// logged-in client and carries an opaque rotating hash: exactly one live
// hash exists per session at any time, and each successful refresh swaps
// in a new one.  The row is deleted on logout or forced revocation; there
// is no soft-delete state.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the session.
//	Hash      – current opaque secret bound to the refresh token.
//	CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	Hash      string    // sessions.hash
	CreatedAt time.Time // sessions.created_at
}
