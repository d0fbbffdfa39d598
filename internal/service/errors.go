// Package service holds the business logic of the messaging backend:
// authentication and session lifecycle, the layered authorization
// resolver, and the workspace/channel/conversation/message operations.
// All expected failure conditions are sentinel errors defined here so the
// HTTP layer can map them without inspecting driver errors; anything else
// that escapes a service is an internal failure and must propagate as-is.
package service

import (
	"database/sql"
	"errors"
)

var (
	// ErrInvalidCredentials covers both a wrong password and an account
	// with no password set; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountNotActivated is returned on login before the email
	// address has been confirmed.
	ErrAccountNotActivated = errors.New("account not activated")

	// ErrAlreadyActive is returned when a confirmation token is replayed
	// against an already-activated account.
	ErrAlreadyActive = errors.New("account already active")

	// ErrAlreadyExists is returned when a unique resource (email,
	// membership) is created twice.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrTokenInvalid is returned for malformed, expired, or
	// wrong-class tokens.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrSessionNotFound is returned when a session was revoked or never
	// existed.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionHashMismatch is returned when a refresh presents a stale
	// session hash; repeated occurrences indicate token replay.
	ErrSessionHashMismatch = errors.New("session hash mismatch")

	// ErrNotAMember is returned when the acting user holds no membership
	// in the target workspace.
	ErrNotAMember = errors.New("not a workspace member")

	// ErrPermissionDenied is returned when membership exists but the
	// role, visibility, participation or ownership gate fails.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLastAdminCannotLeave blocks the sole ADMIN from leaving a
	// workspace.
	ErrLastAdminCannotLeave = errors.New("last admin cannot leave workspace")

	// ErrNotFound is returned when a referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned for requests missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// mapNoRows translates a missing-row lookup into the taxonomy; other
// errors pass through untouched so internal failures are never disguised
// as auth errors.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
