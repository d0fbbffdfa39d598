// Package repository implements raw-SQL persistence for the service.
// Sentinel errors defined here let the service layer distinguish failure
// scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique email
// constraint on the users table.
var ErrEmailExists = errors.New("email already exists")

// ErrHashMismatch is returned by the session compare-and-set update when
// the stored hash no longer equals the expected one.  Exactly one of any
// set of concurrent rotations observes success; the rest observe this.
var ErrHashMismatch = errors.New("session hash mismatch")

// ErrDuplicateMember is returned when a user already holds a membership
// in the target workspace.
var ErrDuplicateMember = errors.New("member already exists")

// ErrLastAdmin is returned by the guarded membership delete when the row
// is the workspace's only remaining ADMIN.
var ErrLastAdmin = errors.New("last admin of workspace")
