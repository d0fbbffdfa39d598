package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Accounts start inactive and are activated by confirming the
// email address.  PasswordHash is a bcrypt digest; it may be empty for
// accounts that were provisioned without a password, in which case login
// must fail closed.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address (stored lower case).
//	Username     – display handle shown inside workspaces.
//	PasswordHash – bcrypt hashed password, empty when no password is set.
//	Active       – whether the email address has been confirmed.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Username     string    // users.username
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	Active       bool      // users.active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
