package model

import "time"

// Workspace is the top-level tenant grouping members, channels and
// conversations.  JoinCode is a 6-character lowercase code that lets a
// user join as a regular MEMBER; admins can regenerate it at any time.
type Workspace struct {
	ID        uint64    // workspaces.id
	Name      string    // workspaces.name
	JoinCode  string    // workspaces.join_code (unique)
	OwnerID   uint64    // workspaces.owner_id (creating user)
	CreatedAt time.Time // workspaces.created_at
	UpdatedAt time.Time // workspaces.updated_at
}
