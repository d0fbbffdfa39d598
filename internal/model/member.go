package model

import "time"

// Member roles within a workspace.  Every workspace must keep at least
// one ADMIN at all times; the services enforce this on leave and on role
// transfer.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Member is a user's membership record within one workspace.  The
// (UserID, WorkspaceID) pair is unique.  All resource-level authorization
// decisions are made against the member, not the user, so message
// authorship and conversation participation reference Member.ID.
type Member struct {
	ID          uint64    // members.id
	UserID      uint64    // members.user_id
	WorkspaceID uint64    // members.workspace_id
	Role        string    // members.role (ADMIN | MEMBER)
	CreatedAt   time.Time // members.created_at
}

// IsAdmin reports whether the member holds the ADMIN role.
func (m Member) IsAdmin() bool { return m.Role == RoleAdmin }
