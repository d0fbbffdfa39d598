package model

import "time"

// Channel is a workspace-scoped message destination.  Public channels are
// readable by every workspace member; private channels additionally
// require an explicit row in `channel_members`.  Names are normalized to
// lower case with spaces replaced by hyphens.
type Channel struct {
	ID          uint64    // channels.id
	WorkspaceID uint64    // channels.workspace_id
	Name        string    // channels.name
	IsPrivate   bool      // channels.is_private
	CreatedAt   time.Time // channels.created_at
	UpdatedAt   time.Time // channels.updated_at
}

// ChannelMember grants a workspace member access to a private channel.
type ChannelMember struct {
	ID        uint64    // channel_members.id
	ChannelID uint64    // channel_members.channel_id
	MemberID  uint64    // channel_members.member_id
	CreatedAt time.Time // channel_members.created_at
}
