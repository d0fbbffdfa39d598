package model

import "time"

// Message is authored by a workspace member and delivered to exactly one
// of a channel or a conversation.  ParentMessageID links thread replies;
// a reply created without an explicit target inherits the parent's
// conversation.  Only the authoring member may edit or delete a message.
type Message struct {
	ID              uint64    // messages.id
	WorkspaceID     uint64    // messages.workspace_id
	ChannelID       *uint64   // messages.channel_id (nullable)
	ConversationID  *uint64   // messages.conversation_id (nullable)
	MemberID        uint64    // messages.member_id (author)
	Content         string    // messages.content
	ParentMessageID *uint64   // messages.parent_message_id (nullable)
	CreatedAt       time.Time // messages.created_at
	UpdatedAt       time.Time // messages.updated_at
}
