package model

import "time"

// Conversation is a direct/group message destination defined by an
// explicit participant set.  CreatedBy references the member who created
// it and must itself appear among the participants.
type Conversation struct {
	ID          uint64    // conversations.id
	WorkspaceID uint64    // conversations.workspace_id
	CreatedBy   uint64    // conversations.created_by (member id)
	CreatedAt   time.Time // conversations.created_at
}

// ConversationParticipant attaches a member to a conversation.
type ConversationParticipant struct {
	ID             uint64    // conversation_participants.id
	ConversationID uint64    // conversation_participants.conversation_id
	MemberID       uint64    // conversation_participants.member_id
	CreatedAt      time.Time // conversation_participants.created_at
}
