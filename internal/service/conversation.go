package service

import (
	"context"

	"github.com/thanhng/workchat/internal/model"
)

// ConversationStore is the persistence contract of the conversation
// service.  *repository.ConversationRepo satisfies it.
type ConversationStore interface {
	ConversationAccessStore
	CreateWithParticipants(ctx context.Context, workspaceID, createdBy uint64, memberIDs []uint64) (uint64, error)
	ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Conversation, error)
	Participants(ctx context.Context, conversationID uint64) ([]model.ConversationParticipant, error)
	AddParticipant(ctx context.Context, conversationID, memberID uint64) error
	RemoveParticipant(ctx context.Context, conversationID, memberID uint64) error
	Delete(ctx context.Context, id uint64) error
}

// ConversationService implements direct/group conversation management.
type ConversationService struct {
	conversations ConversationStore
	messages      MessageStore
	access        *Access
}

func NewConversationService(conversations ConversationStore, messages MessageStore, access *Access) *ConversationService {
	return &ConversationService{conversations: conversations, messages: messages, access: access}
}

// Create starts a conversation.  The caller's member record is always
// part of the participant set, and every participant must belong to the
// workspace; the insert is one persistence transaction.
func (s *ConversationService) Create(ctx context.Context, workspaceID, userID uint64, participantIDs []uint64) (uint64, error) {
	creator, err := s.access.Member(ctx, workspaceID, userID)
	if err != nil {
		return 0, err
	}
	// Dedup the requested set; the creator is always included and repeated
	// IDs must not skew the membership count or double-insert rows.
	seen := map[uint64]struct{}{creator.ID: {}}
	all := []uint64{creator.ID}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		all = append(all, id)
	}
	count, err := s.access.members.CountByWorkspaceAndIDs(ctx, workspaceID, all)
	if err != nil {
		return 0, err
	}
	if count != len(all) {
		return 0, ErrNotFound // one or more participants are not workspace members
	}
	return s.conversations.CreateWithParticipants(ctx, workspaceID, creator.ID, all)
}

// ListByWorkspace returns the workspace's conversations; member only.
func (s *ConversationService) ListByWorkspace(ctx context.Context, workspaceID, userID uint64) ([]model.Conversation, error) {
	if _, err := s.access.Member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.conversations.ListByWorkspace(ctx, workspaceID)
}

// Get returns a conversation after the participation gate.
func (s *ConversationService) Get(ctx context.Context, conversationID, userID uint64) (model.Conversation, error) {
	conv, _, err := s.access.Conversation(ctx, conversationID, userID)
	return conv, err
}

// Participants lists the conversation's participant rows; participation
// gated.
func (s *ConversationService) Participants(ctx context.Context, conversationID, userID uint64) ([]model.ConversationParticipant, error) {
	conv, _, err := s.access.Conversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	return s.conversations.Participants(ctx, conv.ID)
}

// AddParticipant attaches another workspace member; only existing
// participants may extend the set.
func (s *ConversationService) AddParticipant(ctx context.Context, conversationID, userID, memberID uint64) error {
	conv, _, err := s.access.Conversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	target, err := s.access.members.GetByID(ctx, memberID)
	if err != nil {
		return ErrNotFound
	}
	if target.WorkspaceID != conv.WorkspaceID {
		return ErrInvalidInput
	}
	already, err := s.conversations.IsParticipant(ctx, conv.ID, memberID)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyExists
	}
	return s.conversations.AddParticipant(ctx, conv.ID, memberID)
}

// RemoveParticipant detaches a member; only the conversation's creator
// may do this.
func (s *ConversationService) RemoveParticipant(ctx context.Context, conversationID, userID, memberID uint64) error {
	conv, actor, err := s.access.Conversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if actor.ID != conv.CreatedBy {
		return ErrPermissionDenied
	}
	present, err := s.conversations.IsParticipant(ctx, conv.ID, memberID)
	if err != nil {
		return err
	}
	if !present {
		return ErrNotFound
	}
	return s.conversations.RemoveParticipant(ctx, conv.ID, memberID)
}

// Delete removes the conversation with its participants and messages;
// creator only.
func (s *ConversationService) Delete(ctx context.Context, conversationID, userID uint64) error {
	conv, actor, err := s.access.Conversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if actor.ID != conv.CreatedBy {
		return ErrPermissionDenied
	}
	return s.conversations.Delete(ctx, conv.ID)
}

// MessagePage bundles one page of conversation messages with pagination
// metadata.
type MessagePage struct {
	Messages []model.Message `json:"messages"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// Messages returns one page of the conversation's messages in
// chronological order; participation gated.
func (s *ConversationService) Messages(ctx context.Context, conversationID, userID uint64, limit, offset int) (MessagePage, error) {
	conv, _, err := s.access.Conversation(ctx, conversationID, userID)
	if err != nil {
		return MessagePage{}, err
	}
	msgs, err := s.messages.ListByConversation(ctx, conv.ID, limit, offset)
	if err != nil {
		return MessagePage{}, err
	}
	total, err := s.messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		return MessagePage{}, err
	}
	return MessagePage{Messages: msgs, Total: total, Limit: limit, Offset: offset}, nil
}
