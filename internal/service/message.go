package service

import (
	"context"

	"github.com/thanhng/workchat/internal/model"
)

// MessageStore is the persistence contract of the message service.
// *repository.MessageRepo satisfies it.
type MessageStore interface {
	Create(ctx context.Context, m model.Message) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Message, error)
	UpdateContent(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
	ListByChannel(ctx context.Context, channelID uint64, limit, offset int) ([]model.Message, error)
	ListByConversation(ctx context.Context, conversationID uint64, limit, offset int) ([]model.Message, error)
	CountByConversation(ctx context.Context, conversationID uint64) (int, error)
}

// MessageService implements message authoring.  Delivery targets exactly
// one of a channel (visibility gated) or a conversation (participation
// gated); mutation is restricted to the author.
type MessageService struct {
	messages MessageStore
	access   *Access
}

func NewMessageService(messages MessageStore, access *Access) *MessageService {
	return &MessageService{messages: messages, access: access}
}

// CreateMessageInput names the delivery target and content of a new
// message.  ChannelID and ConversationID are mutually exclusive; a reply
// may give only ParentMessageID and inherits the parent's conversation.
type CreateMessageInput struct {
	WorkspaceID     uint64
	ChannelID       *uint64
	ConversationID  *uint64
	Content         string
	ParentMessageID *uint64
}

// Create authors a message after resolving and gating its target.
func (s *MessageService) Create(ctx context.Context, userID uint64, in CreateMessageInput) (uint64, error) {
	if in.Content == "" {
		return 0, ErrInvalidInput
	}
	if in.ChannelID != nil && in.ConversationID != nil {
		return 0, ErrInvalidInput
	}

	// A thread reply given without an explicit target lands in the
	// parent's conversation.
	if in.ChannelID == nil && in.ConversationID == nil && in.ParentMessageID != nil {
		parent, err := s.messages.GetByID(ctx, *in.ParentMessageID)
		if err != nil {
			return 0, mapNoRows(err)
		}
		if parent.ConversationID != nil {
			in.ConversationID = parent.ConversationID
		}
	}

	var member model.Member
	switch {
	case in.ChannelID != nil:
		ch, m, err := s.access.Channel(ctx, *in.ChannelID, userID)
		if err != nil {
			return 0, err
		}
		if ch.WorkspaceID != in.WorkspaceID {
			return 0, ErrInvalidInput
		}
		member = m
	case in.ConversationID != nil:
		conv, m, err := s.access.Conversation(ctx, *in.ConversationID, userID)
		if err != nil {
			return 0, err
		}
		if conv.WorkspaceID != in.WorkspaceID {
			return 0, ErrInvalidInput
		}
		member = m
	default:
		return 0, ErrInvalidInput
	}

	return s.messages.Create(ctx, model.Message{
		WorkspaceID:     in.WorkspaceID,
		ChannelID:       in.ChannelID,
		ConversationID:  in.ConversationID,
		MemberID:        member.ID,
		Content:         in.Content,
		ParentMessageID: in.ParentMessageID,
	})
}

// Get returns a message; the caller must be a member of its workspace.
func (s *MessageService) Get(ctx context.Context, messageID, userID uint64) (model.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return model.Message{}, mapNoRows(err)
	}
	if _, err := s.access.Member(ctx, msg.WorkspaceID, userID); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// Update edits a message's content; author only.
func (s *MessageService) Update(ctx context.Context, messageID, userID uint64, content string) error {
	if content == "" {
		return ErrInvalidInput
	}
	msg, err := s.ownerGate(ctx, messageID, userID)
	if err != nil {
		return err
	}
	return s.messages.UpdateContent(ctx, msg.ID, content)
}

// Delete removes a message; author only.
func (s *MessageService) Delete(ctx context.Context, messageID, userID uint64) error {
	msg, err := s.ownerGate(ctx, messageID, userID)
	if err != nil {
		return err
	}
	return s.messages.Delete(ctx, msg.ID)
}

// ownerGate loads the message, resolves the caller's membership in its
// workspace and requires authorship.
func (s *MessageService) ownerGate(ctx context.Context, messageID, userID uint64) (model.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return model.Message{}, mapNoRows(err)
	}
	member, err := s.access.Member(ctx, msg.WorkspaceID, userID)
	if err != nil {
		return model.Message{}, err
	}
	if err := s.access.RequireMessageOwner(member, msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}
