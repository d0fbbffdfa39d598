package service

import (
	"context"
	"database/sql"

	"github.com/thanhng/workchat/internal/model"
)

// MemberStore is the membership lookup contract shared by the access
// resolver and the workspace service.  *repository.MemberRepo satisfies
// it.
type MemberStore interface {
	Create(ctx context.Context, userID, workspaceID uint64, role string) (uint64, error)
	CreateBulk(ctx context.Context, workspaceID uint64, userIDs []uint64) error
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uint64) (model.Member, error)
	GetByID(ctx context.Context, id uint64) (model.Member, error)
	CountByWorkspaceAndIDs(ctx context.Context, workspaceID uint64, memberIDs []uint64) (int, error)
	ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Member, error)
	TransferRole(ctx context.Context, fromMemberID, toMemberID uint64) error
	Delete(ctx context.Context, id uint64) error
	DeleteGuardingLastAdmin(ctx context.Context, id, workspaceID uint64) error
}

// ChannelAccessStore is the slice of the channel repository the resolver
// needs for the visibility gate.
type ChannelAccessStore interface {
	GetByID(ctx context.Context, id uint64) (model.Channel, error)
	IsChannelMember(ctx context.Context, channelID, memberID uint64) (bool, error)
}

// ConversationAccessStore is the slice of the conversation repository the
// resolver needs for the participation gate.
type ConversationAccessStore interface {
	GetByID(ctx context.Context, id uint64) (model.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, memberID uint64) (bool, error)
}

// Access is the single authorization policy applied before every
// protected domain operation.  Resolution is layered and short-circuits
// with a distinct error per gate: workspace membership (ErrNotAMember),
// role (ErrPermissionDenied), channel visibility, conversation
// participation and message ownership (all ErrPermissionDenied).
// Membership is resolved fresh from persistence on every call; nothing
// here is cached.
type Access struct {
	members       MemberStore
	channels      ChannelAccessStore
	conversations ConversationAccessStore
}

func NewAccess(members MemberStore, channels ChannelAccessStore, conversations ConversationAccessStore) *Access {
	return &Access{members: members, channels: channels, conversations: conversations}
}

// Member resolves the acting user's membership in a workspace.
func (a *Access) Member(ctx context.Context, workspaceID, userID uint64) (model.Member, error) {
	m, err := a.members.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrNotAMember
	}
	return m, err
}

// RequireRole passes only when the member holds the given role.
func (a *Access) RequireRole(member model.Member, role string) error {
	if member.Role != role {
		return ErrPermissionDenied
	}
	return nil
}

// AdminMember resolves membership and requires the ADMIN role in one
// step; admin-only mutations call this first.
func (a *Access) AdminMember(ctx context.Context, workspaceID, userID uint64) (model.Member, error) {
	m, err := a.Member(ctx, workspaceID, userID)
	if err != nil {
		return model.Member{}, err
	}
	if err := a.RequireRole(m, model.RoleAdmin); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// Channel applies the visibility gate: the user must be a workspace
// member, and for private channels additionally hold an explicit
// channel-membership.  It returns the channel and the resolved member so
// callers do not repeat the lookups.
func (a *Access) Channel(ctx context.Context, channelID, userID uint64) (model.Channel, model.Member, error) {
	ch, err := a.channels.GetByID(ctx, channelID)
	if err == sql.ErrNoRows {
		return model.Channel{}, model.Member{}, ErrNotFound
	}
	if err != nil {
		return model.Channel{}, model.Member{}, err
	}
	member, err := a.Member(ctx, ch.WorkspaceID, userID)
	if err != nil {
		return model.Channel{}, model.Member{}, err
	}
	if ch.IsPrivate {
		ok, err := a.channels.IsChannelMember(ctx, ch.ID, member.ID)
		if err != nil {
			return model.Channel{}, model.Member{}, err
		}
		if !ok {
			return model.Channel{}, model.Member{}, ErrPermissionDenied
		}
	}
	return ch, member, nil
}

// Conversation applies the participation gate: the acting member must
// appear in the conversation's participant set.
func (a *Access) Conversation(ctx context.Context, conversationID, userID uint64) (model.Conversation, model.Member, error) {
	conv, err := a.conversations.GetByID(ctx, conversationID)
	if err == sql.ErrNoRows {
		return model.Conversation{}, model.Member{}, ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, model.Member{}, err
	}
	member, err := a.Member(ctx, conv.WorkspaceID, userID)
	if err != nil {
		return model.Conversation{}, model.Member{}, err
	}
	ok, err := a.conversations.IsParticipant(ctx, conv.ID, member.ID)
	if err != nil {
		return model.Conversation{}, model.Member{}, err
	}
	if !ok {
		return model.Conversation{}, model.Member{}, ErrPermissionDenied
	}
	return conv, member, nil
}

// RequireMessageOwner passes only when the acting member authored the
// message; edit and delete go through this gate.
func (a *Access) RequireMessageOwner(member model.Member, msg model.Message) error {
	if member.ID != msg.MemberID {
		return ErrPermissionDenied
	}
	return nil
}
