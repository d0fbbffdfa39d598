package service

import (
	"context"
	"strings"

	"github.com/thanhng/workchat/internal/model"
)

// ChannelStore is the persistence contract of the channel service.
// *repository.ChannelRepo satisfies it (and its subset
// ChannelAccessStore used by the resolver).
type ChannelStore interface {
	ChannelAccessStore
	Create(ctx context.Context, workspaceID uint64, name string, isPrivate bool) (uint64, error)
	Update(ctx context.Context, id uint64, name string, isPrivate bool) error
	DeleteWithMessages(ctx context.Context, id uint64) error
	ListPublicByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Channel, error)
	AddChannelMember(ctx context.Context, channelID, memberID uint64) error
	RemoveChannelMember(ctx context.Context, channelID, memberID uint64) error
}

// ChannelService implements channel lifecycle and visibility management.
type ChannelService struct {
	channels ChannelStore
	messages MessageStore
	access   *Access
}

func NewChannelService(channels ChannelStore, messages MessageStore, access *Access) *ChannelService {
	return &ChannelService{channels: channels, messages: messages, access: access}
}

// NormalizeChannelName lowers the name and replaces spaces with hyphens.
func NormalizeChannelName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

// Create makes a channel in the workspace; admin only.
func (s *ChannelService) Create(ctx context.Context, workspaceID, userID uint64, name string, isPrivate bool) (uint64, error) {
	name = NormalizeChannelName(name)
	if name == "" {
		return 0, ErrInvalidInput
	}
	if _, err := s.access.AdminMember(ctx, workspaceID, userID); err != nil {
		return 0, err
	}
	return s.channels.Create(ctx, workspaceID, name, isPrivate)
}

// Update renames a channel or toggles its visibility; admin only.
func (s *ChannelService) Update(ctx context.Context, channelID, userID uint64, name string, isPrivate bool) error {
	name = NormalizeChannelName(name)
	if name == "" {
		return ErrInvalidInput
	}
	ch, _, err := s.adminForChannel(ctx, channelID, userID)
	if err != nil {
		return err
	}
	return s.channels.Update(ctx, ch.ID, name, isPrivate)
}

// Delete removes the channel and its messages; admin only.
func (s *ChannelService) Delete(ctx context.Context, channelID, userID uint64) error {
	ch, _, err := s.adminForChannel(ctx, channelID, userID)
	if err != nil {
		return err
	}
	return s.channels.DeleteWithMessages(ctx, ch.ID)
}

// ListPublic returns the public channels of a workspace; any member may
// list them, private channels stay invisible here.
func (s *ChannelService) ListPublic(ctx context.Context, workspaceID, userID uint64) ([]model.Channel, error) {
	if _, err := s.access.Member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.channels.ListPublicByWorkspace(ctx, workspaceID)
}

// Get returns a channel after the visibility gate.
func (s *ChannelService) Get(ctx context.Context, channelID, userID uint64) (model.Channel, error) {
	ch, _, err := s.access.Channel(ctx, channelID, userID)
	return ch, err
}

// AddMember grants a workspace member access to the channel; admin only.
func (s *ChannelService) AddMember(ctx context.Context, channelID, userID, memberID uint64) error {
	ch, _, err := s.adminForChannel(ctx, channelID, userID)
	if err != nil {
		return err
	}
	target, err := s.access.members.GetByID(ctx, memberID)
	if err != nil {
		return ErrNotFound
	}
	if target.WorkspaceID != ch.WorkspaceID {
		return ErrInvalidInput
	}
	return s.channels.AddChannelMember(ctx, ch.ID, memberID)
}

// RemoveMember revokes channel access; admin only.
func (s *ChannelService) RemoveMember(ctx context.Context, channelID, userID, memberID uint64) error {
	ch, _, err := s.adminForChannel(ctx, channelID, userID)
	if err != nil {
		return err
	}
	return s.channels.RemoveChannelMember(ctx, ch.ID, memberID)
}

// Messages returns one page of the channel's messages, newest first,
// after the visibility gate.
func (s *ChannelService) Messages(ctx context.Context, channelID, userID uint64, limit, offset int) ([]model.Message, error) {
	ch, _, err := s.access.Channel(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByChannel(ctx, ch.ID, limit, offset)
}

// adminForChannel loads the channel and requires the caller to be an
// ADMIN of its workspace.
func (s *ChannelService) adminForChannel(ctx context.Context, channelID, userID uint64) (model.Channel, model.Member, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return model.Channel{}, model.Member{}, mapNoRows(err)
	}
	member, err := s.access.AdminMember(ctx, ch.WorkspaceID, userID)
	if err != nil {
		return model.Channel{}, model.Member{}, err
	}
	return ch, member, nil
}
