package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thanhng/workchat/internal/model"
	"github.com/thanhng/workchat/internal/repository"
	"github.com/thanhng/workchat/internal/utils"
)

// WorkspaceStore is the persistence contract of the workspace service.
// *repository.WorkspaceRepo satisfies it.
type WorkspaceStore interface {
	CreateWithAdmin(ctx context.Context, name, joinCode string, ownerID uint64) (model.Workspace, error)
	GetByID(ctx context.Context, id uint64) (model.Workspace, error)
	GetByJoinCode(ctx context.Context, joinCode string) (model.Workspace, error)
	UpdateName(ctx context.Context, id uint64, name string) error
	UpdateJoinCode(ctx context.Context, id uint64, joinCode string) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Workspace, error)
	DeleteCascade(ctx context.Context, id uint64) error
}

// WorkspaceService implements workspace lifecycle and membership
// management.  Every operation resolves the caller's membership through
// the access resolver before touching data.
type WorkspaceService struct {
	workspaces WorkspaceStore
	members    MemberStore
	access     *Access
}

func NewWorkspaceService(workspaces WorkspaceStore, members MemberStore, access *Access) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces, members: members, access: access}
}

// WorkspaceInfo is returned by Info: the name plus whether the caller is
// a member.  Non-members may look a workspace up (e.g. from an invite
// link) without learning anything beyond its name.
type WorkspaceInfo struct {
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

// Create makes a workspace with the caller as its ADMIN and a default
// "general" channel; the three inserts are a single persistence
// transaction.
func (s *WorkspaceService) Create(ctx context.Context, userID uint64, name string) (model.Workspace, error) {
	if name == "" {
		return model.Workspace{}, ErrInvalidInput
	}
	joinCode, err := utils.NewJoinCode()
	if err != nil {
		return model.Workspace{}, err
	}
	return s.workspaces.CreateWithAdmin(ctx, name, joinCode, userID)
}

// ListForUser returns the workspaces the user belongs to.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID uint64) ([]model.Workspace, error) {
	return s.workspaces.ListByUser(ctx, userID)
}

// Info returns the workspace name and the caller's membership status.
func (s *WorkspaceService) Info(ctx context.Context, workspaceID, userID uint64) (WorkspaceInfo, error) {
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err == sql.ErrNoRows {
		return WorkspaceInfo{}, ErrNotFound
	}
	if err != nil {
		return WorkspaceInfo{}, err
	}
	_, err = s.access.Member(ctx, workspaceID, userID)
	if err != nil && !errors.Is(err, ErrNotAMember) {
		return WorkspaceInfo{}, err
	}
	return WorkspaceInfo{Name: ws.Name, IsMember: err == nil}, nil
}

// Join adds the caller as a MEMBER via join code.  Joining a workspace
// twice is a conflict, not a no-op.
func (s *WorkspaceService) Join(ctx context.Context, userID uint64, joinCode string) (model.Member, error) {
	ws, err := s.workspaces.GetByJoinCode(ctx, joinCode)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrNotFound
	}
	if err != nil {
		return model.Member{}, err
	}
	memberID, err := s.members.Create(ctx, userID, ws.ID, model.RoleMember)
	if errors.Is(err, repository.ErrDuplicateMember) {
		return model.Member{}, ErrAlreadyExists
	}
	if err != nil {
		return model.Member{}, err
	}
	return model.Member{ID: memberID, UserID: userID, WorkspaceID: ws.ID, Role: model.RoleMember}, nil
}

// NewJoinCode regenerates the join code; admin only.
func (s *WorkspaceService) NewJoinCode(ctx context.Context, workspaceID, userID uint64) (string, error) {
	if _, err := s.access.AdminMember(ctx, workspaceID, userID); err != nil {
		return "", err
	}
	joinCode, err := utils.NewJoinCode()
	if err != nil {
		return "", err
	}
	if err := s.workspaces.UpdateJoinCode(ctx, workspaceID, joinCode); err != nil {
		return "", err
	}
	return joinCode, nil
}

// Rename changes the workspace name; admin only.
func (s *WorkspaceService) Rename(ctx context.Context, workspaceID, userID uint64, name string) error {
	if name == "" {
		return ErrInvalidInput
	}
	if _, err := s.workspaces.GetByID(ctx, workspaceID); err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if _, err := s.access.AdminMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.workspaces.UpdateName(ctx, workspaceID, name)
}

// Delete removes the workspace and all dependent records; admin only.
// The cascade is a single persistence transaction.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, userID uint64) error {
	if _, err := s.access.AdminMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.workspaces.DeleteCascade(ctx, workspaceID)
}

// Leave removes the caller's membership.  The sole ADMIN of a workspace
// cannot leave; the admin count and the delete are one atomic unit in
// the store, so two admins leaving at once cannot both slip past the
// check.
func (s *WorkspaceService) Leave(ctx context.Context, workspaceID, userID uint64) error {
	member, err := s.access.Member(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	err = s.members.DeleteGuardingLastAdmin(ctx, member.ID, workspaceID)
	if errors.Is(err, repository.ErrLastAdmin) {
		return ErrLastAdminCannotLeave
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// TransferAdminRole demotes the calling ADMIN to MEMBER and promotes the
// target member to ADMIN as one atomic unit.
func (s *WorkspaceService) TransferAdminRole(ctx context.Context, workspaceID, userID, newAdminMemberID uint64) error {
	caller, err := s.access.AdminMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	target, err := s.members.GetByID(ctx, newAdminMemberID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if target.WorkspaceID != workspaceID || target.ID == caller.ID {
		return ErrInvalidInput
	}
	err = s.members.TransferRole(ctx, caller.ID, target.ID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// Members lists the workspace's memberships; any member may look.
func (s *WorkspaceService) Members(ctx context.Context, workspaceID, userID uint64) ([]model.Member, error) {
	if _, err := s.access.Member(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.members.ListByWorkspace(ctx, workspaceID)
}

// AddMembers bulk-adds users as MEMBERs.  Any caller that is a member
// may invite; duplicates are conflicts.
func (s *WorkspaceService) AddMembers(ctx context.Context, workspaceID, userID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrInvalidInput
	}
	if _, err := s.access.Member(ctx, workspaceID, userID); err != nil {
		return err
	}
	err := s.members.CreateBulk(ctx, workspaceID, userIDs)
	if errors.Is(err, repository.ErrDuplicateMember) {
		return ErrAlreadyExists
	}
	return err
}
