package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhng/workchat/internal/model"
)

type workspaceFixture struct {
	svc        *WorkspaceService
	members    *fakeMemberStore
	workspaces *fakeWorkspaceStore
}

func newWorkspaceFixture() *workspaceFixture {
	members := newFakeMemberStore()
	workspaces := newFakeWorkspaceStore(members)
	access := NewAccess(members, newFakeChannelStore(), newFakeConversationStore())
	return &workspaceFixture{
		svc:        NewWorkspaceService(workspaces, members, access),
		members:    members,
		workspaces: workspaces,
	}
}

func TestWorkspace_Create(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()

	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", ws.Name)
	assert.Len(t, ws.JoinCode, 6)

	// The creator comes out as the workspace ADMIN.
	m, err := f.members.GetByUserAndWorkspace(ctx, 10, ws.ID)
	require.NoError(t, err)
	assert.True(t, m.IsAdmin())

	_, err = f.svc.Create(ctx, 10, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorkspace_JoinByCode(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)

	m, err := f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, m.Role)

	// Joining twice is a conflict, not a no-op.
	_, err = f.svc.Join(ctx, 11, ws.JoinCode)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = f.svc.Join(ctx, 12, "zzzzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspace_Info(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)

	info, err := f.svc.Info(ctx, ws.ID, 10)
	require.NoError(t, err)
	assert.True(t, info.IsMember)

	info, err = f.svc.Info(ctx, ws.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", info.Name)
	assert.False(t, info.IsMember)

	_, err = f.svc.Info(ctx, 999, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkspace_NewJoinCode_AdminOnly(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)

	code, err := f.svc.NewJoinCode(ctx, ws.ID, 10)
	require.NoError(t, err)
	assert.NotEqual(t, ws.JoinCode, code)

	// The old code stops working once rotated.
	_, err = f.svc.Join(ctx, 12, ws.JoinCode)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.NewJoinCode(ctx, ws.ID, 11)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestWorkspace_Rename(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)

	require.NoError(t, f.svc.Rename(ctx, ws.ID, 10, "Platform"))
	got, err := f.workspaces.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform", got.Name)

	assert.ErrorIs(t, f.svc.Rename(ctx, ws.ID, 11, "X"), ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Rename(ctx, ws.ID, 10, ""), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.Rename(ctx, 999, 10, "X"), ErrNotFound)
}

func TestWorkspace_Delete_AdminOnly(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, ws.ID, 11), ErrPermissionDenied)

	require.NoError(t, f.svc.Delete(ctx, ws.ID, 10))
	_, err = f.workspaces.GetByID(ctx, ws.ID)
	assert.Error(t, err)
}

// The sole ADMIN of a workspace cannot leave; a regular member can, and
// once a second admin exists the original admin may go too.
func TestWorkspace_Leave_LastAdminProtected(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	member, err := f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Leave(ctx, ws.ID, 10), ErrLastAdminCannotLeave)

	require.NoError(t, f.svc.Leave(ctx, ws.ID, 11))
	_, err = f.members.GetByUserAndWorkspace(ctx, 11, ws.ID)
	assert.Error(t, err)

	// Hand over the admin role, then the original admin may leave.
	member, err = f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)
	require.NoError(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, member.ID))
	require.NoError(t, f.svc.Leave(ctx, ws.ID, 10))
}

// Two admins leaving at the same time must not both get through the
// last-admin check; the workspace keeps at least one ADMIN.
func TestWorkspace_Leave_ConcurrentAdminsKeepOne(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	f.members.add(11, ws.ID, model.RoleAdmin)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []uint64{10, 11} {
		wg.Add(1)
		go func(i int, uid uint64) {
			defer wg.Done()
			errs[i] = f.svc.Leave(ctx, ws.ID, uid)
		}(i, uid)
	}
	wg.Wait()

	left := 0
	for _, err := range errs {
		if err == nil {
			left++
		} else {
			assert.ErrorIs(t, err, ErrLastAdminCannotLeave)
		}
	}
	assert.Equal(t, 1, left)

	members, err := f.members.ListByWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	admins := 0
	for _, m := range members {
		if m.IsAdmin() {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestWorkspace_TransferAdminRole(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	target, err := f.svc.Join(ctx, 11, ws.JoinCode)
	require.NoError(t, err)

	require.NoError(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, target.ID))

	// Both sides changed atomically.
	caller, err := f.members.GetByUserAndWorkspace(ctx, 10, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, caller.Role)
	promoted, err := f.members.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)

	// The demoted caller is no longer allowed to transfer.
	assert.ErrorIs(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, target.ID), ErrPermissionDenied)
}

func TestWorkspace_TransferAdminRole_Validation(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)
	admin, err := f.members.GetByUserAndWorkspace(ctx, 10, ws.ID)
	require.NoError(t, err)

	other, err := f.svc.Create(ctx, 11, "Other")
	require.NoError(t, err)
	foreign, err := f.members.GetByUserAndWorkspace(ctx, 11, other.ID)
	require.NoError(t, err)

	// Unknown target, self-transfer and cross-workspace targets are rejected.
	assert.ErrorIs(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, 999), ErrNotFound)
	assert.ErrorIs(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, admin.ID), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.TransferAdminRole(ctx, ws.ID, 10, foreign.ID), ErrInvalidInput)
}

func TestWorkspace_MembersAndAddMembers(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	ws, err := f.svc.Create(ctx, 10, "Engineering")
	require.NoError(t, err)

	require.NoError(t, f.svc.AddMembers(ctx, ws.ID, 10, []uint64{11, 12}))
	list, err := f.svc.Members(ctx, ws.ID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	assert.ErrorIs(t, f.svc.AddMembers(ctx, ws.ID, 10, []uint64{11}), ErrAlreadyExists)
	assert.ErrorIs(t, f.svc.AddMembers(ctx, ws.ID, 10, nil), ErrInvalidInput)
	_, err = f.svc.Members(ctx, ws.ID, 99)
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestWorkspace_ListForUser(t *testing.T) {
	t.Parallel()
	f := newWorkspaceFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, 10, "A")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 11, "B")
	require.NoError(t, err)

	list, err := f.svc.ListForUser(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}
