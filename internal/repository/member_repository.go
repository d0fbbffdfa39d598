package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/thanhng/workchat/internal/model"
)

// MemberRepo persists workspace memberships.  Role transfer and the
// guarded leave each run as a single transaction so a workspace can
// never be observed without an ADMIN.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

const memberColumns = "id,user_id,workspace_id,role,created_at"

// Create inserts a membership with the given role and returns its ID.
func (r *MemberRepo) Create(ctx context.Context, userID, workspaceID uint64, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO members (user_id, workspace_id, role) VALUES (?,?,?)",
		userID, workspaceID, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateMember
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateBulk inserts several MEMBER-role memberships in one statement.
func (r *MemberRepo) CreateBulk(ctx context.Context, workspaceID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := "INSERT INTO members (user_id, workspace_id, role) VALUES "
	args := make([]any, 0, len(userIDs)*3)
	for i, uid := range userIDs {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?)"
		args = append(args, uid, workspaceID, model.RoleMember)
	}
	_, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrDuplicateMember
	}
	return err
}

// GetByUserAndWorkspace resolves the membership for (userID, workspaceID).
func (r *MemberRepo) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uint64) (model.Member, error) {
	return r.scanOne(ctx,
		"SELECT "+memberColumns+" FROM members WHERE user_id=? AND workspace_id=? LIMIT 1",
		userID, workspaceID)
}

// GetByID fetches a membership by its id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	return r.scanOne(ctx, "SELECT "+memberColumns+" FROM members WHERE id=? LIMIT 1", id)
}

// DeleteGuardingLastAdmin removes a membership unless the row is the
// workspace's only remaining ADMIN, in which case it returns ErrLastAdmin.
// The role read, the admin count and the delete run in one transaction
// with the admin rows locked, so two concurrent leaves serialize and at
// least one ADMIN always survives.
func (r *MemberRepo) DeleteGuardingLastAdmin(ctx context.Context, id, workspaceID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var role string
	err = tx.QueryRowContext(ctx,
		"SELECT role FROM members WHERE id=? AND workspace_id=? FOR UPDATE", id, workspaceID).Scan(&role)
	if err != nil {
		return err
	}
	if role == model.RoleAdmin {
		var admins int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM (SELECT id FROM members WHERE workspace_id=? AND role=? FOR UPDATE) t",
			workspaceID, model.RoleAdmin).Scan(&admins)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// CountByWorkspaceAndIDs counts how many of the given member ids belong
// to the workspace.  Used to validate conversation participant sets.
func (r *MemberRepo) CountByWorkspaceAndIDs(ctx context.Context, workspaceID uint64, memberIDs []uint64) (int, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	query := "SELECT COUNT(*) FROM members WHERE workspace_id=? AND id IN (" +
		strings.TrimSuffix(strings.Repeat("?,", len(memberIDs)), ",") + ")"
	args := make([]any, 0, len(memberIDs)+1)
	args = append(args, workspaceID)
	for _, id := range memberIDs {
		args = append(args, id)
	}
	var n int
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// ListByWorkspace returns all memberships of a workspace.
func (r *MemberRepo) ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Member, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE workspace_id=? ORDER BY id", workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TransferRole demotes fromMemberID to MEMBER and promotes toMemberID to
// ADMIN inside one transaction.  Both updates must touch exactly one row;
// otherwise everything rolls back, so a partial transfer can never leave
// the workspace with zero or two admins.
func (r *MemberRepo) TransferRole(ctx context.Context, fromMemberID, toMemberID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range []struct {
		role string
		id   uint64
	}{
		{model.RoleMember, fromMemberID},
		{model.RoleAdmin, toMemberID},
	} {
		res, err := tx.ExecContext(ctx, "UPDATE members SET role=? WHERE id=?", step.role, step.id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
	}
	return tx.Commit()
}

// Delete removes a membership.
func (r *MemberRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM members WHERE id=?", id)
	return err
}

func (r *MemberRepo) scanOne(ctx context.Context, query string, args ...any) (model.Member, error) {
	var m model.Member
	err := r.DB.QueryRowContext(ctx, query, args...).
		Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt)
	return m, err
}
