package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/thanhng/workchat/internal/model"
)

// WorkspaceRepo persists workspaces.  Multi-step operations (create with
// initial admin, cascade delete) run inside a transaction owned by this
// layer so the service never performs read-modify-write across calls.
type WorkspaceRepo struct{ DB *sql.DB }

func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo { return &WorkspaceRepo{DB: db} }

const workspaceColumns = "id,name,join_code,owner_id,created_at,updated_at"

// CreateWithAdmin creates the workspace, its ADMIN membership for the
// creating user and the default "general" channel in one transaction.
// All three commit or none do, which is what keeps the one-admin-minimum
// invariant true from the first moment the workspace exists.
func (r *WorkspaceRepo) CreateWithAdmin(ctx context.Context, name, joinCode string, ownerID uint64) (model.Workspace, error) {
	var ws model.Workspace
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ws, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO workspaces (name, join_code, owner_id) VALUES (?,?,?)",
		name, joinCode, ownerID)
	if err != nil {
		return ws, err
	}
	wsID, err := res.LastInsertId()
	if err != nil {
		return ws, err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO members (user_id, workspace_id, role) VALUES (?,?,?)",
		ownerID, wsID, model.RoleAdmin); err != nil {
		return ws, err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO channels (workspace_id, name, is_private) VALUES (?,?,FALSE)",
		wsID, "general"); err != nil {
		return ws, err
	}
	if err = tx.QueryRowContext(ctx,
		"SELECT "+workspaceColumns+" FROM workspaces WHERE id=?", wsID).
		Scan(&ws.ID, &ws.Name, &ws.JoinCode, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return ws, err
	}
	return ws, tx.Commit()
}

// GetByID fetches a workspace by id.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id uint64) (model.Workspace, error) {
	return r.scanOne(ctx, "SELECT "+workspaceColumns+" FROM workspaces WHERE id=? LIMIT 1", id)
}

// GetByJoinCode fetches a workspace by its (normalized) join code.
func (r *WorkspaceRepo) GetByJoinCode(ctx context.Context, joinCode string) (model.Workspace, error) {
	joinCode = strings.ToLower(strings.TrimSpace(joinCode))
	return r.scanOne(ctx, "SELECT "+workspaceColumns+" FROM workspaces WHERE join_code=? LIMIT 1", joinCode)
}

// UpdateName renames a workspace.
func (r *WorkspaceRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE workspaces SET name=?, updated_at=NOW() WHERE id=?", name, id)
	return err
}

// UpdateJoinCode replaces the workspace join code.
func (r *WorkspaceRepo) UpdateJoinCode(ctx context.Context, id uint64, joinCode string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE workspaces SET join_code=?, updated_at=NOW() WHERE id=?", joinCode, id)
	return err
}

// ListByUser returns the workspaces in which the user holds a membership.
func (r *WorkspaceRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Workspace, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT w.id,w.name,w.join_code,w.owner_id,w.created_at,w.updated_at
		 FROM workspaces w JOIN members m ON m.workspace_id=w.id
		 WHERE m.user_id=? ORDER BY w.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.JoinCode, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// DeleteCascade removes the workspace and every dependent record in one
// transaction.  Deletion order mirrors the foreign-key chain: messages,
// conversation participants, conversations, channel members, channels,
// members, then the workspace itself.
func (r *WorkspaceRepo) DeleteCascade(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"DELETE FROM messages WHERE workspace_id=?",
		"DELETE FROM conversation_participants WHERE conversation_id IN (SELECT id FROM conversations WHERE workspace_id=?)",
		"DELETE FROM conversations WHERE workspace_id=?",
		"DELETE FROM channel_members WHERE channel_id IN (SELECT id FROM channels WHERE workspace_id=?)",
		"DELETE FROM channels WHERE workspace_id=?",
		"DELETE FROM members WHERE workspace_id=?",
		"DELETE FROM workspaces WHERE id=?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *WorkspaceRepo) scanOne(ctx context.Context, query string, args ...any) (model.Workspace, error) {
	var ws model.Workspace
	err := r.DB.QueryRowContext(ctx, query, args...).
		Scan(&ws.ID, &ws.Name, &ws.JoinCode, &ws.OwnerID, &ws.CreatedAt, &ws.UpdatedAt)
	return ws, err
}
