package repository

import (
	"context"
	"database/sql"

	"github.com/thanhng/workchat/internal/model"
)

// ChannelRepo persists channels and the membership rows gating private
// channels.
type ChannelRepo struct{ DB *sql.DB }

func NewChannelRepo(db *sql.DB) *ChannelRepo { return &ChannelRepo{DB: db} }

const channelColumns = "id,workspace_id,name,is_private,created_at,updated_at"

// Create inserts a channel and returns its ID.  The name is expected to
// be normalized by the service before it reaches this layer.
func (r *ChannelRepo) Create(ctx context.Context, workspaceID uint64, name string, isPrivate bool) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO channels (workspace_id, name, is_private) VALUES (?,?,?)",
		workspaceID, name, isPrivate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a channel by id.
func (r *ChannelRepo) GetByID(ctx context.Context, id uint64) (model.Channel, error) {
	var ch model.Channel
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE id=? LIMIT 1", id).
		Scan(&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.IsPrivate, &ch.CreatedAt, &ch.UpdatedAt)
	return ch, err
}

// Update changes a channel's name and visibility.
func (r *ChannelRepo) Update(ctx context.Context, id uint64, name string, isPrivate bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE channels SET name=?, is_private=?, updated_at=NOW() WHERE id=?",
		name, isPrivate, id)
	return err
}

// DeleteWithMessages removes the channel's messages, its channel-member
// rows and the channel itself in one transaction.
func (r *ChannelRepo) DeleteWithMessages(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM messages WHERE channel_id=?",
		"DELETE FROM channel_members WHERE channel_id=?",
		"DELETE FROM channels WHERE id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListPublicByWorkspace returns the non-private channels of a workspace.
func (r *ChannelRepo) ListPublicByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Channel, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE workspace_id=? AND is_private=FALSE ORDER BY id",
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Channel
	for rows.Next() {
		var ch model.Channel
		if err := rows.Scan(&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.IsPrivate, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// IsChannelMember reports whether the member holds an explicit
// channel-membership row (required for private channels).
func (r *ChannelRepo) IsChannelMember(ctx context.Context, channelID, memberID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM channel_members WHERE channel_id=? AND member_id=? LIMIT 1",
		channelID, memberID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddChannelMember grants a member access to a private channel.
func (r *ChannelRepo) AddChannelMember(ctx context.Context, channelID, memberID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO channel_members (channel_id, member_id) VALUES (?,?)", channelID, memberID)
	return err
}

// RemoveChannelMember revokes a member's access to a private channel.
func (r *ChannelRepo) RemoveChannelMember(ctx context.Context, channelID, memberID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM channel_members WHERE channel_id=? AND member_id=?", channelID, memberID)
	return err
}
