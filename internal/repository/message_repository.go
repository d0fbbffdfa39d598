package repository

import (
	"context"
	"database/sql"

	"github.com/thanhng/workchat/internal/model"
)

// MessageRepo persists messages.  Paginated listings cap the page size so
// a single request can never drag an unbounded result set through the
// connection pool.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

const messageColumns = "id,workspace_id,channel_id,conversation_id,member_id,content,parent_message_id,created_at,updated_at"

const maxPageSize = 100

// Create inserts a message and returns its ID.  Exactly one of channelID
// and conversationID is non-nil; the service validates the target before
// calling here.
func (r *MessageRepo) Create(ctx context.Context, m model.Message) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (workspace_id, channel_id, conversation_id, member_id, content, parent_message_id) VALUES (?,?,?,?,?,?)",
		m.WorkspaceID, m.ChannelID, m.ConversationID, m.MemberID, m.Content, m.ParentMessageID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a message by id.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (model.Message, error) {
	var m model.Message
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.WorkspaceID, &m.ChannelID, &m.ConversationID, &m.MemberID,
			&m.Content, &m.ParentMessageID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// UpdateContent replaces the message body.
func (r *MessageRepo) UpdateContent(ctx context.Context, id uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE messages SET content=?, updated_at=NOW() WHERE id=?", content, id)
	return err
}

// Delete removes a message and any thread replies pointing at it.
func (r *MessageRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE parent_message_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByChannel returns one page of channel messages, newest first.
func (r *MessageRepo) ListByChannel(ctx context.Context, channelID uint64, limit, offset int) ([]model.Message, error) {
	return r.list(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE channel_id=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		channelID, clamp(limit), offset)
}

// ListByConversation returns one page of conversation messages in
// chronological order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uint64, limit, offset int) ([]model.Message, error) {
	return r.list(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE conversation_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		conversationID, clamp(limit), offset)
}

// CountByConversation returns the total number of messages in a
// conversation, used for pagination metadata.
func (r *MessageRepo) CountByConversation(ctx context.Context, conversationID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id=?", conversationID).Scan(&n)
	return n, err
}

func (r *MessageRepo) list(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.ChannelID, &m.ConversationID, &m.MemberID,
			&m.Content, &m.ParentMessageID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func clamp(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
