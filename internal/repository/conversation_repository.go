package repository

import (
	"context"
	"database/sql"

	"github.com/thanhng/workchat/internal/model"
)

// ConversationRepo persists conversations and their participant sets.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// CreateWithParticipants inserts the conversation and every participant
// row in one transaction.  The creator must already be included in
// memberIDs; the service guarantees that.
func (r *ConversationRepo) CreateWithParticipants(ctx context.Context, workspaceID, createdBy uint64, memberIDs []uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO conversations (workspace_id, created_by) VALUES (?,?)",
		workspaceID, createdBy)
	if err != nil {
		return 0, err
	}
	convID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	query := "INSERT INTO conversation_participants (conversation_id, member_id) VALUES "
	args := make([]any, 0, len(memberIDs)*2)
	for i, mid := range memberIDs {
		if i > 0 {
			query += ","
		}
		query += "(?,?)"
		args = append(args, convID, mid)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(convID), nil
}

// GetByID fetches a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	var c model.Conversation
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,workspace_id,created_by,created_at FROM conversations WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.WorkspaceID, &c.CreatedBy, &c.CreatedAt)
	return c, err
}

// ListByWorkspace returns all conversations of a workspace.
func (r *ConversationRepo) ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,workspace_id,created_by,created_at FROM conversations WHERE workspace_id=? ORDER BY id",
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Participants returns the participant rows of a conversation.
func (r *ConversationRepo) Participants(ctx context.Context, conversationID uint64) ([]model.ConversationParticipant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,conversation_id,member_id,created_at FROM conversation_participants WHERE conversation_id=? ORDER BY id",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ConversationParticipant
	for rows.Next() {
		var p model.ConversationParticipant
		if err := rows.Scan(&p.ID, &p.ConversationID, &p.MemberID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IsParticipant reports whether the member appears in the conversation's
// participant set.
func (r *ConversationRepo) IsParticipant(ctx context.Context, conversationID, memberID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM conversation_participants WHERE conversation_id=? AND member_id=? LIMIT 1",
		conversationID, memberID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddParticipant attaches a member to the conversation.
func (r *ConversationRepo) AddParticipant(ctx context.Context, conversationID, memberID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO conversation_participants (conversation_id, member_id) VALUES (?,?)",
		conversationID, memberID)
	return err
}

// RemoveParticipant detaches a member from the conversation.
func (r *ConversationRepo) RemoveParticipant(ctx context.Context, conversationID, memberID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM conversation_participants WHERE conversation_id=? AND member_id=?",
		conversationID, memberID)
	return err
}

// Delete removes the conversation, its participants and its messages in
// one transaction.
func (r *ConversationRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM messages WHERE conversation_id=?",
		"DELETE FROM conversation_participants WHERE conversation_id=?",
		"DELETE FROM conversations WHERE id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
