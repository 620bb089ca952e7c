package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk/internal/domain"
)

type pgChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository keeps request threads in the chat_messages table.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &pgChatRepository{pool: pool}
}

func (r *pgChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (id, request_id, sender_id, sender_name, sender_role, message, sent_at, attachments, read)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	attachments := msg.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.RequestID,
		msg.SenderID,
		msg.SenderName,
		string(msg.SenderRole),
		msg.Message,
		msg.Timestamp,
		attachments,
		msg.Read,
	)
	return err
}

func (r *pgChatRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, request_id, sender_id, sender_name, sender_role, message, sent_at, attachments, read
        FROM chat_messages WHERE request_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var (
			msg  domain.ChatMessage
			role string
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.RequestID,
			&msg.SenderID,
			&msg.SenderName,
			&role,
			&msg.Message,
			&msg.Timestamp,
			&msg.Attachments,
			&msg.Read,
		); err != nil {
			return nil, err
		}
		msg.SenderRole = domain.SenderRole(role)
		if len(msg.Attachments) == 0 {
			msg.Attachments = nil
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *pgChatRepository) MarkRead(ctx context.Context, requestID string, sentBy domain.SenderRole) (int, error) {
	const query = `
        UPDATE chat_messages SET read = TRUE
        WHERE request_id=$1 AND sender_role=$2 AND read = FALSE`
	tag, err := r.pool.Exec(ctx, query, requestID, string(sentBy))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
