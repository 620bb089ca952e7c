package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-kit/helpdesk/internal/domain"
)

const chatKeyPrefix = "helpdesk:chat:"

// chatRecord is the JSON shape of a message stored in a Redis list.
type chatRecord struct {
	ID          string            `json:"id"`
	RequestID   string            `json:"request_id"`
	SenderID    string            `json:"sender_id"`
	SenderName  string            `json:"sender_name"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Attachments []string          `json:"attachments,omitempty"`
	Read        bool              `json:"read"`
}

type redisChatRepository struct {
	client *redis.Client
}

// NewRedisChatRepository keeps each thread in a Redis list keyed by request id.
func NewRedisChatRepository(client *redis.Client) ChatRepository {
	return &redisChatRepository{client: client}
}

func chatKey(requestID string) string {
	return chatKeyPrefix + requestID
}

func (r *redisChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) error {
	payload, err := json.Marshal(toChatRecord(msg))
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, chatKey(msg.RequestID), payload).Err()
}

func (r *redisChatRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, chatKey(requestID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return decodeChatRecords(raw)
}

func (r *redisChatRepository) MarkRead(ctx context.Context, requestID string, sentBy domain.SenderRole) (int, error) {
	key := chatKey(requestID)
	changed := 0
	txf := func(tx *redis.Tx) error {
		changed = 0
		raw, err := tx.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		records := make(map[int64][]byte)
		for i, item := range raw {
			var rec chatRecord
			if err := json.Unmarshal([]byte(item), &rec); err != nil {
				return err
			}
			if rec.SenderRole != sentBy || rec.Read {
				continue
			}
			rec.Read = true
			payload, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			records[int64(i)] = payload
		}
		if len(records) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for idx, payload := range records {
				pipe.LSet(ctx, key, idx, payload)
			}
			return nil
		})
		if err == nil {
			changed = len(records)
		}
		return err
	}
	if err := r.client.Watch(ctx, txf, key); err != nil {
		return 0, err
	}
	return changed, nil
}

func toChatRecord(msg *domain.ChatMessage) chatRecord {
	return chatRecord{
		ID:          msg.ID,
		RequestID:   msg.RequestID,
		SenderID:    msg.SenderID,
		SenderName:  msg.SenderName,
		SenderRole:  msg.SenderRole,
		Message:     msg.Message,
		Timestamp:   msg.Timestamp,
		Attachments: msg.Attachments,
		Read:        msg.Read,
	}
}

func decodeChatRecords(raw []string) ([]domain.ChatMessage, error) {
	result := make([]domain.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var rec chatRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, err
		}
		result = append(result, domain.ChatMessage{
			ID:          rec.ID,
			RequestID:   rec.RequestID,
			SenderID:    rec.SenderID,
			SenderName:  rec.SenderName,
			SenderRole:  rec.SenderRole,
			Message:     rec.Message,
			Timestamp:   rec.Timestamp,
			Attachments: rec.Attachments,
			Read:        rec.Read,
		})
	}
	return result, nil
}
