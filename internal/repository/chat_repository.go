package repository

import (
	"context"
	"sync"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// ChatRepository stores one append-only message thread per request id.
type ChatRepository interface {
	Append(ctx context.Context, msg *domain.ChatMessage) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.ChatMessage, error)
	// MarkRead flags unread messages sent by role and returns how many changed.
	MarkRead(ctx context.Context, requestID string, sentBy domain.SenderRole) (int, error)
}

type memoryChatRepository struct {
	mu      sync.RWMutex
	threads map[string][]domain.ChatMessage
}

// NewMemoryChatRepository returns a process-local chat store.
func NewMemoryChatRepository() ChatRepository {
	return &memoryChatRepository{threads: make(map[string][]domain.ChatMessage)}
}

func (r *memoryChatRepository) Append(_ context.Context, msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[msg.RequestID] = append(r.threads[msg.RequestID], cloneMessage(*msg))
	return nil
}

func (r *memoryChatRepository) ListByRequest(_ context.Context, requestID string) ([]domain.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	thread := r.threads[requestID]
	result := make([]domain.ChatMessage, 0, len(thread))
	for _, msg := range thread {
		result = append(result, cloneMessage(msg))
	}
	return result, nil
}

func (r *memoryChatRepository) MarkRead(_ context.Context, requestID string, sentBy domain.SenderRole) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	thread := r.threads[requestID]
	for i := range thread {
		if thread[i].SenderRole == sentBy && !thread[i].Read {
			thread[i].Read = true
			changed++
		}
	}
	return changed, nil
}

func cloneMessage(msg domain.ChatMessage) domain.ChatMessage {
	if msg.Attachments != nil {
		msg.Attachments = append([]string(nil), msg.Attachments...)
	}
	return msg
}
