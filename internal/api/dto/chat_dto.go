package dto

import (
	"time"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// PostMessageRequest payload.
type PostMessageRequest struct {
	SenderID    string            `json:"sender_id"`
	SenderName  string            `json:"sender_name"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	Message     string            `json:"message"`
	Attachments []string          `json:"attachments"`
}

// MarkReadRequest payload.
type MarkReadRequest struct {
	ReaderRole domain.SenderRole `json:"reader_role"`
}

// ChatMessageResponse represents a thread message.
type ChatMessageResponse struct {
	ID          string            `json:"id"`
	RequestID   string            `json:"request_id"`
	SenderID    string            `json:"sender_id"`
	SenderName  string            `json:"sender_name"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Attachments []string          `json:"attachments"`
	Read        bool              `json:"read"`
}

// AttachmentResponse carries the stored file reference.
type AttachmentResponse struct {
	URL string `json:"url"`
}
