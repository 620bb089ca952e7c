package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	"github.com/campus-kit/helpdesk/internal/storage"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

const maxMessageLength = 4000

// RequestLookup resolves the request that owns a chat thread.
type RequestLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Request, error)
}

// ChatService manages the conversation attached to each request.
type ChatService struct {
	messages   repository.ChatRepository
	requests   RequestLookup
	files      storage.FileStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// ChatDependencies bundles collaborators for the chat service.
type ChatDependencies struct {
	MessageRepo repository.ChatRepository
	Requests    RequestLookup
	Files       storage.FileStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       Clock
}

// PostMessageInput is a message submitted to a request thread.
type PostMessageInput struct {
	RequestID   string            `json:"request_id"`
	SenderID    string            `json:"sender_id"`
	SenderName  string            `json:"sender_name"`
	SenderRole  domain.SenderRole `json:"sender_role" validate:"required,sender_role"`
	Message     string            `json:"message" validate:"max=4000"`
	Attachments []string          `json:"attachments"`
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		messages:   deps.MessageRepo,
		requests:   deps.Requests,
		files:      deps.Files,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		clock:      deps.Clock,
	}
}

// ListMessages returns the thread in append order. Unknown requests have an
// empty thread.
func (s *ChatService) ListMessages(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	msgs, err := s.messages.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

// PostMessage appends a message to an open request's thread.
func (s *ChatService) PostMessage(ctx context.Context, input PostMessageInput) (*domain.ChatMessage, error) {
	if _, err := s.openRequest(ctx, input.RequestID); err != nil {
		return nil, err
	}

	input.Message = strings.TrimSpace(input.Message)
	input.SenderID = strings.TrimSpace(input.SenderID)
	input.SenderName = strings.TrimSpace(input.SenderName)
	attachments := make([]string, 0, len(input.Attachments))
	for _, ref := range input.Attachments {
		if ref = strings.TrimSpace(ref); ref != "" {
			attachments = append(attachments, ref)
		}
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Message == "" && len(attachments) == 0 {
		return nil, fieldError("message", "message must have text or at least one attachment")
	}

	msg := &domain.ChatMessage{
		ID:          newID("msg-"),
		RequestID:   input.RequestID,
		SenderID:    input.SenderID,
		SenderName:  input.SenderName,
		SenderRole:  input.SenderRole,
		Message:     input.Message,
		Timestamp:   s.clock.now(),
		Attachments: attachments,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Debug("chat message posted",
		zap.String("request_id", msg.RequestID),
		zap.String("message_id", msg.ID),
		zap.String("sender_role", string(msg.SenderRole)),
		zap.Int("attachments", len(attachments)))

	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:      events.EventChatMessagePosted,
		RequestID: msg.RequestID,
		Actor:     msg.SenderName,
		Payload: events.ChatMessagePostedPayload{
			MessageID:   msg.ID,
			SenderRole:  msg.SenderRole,
			Preview:     stringPreview(msg.Message, eventPreviewLength),
			Attachments: len(attachments),
		},
	})
	return msg, nil
}

// AttachFile stores an upload for a request thread and returns its reference.
func (s *ChatService) AttachFile(ctx context.Context, requestID, fileName string, content io.Reader) (string, error) {
	if _, err := s.openRequest(ctx, requestID); err != nil {
		return "", err
	}
	if s.files == nil {
		return "", apperrors.NewInvalidState("attachments are not configured", nil)
	}
	if strings.TrimSpace(fileName) == "" {
		return "", fieldError("file", "file name is required")
	}

	stored, err := s.files.Save(ctx, requestID, fileName, content)
	switch {
	case errors.Is(err, storage.ErrEmptyFile):
		return "", fieldError("file", "file is empty")
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", fieldError("file", "file exceeds the size limit")
	case err != nil:
		return "", apperrors.NewInternalError(err)
	}

	s.logger.Info("attachment stored",
		zap.String("request_id", requestID),
		zap.String("key", stored.Key),
		zap.String("mime_type", stored.MimeType),
		zap.Int64("size_bytes", stored.SizeBytes))
	return stored.URL, nil
}

// MarkRead flags every message written by the other side as read and
// returns how many changed. Repeating it changes nothing.
func (s *ChatService) MarkRead(ctx context.Context, requestID string, reader domain.SenderRole) (int, error) {
	if !reader.Valid() {
		return 0, fieldError("reader_role", "reader_role must be student or staff")
	}
	sentBy := domain.SenderRoleStaff
	if reader == domain.SenderRoleStaff {
		sentBy = domain.SenderRoleStudent
	}
	changed, err := s.messages.MarkRead(ctx, requestID, sentBy)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return changed, nil
}

func (s *ChatService) openRequest(ctx context.Context, requestID string) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, mapRepoError(err, resourceRequest, requestID)
	}
	if req.Status == domain.RequestStatusClosed {
		return nil, apperrors.NewRequestClosed(requestID)
	}
	return req, nil
}
