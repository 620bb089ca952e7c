package events

import (
	"time"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated           EventType = "request_created"
	EventRequestStatusChanged     EventType = "request_status_changed"
	EventRequestAssigned          EventType = "request_assigned"
	EventRequestFeedbackSubmitted EventType = "request_feedback_submitted"
	EventChatMessagePosted        EventType = "chat_message_posted"
	EventAnnouncementCreated      EventType = "announcement_created"
	EventAnnouncementDeleted      EventType = "announcement_deleted"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventRequestCreated,
	EventRequestStatusChanged,
	EventRequestAssigned,
	EventRequestFeedbackSubmitted,
	EventChatMessagePosted,
	EventAnnouncementCreated,
	EventAnnouncementDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	RequestID string    `json:"request_id,omitempty"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequesterID string                 `json:"requester_id"`
	Type        domain.RequestType     `json:"type"`
	Priority    domain.RequestPriority `json:"priority"`
	Title       string                 `json:"title,omitempty"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
	Comment   string               `json:"comment"`
	Reopened  bool                 `json:"reopened,omitempty"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

// ChatMessagePostedPayload payload.
type ChatMessagePostedPayload struct {
	MessageID   string            `json:"message_id"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	Preview     string            `json:"preview"`
	Attachments int               `json:"attachments"`
}

// AnnouncementPayload payload.
type AnnouncementPayload struct {
	AnnouncementID string `json:"announcement_id"`
	Title          string `json:"title,omitempty"`
	Important      bool   `json:"important,omitempty"`
}
