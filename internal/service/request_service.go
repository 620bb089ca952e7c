package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

const (
	systemActor        = "System"
	initialComment     = "Request received"
	unknownActor       = "Unknown"
	maxFeedbackLength  = 2000
	minRating          = 1
	maxRating          = 5
	resourceRequest    = "request"
	eventPreviewLength = 120
)

// RequestService is the sole authority for creating and transitioning
// helpdesk requests.
type RequestService struct {
	requests     repository.RequestRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	clock        Clock
	reopenWindow time.Duration
	locks        *keyedMutex
}

// RequestDependencies bundles collaborators for the request service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
	ReopenWindow time.Duration
}

// RequestFilter narrows List; nil fields match everything.
type RequestFilter struct {
	RequesterID *string
	Type        *domain.RequestType
	Status      *domain.RequestStatus
	Priority    *domain.RequestPriority
}

// CreateRequestInput describes a new request submitted by a student.
type CreateRequestInput struct {
	RequesterID             string                         `json:"requester_id" validate:"required"`
	RequesterName           string                         `json:"requester_name"`
	Type                    domain.RequestType             `json:"type" validate:"required,request_type"`
	Title                   string                         `json:"title" validate:"max=200"`
	Description             string                         `json:"description" validate:"required"`
	Priority                domain.RequestPriority         `json:"priority" validate:"required,request_priority"`
	Department              string                         `json:"department"`
	SupportingDocuments     []string                       `json:"supporting_documents"`
	CommunicationPreference domain.CommunicationPreference `json:"communication_preference" validate:"omitempty,oneof=email phone in-app"`
	IsUrgent                bool                           `json:"is_urgent"`
	Deadline                *time.Time                     `json:"deadline"`
}

func (in *CreateRequestInput) normalize() {
	in.RequesterID = strings.TrimSpace(in.RequesterID)
	in.RequesterName = strings.TrimSpace(in.RequesterName)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Department = strings.TrimSpace(in.Department)
	docs := make([]string, 0, len(in.SupportingDocuments))
	for _, doc := range in.SupportingDocuments {
		if doc = strings.TrimSpace(doc); doc != "" {
			docs = append(docs, doc)
		}
	}
	in.SupportingDocuments = docs
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	window := deps.ReopenWindow
	if window <= 0 {
		window = domain.DefaultReopenWindow
	}
	return &RequestService{
		requests:     deps.RequestRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		clock:        deps.Clock,
		reopenWindow: window,
		locks:        newKeyedMutex(),
	}
}

// List returns copies of every request matching filter, oldest first.
func (s *RequestService) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	requests, err := s.requests.List(ctx, repository.RequestFilter{
		RequesterID: filter.RequesterID,
		Type:        filter.Type,
		Status:      filter.Status,
		Priority:    filter.Priority,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	now := s.clock.now()
	for i := range requests {
		s.deriveReopen(&requests[i], now)
	}
	return requests, nil
}

// GetByID returns a request with CanBeReopened evaluated at the current instant.
func (s *RequestService) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}
	s.deriveReopen(req, s.clock.now())
	return req, nil
}

// Create files a new request. The request always starts open with a single
// synthetic status update.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	now := s.clock.now()
	id := newID("req-")
	req := &domain.Request{
		ID:                      id,
		RequesterID:             input.RequesterID,
		RequesterName:           input.RequesterName,
		Type:                    input.Type,
		Title:                   input.Title,
		Description:             input.Description,
		Priority:                input.Priority,
		Status:                  domain.RequestStatusOpen,
		CreatedAt:               now,
		UpdatedAt:               now,
		Department:              input.Department,
		SupportingDocuments:     input.SupportingDocuments,
		CommunicationPreference: input.CommunicationPreference,
		IsUrgent:                input.IsUrgent,
		Deadline:                input.Deadline,
		StatusUpdates: []domain.StatusUpdate{{
			ID:        newID("upd-"),
			RequestID: id,
			Status:    domain.RequestStatusOpen,
			Comment:   initialComment,
			UpdatedAt: now,
			UpdatedBy: systemActor,
		}},
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}
	s.logger.Info("request created",
		zap.String("request_id", id),
		zap.String("requester_id", req.RequesterID),
		zap.String("type", string(req.Type)),
		zap.String("priority", string(req.Priority)))

	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: id,
		Actor:     req.RequesterID,
		Payload: events.RequestCreatedPayload{
			RequesterID: req.RequesterID,
			Type:        req.Type,
			Priority:    req.Priority,
			Title:       req.Title,
		},
	})
	return req.Clone(), nil
}

// UpdateStatus moves a request to newStatus and records the transition.
// Any status may move to any other.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, newStatus domain.RequestStatus, comment, actorName string) (*domain.Request, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	return s.applyStatus(ctx, id, newStatus, comment, actorName, false)
}

// Reopen returns a recently closed request to open.
func (s *RequestService) Reopen(ctx context.Context, id, comment, actorName string) (*domain.Request, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.CanBeReopened {
		return nil, apperrors.NewNotReopenable(id)
	}
	return s.applyStatus(ctx, id, domain.RequestStatusOpen, comment, actorName, true)
}

// SubmitFeedback records a satisfaction rating on a resolved or closed
// request. Feedback is metadata and leaves the status history untouched.
func (s *RequestService) SubmitFeedback(ctx context.Context, id string, rating int, feedback string) (*domain.Request, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}
	if !req.AcceptsFeedback() {
		return nil, apperrors.NewInvalidState("feedback can only be given for resolved or closed requests",
			map[string]any{"request_id": id, "status": string(req.Status)})
	}
	if rating < minRating || rating > maxRating {
		return nil, fieldError("rating", "rating must be between 1 and 5")
	}
	feedback = strings.TrimSpace(feedback)
	if utf8.RuneCountInString(feedback) > maxFeedbackLength {
		return nil, fieldError("feedback", "feedback must be at most 2000 characters")
	}

	req.Rating = &rating
	req.Feedback = feedback
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}

	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:      events.EventRequestFeedbackSubmitted,
		RequestID: id,
		Actor:     req.RequesterID,
		Payload:   events.FeedbackSubmittedPayload{Rating: rating, Feedback: stringPreview(feedback, eventPreviewLength)},
	})
	s.deriveReopen(req, s.clock.now())
	return req, nil
}

// Assign records the staff member handling a request.
func (s *RequestService) Assign(ctx context.Context, id, staffID, staffName string) (*domain.Request, error) {
	staffID = strings.TrimSpace(staffID)
	staffName = strings.TrimSpace(staffName)
	if staffID == "" {
		return nil, fieldError("staff_id", "staff_id is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}
	req.AssignedStaffID = staffID
	req.AssignedStaffName = staffName
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}

	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: id,
		Actor:     staffName,
		Payload:   events.RequestAssignedPayload{StaffID: staffID, StaffName: staffName},
	})
	s.deriveReopen(req, s.clock.now())
	return req, nil
}

// applyStatus must be called with the request lock held. The mutation is
// built on a fresh copy and written once, so a failure leaves the store as
// it was.
func (s *RequestService) applyStatus(ctx context.Context, id string, newStatus domain.RequestStatus, comment, actorName string, reopened bool) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}
	if !newStatus.Valid() {
		return nil, fieldError("status", "status must be one of open, in-progress, resolved, closed")
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fieldError("comment", "comment is required")
	}
	actorName = strings.TrimSpace(actorName)
	if actorName == "" {
		actorName = unknownActor
	}

	now := s.clock.now()
	if now.Before(req.UpdatedAt) {
		now = req.UpdatedAt
	}
	oldStatus := req.Status
	req.Status = newStatus
	req.UpdatedAt = now
	req.StatusUpdates = append(req.StatusUpdates, domain.StatusUpdate{
		ID:        newID("upd-"),
		RequestID: id,
		Status:    newStatus,
		Comment:   comment,
		UpdatedAt: now,
		UpdatedBy: actorName,
	})
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, mapRepoError(err, resourceRequest, id)
	}

	s.logger.Info("request status changed",
		zap.String("request_id", id),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)),
		zap.String("actor", actorName),
		zap.Bool("reopened", reopened))

	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: id,
		Actor:     actorName,
		Payload: events.RequestStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
			Reopened:  reopened,
		},
	})
	s.deriveReopen(req, now)
	return req, nil
}

func (s *RequestService) deriveReopen(req *domain.Request, now time.Time) {
	req.CanBeReopened = false
	if req.Status != domain.RequestStatusClosed {
		return
	}
	if _, ok := req.LastClosedAt(); !ok {
		s.logger.Warn("closed request has no closing status update",
			zap.String("request_id", req.ID),
			zap.Int("status_updates", len(req.StatusUpdates)))
		return
	}
	req.CanBeReopened = domain.ReopenEligible(req, now, s.reopenWindow)
}
