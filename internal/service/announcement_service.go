package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

const resourceAnnouncement = "announcement"

// AnnouncementService publishes broadcast notices.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	clock         Clock
}

// AnnouncementDependencies bundles collaborators for the announcement service.
type AnnouncementDependencies struct {
	AnnouncementRepo repository.AnnouncementRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	Clock            Clock
}

// CreateAnnouncementInput describes a new announcement.
type CreateAnnouncementInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	Important bool   `json:"important"`
	CreatedBy string `json:"created_by"`
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(deps AnnouncementDependencies) *AnnouncementService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		announcements: deps.AnnouncementRepo,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		clock:         deps.Clock,
	}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	items, err := s.announcements.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []domain.Announcement{}
	}
	return items, nil
}

// Create publishes an announcement.
func (s *AnnouncementService) Create(ctx context.Context, input CreateAnnouncementInput) (*domain.Announcement, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.CreatedBy = strings.TrimSpace(input.CreatedBy)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.CreatedBy == "" {
		input.CreatedBy = systemActor
	}

	a := &domain.Announcement{
		ID:        newID("ann-"),
		Title:     input.Title,
		Content:   input.Content,
		Important: input.Important,
		CreatedAt: s.clock.now(),
		CreatedBy: input.CreatedBy,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, mapRepoError(err, resourceAnnouncement, a.ID)
	}

	s.logger.Info("announcement created", zap.String("announcement_id", a.ID), zap.Bool("important", a.Important))
	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:    events.EventAnnouncementCreated,
		Actor:   a.CreatedBy,
		Payload: events.AnnouncementPayload{AnnouncementID: a.ID, Title: a.Title, Important: a.Important},
	})
	return a, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.announcements.Delete(ctx, id); err != nil {
		return mapRepoError(err, resourceAnnouncement, id)
	}
	publishEvent(ctx, s.dispatcher, s.clock, events.Event{
		Type:    events.EventAnnouncementDeleted,
		Actor:   systemActor,
		Payload: events.AnnouncementPayload{AnnouncementID: id},
	})
	return nil
}
