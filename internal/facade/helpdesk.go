package facade

import (
	"context"
	"io"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/service"
)

// Helpdesk is the single entry point the transport layer calls. Every
// operation is asynchronous from the caller's point of view and may fail
// with a transient error when simulation is enabled.
type Helpdesk interface {
	ListRequests(ctx context.Context, filter service.RequestFilter) ([]domain.Request, error)
	GetRequest(ctx context.Context, id string) (*domain.Request, error)
	CreateRequest(ctx context.Context, input service.CreateRequestInput) (*domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment, actorName string) (*domain.Request, error)
	ReopenRequest(ctx context.Context, id, comment, actorName string) (*domain.Request, error)
	SubmitFeedback(ctx context.Context, id string, rating int, feedback string) (*domain.Request, error)
	AssignRequest(ctx context.Context, id, staffID, staffName string) (*domain.Request, error)

	ListMessages(ctx context.Context, requestID string) ([]domain.ChatMessage, error)
	PostMessage(ctx context.Context, input service.PostMessageInput) (*domain.ChatMessage, error)
	AttachFile(ctx context.Context, requestID, fileName string, content io.Reader) (string, error)
	MarkRead(ctx context.Context, requestID string, reader domain.SenderRole) (int, error)

	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, input service.CreateAnnouncementInput) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error

	GenerateReport(ctx context.Context) (*domain.Report, error)

	GetProfile(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID string, input service.UpdateProfileInput) (*domain.Account, error)
}

// Services holds the domain services behind the facade.
type Services struct {
	Requests      *service.RequestService
	Chat          *service.ChatService
	Announcements *service.AnnouncementService
	Reports       *service.ReportService
	Profiles      *service.ProfileService
}

// New returns the facade. A zero Simulation passes calls straight through.
func New(services Services, sim Simulation) Helpdesk {
	var h Helpdesk = &direct{services: services}
	if sim.enabled() {
		h = newSimulated(h, sim)
	}
	return h
}

type direct struct {
	services Services
}

func (d *direct) ListRequests(ctx context.Context, filter service.RequestFilter) ([]domain.Request, error) {
	return d.services.Requests.List(ctx, filter)
}

func (d *direct) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	return d.services.Requests.GetByID(ctx, id)
}

func (d *direct) CreateRequest(ctx context.Context, input service.CreateRequestInput) (*domain.Request, error) {
	return d.services.Requests.Create(ctx, input)
}

func (d *direct) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment, actorName string) (*domain.Request, error) {
	return d.services.Requests.UpdateStatus(ctx, id, status, comment, actorName)
}

func (d *direct) ReopenRequest(ctx context.Context, id, comment, actorName string) (*domain.Request, error) {
	return d.services.Requests.Reopen(ctx, id, comment, actorName)
}

func (d *direct) SubmitFeedback(ctx context.Context, id string, rating int, feedback string) (*domain.Request, error) {
	return d.services.Requests.SubmitFeedback(ctx, id, rating, feedback)
}

func (d *direct) AssignRequest(ctx context.Context, id, staffID, staffName string) (*domain.Request, error) {
	return d.services.Requests.Assign(ctx, id, staffID, staffName)
}

func (d *direct) ListMessages(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	return d.services.Chat.ListMessages(ctx, requestID)
}

func (d *direct) PostMessage(ctx context.Context, input service.PostMessageInput) (*domain.ChatMessage, error) {
	return d.services.Chat.PostMessage(ctx, input)
}

func (d *direct) AttachFile(ctx context.Context, requestID, fileName string, content io.Reader) (string, error) {
	return d.services.Chat.AttachFile(ctx, requestID, fileName, content)
}

func (d *direct) MarkRead(ctx context.Context, requestID string, reader domain.SenderRole) (int, error) {
	return d.services.Chat.MarkRead(ctx, requestID, reader)
}

func (d *direct) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	return d.services.Announcements.List(ctx)
}

func (d *direct) CreateAnnouncement(ctx context.Context, input service.CreateAnnouncementInput) (*domain.Announcement, error) {
	return d.services.Announcements.Create(ctx, input)
}

func (d *direct) DeleteAnnouncement(ctx context.Context, id string) error {
	return d.services.Announcements.Delete(ctx, id)
}

func (d *direct) GenerateReport(ctx context.Context) (*domain.Report, error) {
	return d.services.Reports.Generate(ctx)
}

func (d *direct) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	return d.services.Profiles.Get(ctx, accountID)
}

func (d *direct) UpdateProfile(ctx context.Context, accountID string, input service.UpdateProfileInput) (*domain.Account, error) {
	return d.services.Profiles.Update(ctx, accountID, input)
}
