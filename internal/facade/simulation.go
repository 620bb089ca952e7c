package facade

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/observability"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// Simulation configures the artificial network behaviour of the facade.
type Simulation struct {
	Latency     time.Duration
	Jitter      time.Duration
	FailureRate float64
	// Rand returns a value in [0,1). Defaults to math/rand/v2.
	Rand    func() float64
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

func (s Simulation) enabled() bool {
	return s.Latency > 0 || s.Jitter > 0 || s.FailureRate > 0
}

type simulated struct {
	next Helpdesk
	sim  Simulation
}

func newSimulated(next Helpdesk, sim Simulation) *simulated {
	if sim.Rand == nil {
		sim.Rand = rand.Float64
	}
	if sim.Logger == nil {
		sim.Logger = zap.NewNop()
	}
	return &simulated{next: next, sim: sim}
}

// before delays the call and decides whether it fails. The failure is
// rolled before the wrapped operation runs, so a failed call never mutates
// state.
func (s *simulated) before(ctx context.Context, op string) error {
	delay := s.sim.Latency
	if s.sim.Jitter > 0 {
		delay += time.Duration(s.sim.Rand() * float64(s.sim.Jitter))
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return &apperrors.DomainError{
				Code:       apperrors.CodeTransient,
				Message:    "request cancelled while waiting for the helpdesk",
				HTTPStatus: http.StatusServiceUnavailable,
				Err:        ctx.Err(),
			}
		case <-timer.C:
		}
	}
	if s.sim.FailureRate > 0 && s.sim.Rand() < s.sim.FailureRate {
		s.sim.Metrics.RecordSimulatedFailure()
		s.sim.Logger.Warn("simulated failure", zap.String("operation", op))
		return apperrors.NewTransientFailure("the helpdesk is temporarily unavailable, please retry")
	}
	return nil
}

func (s *simulated) ListRequests(ctx context.Context, filter service.RequestFilter) ([]domain.Request, error) {
	if err := s.before(ctx, "ListRequests"); err != nil {
		return nil, err
	}
	return s.next.ListRequests(ctx, filter)
}

func (s *simulated) GetRequest(ctx context.Context, id string) (*domain.Request, error) {
	if err := s.before(ctx, "GetRequest"); err != nil {
		return nil, err
	}
	return s.next.GetRequest(ctx, id)
}

func (s *simulated) CreateRequest(ctx context.Context, input service.CreateRequestInput) (*domain.Request, error) {
	if err := s.before(ctx, "CreateRequest"); err != nil {
		return nil, err
	}
	return s.next.CreateRequest(ctx, input)
}

func (s *simulated) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus, comment, actorName string) (*domain.Request, error) {
	if err := s.before(ctx, "UpdateStatus"); err != nil {
		return nil, err
	}
	return s.next.UpdateStatus(ctx, id, status, comment, actorName)
}

func (s *simulated) ReopenRequest(ctx context.Context, id, comment, actorName string) (*domain.Request, error) {
	if err := s.before(ctx, "ReopenRequest"); err != nil {
		return nil, err
	}
	return s.next.ReopenRequest(ctx, id, comment, actorName)
}

func (s *simulated) SubmitFeedback(ctx context.Context, id string, rating int, feedback string) (*domain.Request, error) {
	if err := s.before(ctx, "SubmitFeedback"); err != nil {
		return nil, err
	}
	return s.next.SubmitFeedback(ctx, id, rating, feedback)
}

func (s *simulated) AssignRequest(ctx context.Context, id, staffID, staffName string) (*domain.Request, error) {
	if err := s.before(ctx, "AssignRequest"); err != nil {
		return nil, err
	}
	return s.next.AssignRequest(ctx, id, staffID, staffName)
}

func (s *simulated) ListMessages(ctx context.Context, requestID string) ([]domain.ChatMessage, error) {
	if err := s.before(ctx, "ListMessages"); err != nil {
		return nil, err
	}
	return s.next.ListMessages(ctx, requestID)
}

func (s *simulated) PostMessage(ctx context.Context, input service.PostMessageInput) (*domain.ChatMessage, error) {
	if err := s.before(ctx, "PostMessage"); err != nil {
		return nil, err
	}
	return s.next.PostMessage(ctx, input)
}

func (s *simulated) AttachFile(ctx context.Context, requestID, fileName string, content io.Reader) (string, error) {
	if err := s.before(ctx, "AttachFile"); err != nil {
		return "", err
	}
	return s.next.AttachFile(ctx, requestID, fileName, content)
}

func (s *simulated) MarkRead(ctx context.Context, requestID string, reader domain.SenderRole) (int, error) {
	if err := s.before(ctx, "MarkRead"); err != nil {
		return 0, err
	}
	return s.next.MarkRead(ctx, requestID, reader)
}

func (s *simulated) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	if err := s.before(ctx, "ListAnnouncements"); err != nil {
		return nil, err
	}
	return s.next.ListAnnouncements(ctx)
}

func (s *simulated) CreateAnnouncement(ctx context.Context, input service.CreateAnnouncementInput) (*domain.Announcement, error) {
	if err := s.before(ctx, "CreateAnnouncement"); err != nil {
		return nil, err
	}
	return s.next.CreateAnnouncement(ctx, input)
}

func (s *simulated) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.before(ctx, "DeleteAnnouncement"); err != nil {
		return err
	}
	return s.next.DeleteAnnouncement(ctx, id)
}

func (s *simulated) GenerateReport(ctx context.Context) (*domain.Report, error) {
	if err := s.before(ctx, "GenerateReport"); err != nil {
		return nil, err
	}
	return s.next.GenerateReport(ctx)
}

func (s *simulated) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := s.before(ctx, "GetProfile"); err != nil {
		return nil, err
	}
	return s.next.GetProfile(ctx, accountID)
}

func (s *simulated) UpdateProfile(ctx context.Context, accountID string, input service.UpdateProfileInput) (*domain.Account, error) {
	if err := s.before(ctx, "UpdateProfile"); err != nil {
		return nil, err
	}
	return s.next.UpdateProfile(ctx, accountID, input)
}
