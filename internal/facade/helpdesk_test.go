package facade

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/observability"
	"github.com/campus-kit/helpdesk/internal/repository"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

func newServices() Services {
	accounts := repository.NewMemoryAccountRepository()
	_ = accounts.Create(context.Background(), &domain.Account{
		ID:    "student1",
		Name:  "John Smith",
		Email: "john@college.edu",
		Role:  domain.AccountRoleStudent,
	})
	requests := repository.NewMemoryRequestRepository()
	requestSvc := service.NewRequestService(service.RequestDependencies{RequestRepo: requests})
	return Services{
		Requests: requestSvc,
		Chat: service.NewChatService(service.ChatDependencies{
			MessageRepo: repository.NewMemoryChatRepository(),
			Requests:    requestSvc,
		}),
		Announcements: service.NewAnnouncementService(service.AnnouncementDependencies{
			AnnouncementRepo: repository.NewMemoryAnnouncementRepository(),
		}),
		Reports:  service.NewReportService(requests),
		Profiles: service.NewProfileService(service.ProfileDependencies{AccountRepo: accounts}),
	}
}

func createInput() service.CreateRequestInput {
	return service.CreateRequestInput{
		RequesterID: "student1",
		Type:        domain.RequestTypeIT,
		Description: "Printer offline",
		Priority:    domain.RequestPriorityLow,
	}
}

func TestZeroSimulationPassesThrough(t *testing.T) {
	h := New(newServices(), Simulation{})
	_, isDirect := h.(*direct)
	require.True(t, isDirect)

	ctx := context.Background()
	req, err := h.CreateRequest(ctx, createInput())
	require.NoError(t, err)

	got, err := h.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, req.ID, got.ID)

	report, err := h.GenerateReport(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalRequests)
}

func TestSimulatedFailureDoesNotMutate(t *testing.T) {
	services := newServices()
	metrics := observability.NewMetrics()
	failing := New(services, Simulation{FailureRate: 0.5, Rand: func() float64 { return 0.1 }, Metrics: metrics})

	ctx := context.Background()
	_, err := failing.CreateRequest(ctx, createInput())
	require.True(t, apperrors.HasCode(err, apperrors.CodeTransient))
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(`
# HELP helpdesk_facade_simulated_failures_total Failures injected by the access facade.
# TYPE helpdesk_facade_simulated_failures_total counter
helpdesk_facade_simulated_failures_total 1
`), "helpdesk_facade_simulated_failures_total"))

	all, err := services.Requests.List(ctx, service.RequestFilter{})
	require.NoError(t, err)
	require.Empty(t, all)

	passing := New(services, Simulation{FailureRate: 0.5, Rand: func() float64 { return 0.9 }})
	_, err = passing.CreateRequest(ctx, createInput())
	require.NoError(t, err)
}

func TestSimulatedLatencyHonoursContext(t *testing.T) {
	h := New(newServices(), Simulation{Latency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := h.ListAnnouncements(ctx)
	require.True(t, apperrors.HasCode(err, apperrors.CodeTransient))
	require.Less(t, time.Since(start), time.Second)
}

func TestSimulatedLatencyDelays(t *testing.T) {
	h := New(newServices(), Simulation{Latency: 15 * time.Millisecond, Jitter: 10 * time.Millisecond, Rand: func() float64 { return 0.5 }})

	start := time.Now()
	msgs, err := h.ListMessages(context.Background(), "req-unknown")
	require.NoError(t, err)
	require.Empty(t, msgs)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestProfileThroughFacade(t *testing.T) {
	services := newServices()
	ctx := context.Background()
	phone := "555-0100"

	failing := New(services, Simulation{FailureRate: 1, Rand: func() float64 { return 0 }})
	_, err := failing.UpdateProfile(ctx, "student1", service.UpdateProfileInput{Phone: &phone})
	require.True(t, apperrors.HasCode(err, apperrors.CodeTransient))

	h := New(services, Simulation{})
	profile, err := h.GetProfile(ctx, "student1")
	require.NoError(t, err)
	require.Empty(t, profile.Phone)

	updated, err := h.UpdateProfile(ctx, "student1", service.UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, "John Smith", updated.Name)
}
