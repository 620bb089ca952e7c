package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newRequestService(t *testing.T) (*RequestService, repository.RequestRepository, *testClock, *recorder) {
	t.Helper()
	repo := repository.NewMemoryRequestRepository()
	clock := newTestClock()
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, et := range events.AllEventTypes {
		dispatcher.Subscribe(et, rec.handle)
	}
	svc := NewRequestService(RequestDependencies{
		RequestRepo: repo,
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	})
	return svc, repo, clock, rec
}

func validInput() CreateRequestInput {
	return CreateRequestInput{
		RequesterID:   "student1",
		RequesterName: "John Smith",
		Type:          domain.RequestTypeMaintenance,
		Description:   "Broken chair in classroom 101",
		Priority:      domain.RequestPriorityMedium,
	}
}

func TestCreateRequestStartsOpenWithSingleUpdate(t *testing.T) {
	svc, _, clock, rec := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, req.ID)
	require.Equal(t, domain.RequestStatusOpen, req.Status)
	require.Equal(t, clock.Now(), req.CreatedAt)
	require.Equal(t, req.CreatedAt, req.UpdatedAt)
	require.Len(t, req.StatusUpdates, 1)
	require.Equal(t, domain.RequestStatusOpen, req.StatusUpdates[0].Status)
	require.Equal(t, "System", req.StatusUpdates[0].UpdatedBy)
	require.Equal(t, req.ID, req.StatusUpdates[0].RequestID)
	require.Nil(t, req.Rating)
	require.False(t, req.CanBeReopened)
	require.Equal(t, []events.EventType{events.EventRequestCreated}, rec.types())

	again, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NotEqual(t, req.ID, again.ID)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, repo, _, _ := newRequestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateRequestInput)
	}{
		{"blank description", func(in *CreateRequestInput) { in.Description = "   " }},
		{"missing requester", func(in *CreateRequestInput) { in.RequesterID = "" }},
		{"unknown type", func(in *CreateRequestInput) { in.Type = "parking" }},
		{"unknown priority", func(in *CreateRequestInput) { in.Priority = "urgent" }},
		{"bad preference", func(in *CreateRequestInput) { in.CommunicationPreference = "pigeon" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			require.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}

	all, err := repo.List(ctx, repository.RequestFilter{})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	svc, _, clock, rec := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	original := req.StatusUpdates[0]

	steps := []domain.RequestStatus{domain.RequestStatusInProgress, domain.RequestStatusResolved, domain.RequestStatusInProgress}
	for i, status := range steps {
		clock.Advance(time.Hour)
		updated, err := svc.UpdateStatus(ctx, req.ID, status, "step", "Jane Doe")
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
		require.Len(t, updated.StatusUpdates, i+2)
		require.Equal(t, original, updated.StatusUpdates[0])
		require.Equal(t, clock.Now(), updated.UpdatedAt)
		last := updated.StatusUpdates[len(updated.StatusUpdates)-1]
		require.Equal(t, status, last.Status)
		require.Equal(t, "Jane Doe", last.UpdatedBy)
	}

	got, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, got.StatusUpdates, 4)
	require.Contains(t, rec.types(), events.EventRequestStatusChanged)
}

func TestUpdateStatusErrors(t *testing.T) {
	svc, repo, _, _ := newRequestService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "req-missing", domain.RequestStatusClosed, "done", "Jane")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "  ", "Jane")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.UpdateStatus(ctx, req.ID, "archived", "done", "Jane")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, stored.StatusUpdates, 1)
	require.Equal(t, domain.RequestStatusOpen, stored.Status)

	updated, err := svc.UpdateStatus(ctx, req.ID, domain.RequestStatusInProgress, "looking", "")
	require.NoError(t, err)
	require.Equal(t, "Unknown", updated.StatusUpdates[1].UpdatedBy)
}

func TestReopenWindow(t *testing.T) {
	svc, _, clock, _ := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "fixed", "Jane")
	require.NoError(t, err)

	clock.Advance(168 * time.Hour)
	got, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.True(t, got.CanBeReopened)

	clock.Advance(time.Second)
	got, err = svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.False(t, got.CanBeReopened)

	_, err = svc.Reopen(ctx, req.ID, "still broken", "John Smith")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotReopenable))

	got, err = svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusClosed, got.Status)
	require.Len(t, got.StatusUpdates, 2)
}

func TestReopenSucceedsInsideWindow(t *testing.T) {
	svc, _, clock, rec := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Reopen(ctx, req.ID, "again", "John")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotReopenable))

	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "fixed", "Jane")
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)

	reopened, err := svc.Reopen(ctx, req.ID, "still broken", "John Smith")
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusOpen, reopened.Status)
	require.False(t, reopened.CanBeReopened)
	require.Len(t, reopened.StatusUpdates, 3)

	var reopenedEvent bool
	for _, e := range rec.events {
		if p, ok := e.Payload.(events.RequestStatusChangedPayload); ok && p.Reopened {
			reopenedEvent = true
		}
	}
	require.True(t, reopenedEvent)
}

func TestSubmitFeedbackGuard(t *testing.T) {
	ctx := context.Background()

	rejected := []domain.RequestStatus{domain.RequestStatusOpen, domain.RequestStatusInProgress}
	for _, status := range rejected {
		t.Run(string(status), func(t *testing.T) {
			svc, _, _, _ := newRequestService(t)
			req, err := svc.Create(ctx, validInput())
			require.NoError(t, err)
			if status != domain.RequestStatusOpen {
				_, err = svc.UpdateStatus(ctx, req.ID, status, "picked up", "Jane")
				require.NoError(t, err)
			}

			for rating := 1; rating <= 5; rating++ {
				_, err = svc.SubmitFeedback(ctx, req.ID, rating, "great")
				require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState), "rating %d: %v", rating, err)
			}

			stored, err := svc.GetByID(ctx, req.ID)
			require.NoError(t, err)
			require.Nil(t, stored.Rating)
			require.Empty(t, stored.Feedback)
		})
	}

	accepted := []domain.RequestStatus{domain.RequestStatusResolved, domain.RequestStatusClosed}
	for _, status := range accepted {
		t.Run(string(status), func(t *testing.T) {
			svc, _, _, _ := newRequestService(t)
			req, err := svc.Create(ctx, validInput())
			require.NoError(t, err)
			_, err = svc.UpdateStatus(ctx, req.ID, status, "done", "Jane")
			require.NoError(t, err)

			for _, rating := range []int{0, 6} {
				_, err = svc.SubmitFeedback(ctx, req.ID, rating, "")
				require.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "rating %d: %v", rating, err)
			}
			untouched, err := svc.GetByID(ctx, req.ID)
			require.NoError(t, err)
			require.Nil(t, untouched.Rating)

			for rating := 1; rating <= 5; rating++ {
				rated, err := svc.SubmitFeedback(ctx, req.ID, rating, "  quick fix ")
				require.NoError(t, err)
				require.NotNil(t, rated.Rating)
				require.Equal(t, rating, *rated.Rating)
				require.Equal(t, "quick fix", rated.Feedback)
				require.Equal(t, status, rated.Status)
				require.Equal(t, untouched.StatusUpdates, rated.StatusUpdates)
				require.Equal(t, untouched.UpdatedAt, rated.UpdatedAt)
			}
		})
	}

	svc, _, _, _ := newRequestService(t)
	_, err := svc.SubmitFeedback(ctx, "req-missing", 3, "")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestSubmitFeedbackLengthCountsCharacters(t *testing.T) {
	svc, _, _, _ := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusResolved, "done", "Jane")
	require.NoError(t, err)

	// two bytes per rune, so the byte length is well over the limit
	longest := strings.Repeat("é", 2000)
	rated, err := svc.SubmitFeedback(ctx, req.ID, 4, longest)
	require.NoError(t, err)
	require.Equal(t, longest, rated.Feedback)

	_, err = svc.SubmitFeedback(ctx, req.ID, 4, longest+"é")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetByIDIsIdempotent(t *testing.T) {
	svc, _, clock, _ := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "fixed", "Jane")
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)

	first, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	second, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.True(t, first.CanBeReopened)

	first.Status = domain.RequestStatusOpen
	first.StatusUpdates[0].Comment = "edited"
	third, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, second, third)
}

func TestAssign(t *testing.T) {
	svc, _, clock, rec := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Assign(ctx, req.ID, " ", "Jane")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	clock.Advance(time.Hour)
	assigned, err := svc.Assign(ctx, req.ID, "staff1", "Jane Doe")
	require.NoError(t, err)
	require.Equal(t, req.UpdatedAt, assigned.UpdatedAt)
	require.Equal(t, "staff1", assigned.AssignedStaffID)
	require.Equal(t, "Jane Doe", assigned.AssignedStaffName)
	require.Len(t, assigned.StatusUpdates, 1)
	require.Contains(t, rec.types(), events.EventRequestAssigned)
}

func TestListFiltersAndDerivesReopen(t *testing.T) {
	svc, _, _, _ := newRequestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	other := validInput()
	other.RequesterID = "student2"
	other.Type = domain.RequestTypeIT
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first.ID, domain.RequestStatusClosed, "done", "Jane")
	require.NoError(t, err)

	requester := "student1"
	mine, err := svc.List(ctx, RequestFilter{RequesterID: &requester})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.True(t, mine[0].CanBeReopened)

	it := domain.RequestTypeIT
	byType, err := svc.List(ctx, RequestFilter{Type: &it})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "student2", byType[0].RequesterID)

	all, err := svc.List(ctx, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, first.ID, all[0].ID)
}

type failingUpdateRepo struct {
	repository.RequestRepository
}

func (failingUpdateRepo) Update(context.Context, *domain.Request) error {
	return errors.New("disk full")
}

func TestFailedUpdateLeavesStoreUntouched(t *testing.T) {
	base := repository.NewMemoryRequestRepository()
	clock := newTestClock()
	ctx := context.Background()

	creator := NewRequestService(RequestDependencies{RequestRepo: base, Clock: clock.Now})
	req, err := creator.Create(ctx, validInput())
	require.NoError(t, err)

	svc := NewRequestService(RequestDependencies{RequestRepo: failingUpdateRepo{base}, Clock: clock.Now})
	_, err = svc.UpdateStatus(ctx, req.ID, domain.RequestStatusClosed, "done", "Jane")
	require.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	stored, err := base.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusOpen, stored.Status)
	require.Len(t, stored.StatusUpdates, 1)
}

func TestConcurrentUpdatesKeepEveryEntry(t *testing.T) {
	svc, _, _, _ := newRequestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	const writers = 20
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.UpdateStatus(ctx, req.ID, domain.RequestStatusInProgress, "working", "Jane")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, got.StatusUpdates, writers+1)
}

func TestClosedRequestWithoutClosingUpdateIsNotReopenable(t *testing.T) {
	svc, repo, clock, _ := newRequestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Request{
		ID:        "req-legacy",
		Status:    domain.RequestStatusClosed,
		CreatedAt: clock.Now(),
		UpdatedAt: clock.Now(),
		StatusUpdates: []domain.StatusUpdate{
			{ID: "u1", RequestID: "req-legacy", Status: domain.RequestStatusOpen, UpdatedAt: clock.Now()},
		},
	}))

	got, err := svc.GetByID(ctx, "req-legacy")
	require.NoError(t, err)
	require.False(t, got.CanBeReopened)
}
