package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

func TestReportGenerate(t *testing.T) {
	repo := repository.NewMemoryRequestRepository()
	clock := newTestClock()
	requests := NewRequestService(RequestDependencies{RequestRepo: repo, Clock: clock.Now})
	reports := NewReportService(repo)
	ctx := context.Background()

	empty, err := reports.Generate(ctx)
	require.NoError(t, err)
	require.Zero(t, empty.TotalRequests)
	require.Zero(t, empty.AverageResolutionTimeInHours)
	require.Len(t, empty.RequestsByType, len(domain.RequestTypes))
	require.Empty(t, empty.RequestsByMonth)

	// April: one IT request resolved after 10h then closed.
	clock.t = time.Date(2025, 4, 20, 8, 0, 0, 0, time.UTC)
	in := validInput()
	in.Type = domain.RequestTypeIT
	in.Priority = domain.RequestPriorityHigh
	first, err := requests.Create(ctx, in)
	require.NoError(t, err)
	clock.Advance(10 * time.Hour)
	_, err = requests.UpdateStatus(ctx, first.ID, domain.RequestStatusResolved, "fixed", "Jane")
	require.NoError(t, err)
	clock.Advance(10 * time.Hour)
	_, err = requests.UpdateStatus(ctx, first.ID, domain.RequestStatusClosed, "closing", "Jane")
	require.NoError(t, err)

	// May: one closed after 5h, one still open.
	clock.t = time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	second, err := requests.Create(ctx, validInput())
	require.NoError(t, err)
	clock.Advance(5 * time.Hour)
	_, err = requests.UpdateStatus(ctx, second.ID, domain.RequestStatusClosed, "done", "Jane")
	require.NoError(t, err)
	_, err = requests.Create(ctx, validInput())
	require.NoError(t, err)

	report, err := reports.Generate(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalRequests)
	require.Equal(t, 1, report.OpenRequests)
	require.Equal(t, 2, report.ClosedRequests)
	require.InDelta(t, 7.5, report.AverageResolutionTimeInHours, 1e-9)

	require.Equal(t, []domain.ChartPoint{
		{Label: "Maintenance", Value: 2},
		{Label: "IT", Value: 1},
		{Label: "ID Card", Value: 0},
		{Label: "Financial", Value: 0},
		{Label: "Academic", Value: 0},
		{Label: "Other", Value: 0},
	}, report.RequestsByType)
	require.Equal(t, []domain.ChartPoint{
		{Label: "Low", Value: 0},
		{Label: "Medium", Value: 2},
		{Label: "High", Value: 1},
	}, report.RequestsByPriority)
	require.Equal(t, []domain.ChartPoint{
		{Label: "Apr 2025", Value: 1},
		{Label: "May 2025", Value: 2},
	}, report.RequestsByMonth)
}

func TestAnnouncementService(t *testing.T) {
	clock := newTestClock()
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	dispatcher.Subscribe(events.EventAnnouncementCreated, rec.handle)
	svc := NewAnnouncementService(AnnouncementDependencies{
		AnnouncementRepo: repository.NewMemoryAnnouncementRepository(),
		Dispatcher:       dispatcher,
		Clock:            clock.Now,
	})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAnnouncementInput{Title: " ", Content: "body"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	older, err := svc.Create(ctx, CreateAnnouncementInput{Title: "Library hours", Content: "Open till 10pm"})
	require.NoError(t, err)
	require.Equal(t, "System", older.CreatedBy)
	clock.Advance(time.Hour)
	newer, err := svc.Create(ctx, CreateAnnouncementInput{Title: "Exam week", Content: "Quiet please", Important: true, CreatedBy: "Admin"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, newer.ID, items[0].ID)
	require.Len(t, rec.types(), 2)

	require.NoError(t, svc.Delete(ctx, older.ID))
	err = svc.Delete(ctx, older.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
