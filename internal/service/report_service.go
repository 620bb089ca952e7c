package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

const monthLabelLayout = "Jan 2006"

var (
	typeLabels = map[domain.RequestType]string{
		domain.RequestTypeMaintenance: "Maintenance",
		domain.RequestTypeIT:          "IT",
		domain.RequestTypeIDCard:      "ID Card",
		domain.RequestTypeFinancial:   "Financial",
		domain.RequestTypeAcademic:    "Academic",
		domain.RequestTypeOther:       "Other",
	}
	priorityLabels = map[domain.RequestPriority]string{
		domain.RequestPriorityLow:    "Low",
		domain.RequestPriorityMedium: "Medium",
		domain.RequestPriorityHigh:   "High",
	}
)

// ReportService aggregates request statistics for the admin dashboard.
type ReportService struct {
	requests repository.RequestRepository
}

// NewReportService constructs the service.
func NewReportService(requests repository.RequestRepository) *ReportService {
	return &ReportService{requests: requests}
}

// Generate computes a report over every stored request. Requests that are
// open or in progress count as open; resolved and closed count as closed.
func (s *ReportService) Generate(ctx context.Context) (*domain.Report, error) {
	requests, err := s.requests.List(ctx, repository.RequestFilter{})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	report := &domain.Report{TotalRequests: len(requests)}
	byType := make(map[domain.RequestType]int)
	byPriority := make(map[domain.RequestPriority]int)
	byMonth := make(map[time.Time]int)

	var resolvedCount int
	var resolvedHours float64
	for i := range requests {
		req := &requests[i]
		switch req.Status {
		case domain.RequestStatusResolved, domain.RequestStatusClosed:
			report.ClosedRequests++
		default:
			report.OpenRequests++
		}
		byType[req.Type]++
		byPriority[req.Priority]++

		created := req.CreatedAt.UTC()
		byMonth[time.Date(created.Year(), created.Month(), 1, 0, 0, 0, 0, time.UTC)]++

		if resolvedAt, ok := firstResolution(req); ok {
			resolvedCount++
			resolvedHours += resolvedAt.Sub(req.CreatedAt).Hours()
		}
	}

	for _, t := range domain.RequestTypes {
		report.RequestsByType = append(report.RequestsByType, domain.ChartPoint{Label: typeLabels[t], Value: byType[t]})
	}
	for _, p := range domain.RequestPriorities {
		report.RequestsByPriority = append(report.RequestsByPriority, domain.ChartPoint{Label: priorityLabels[p], Value: byPriority[p]})
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	report.RequestsByMonth = make([]domain.ChartPoint, 0, len(months))
	for _, m := range months {
		report.RequestsByMonth = append(report.RequestsByMonth, domain.ChartPoint{Label: m.Format(monthLabelLayout), Value: byMonth[m]})
	}

	if resolvedCount > 0 {
		report.AverageResolutionTimeInHours = math.Round(resolvedHours/float64(resolvedCount)*10) / 10
	}
	return report, nil
}

func firstResolution(req *domain.Request) (time.Time, bool) {
	for _, upd := range req.StatusUpdates {
		if upd.Status == domain.RequestStatusResolved || upd.Status == domain.RequestStatusClosed {
			return upd.UpdatedAt, true
		}
	}
	return time.Time{}, false
}
