// Package seed loads the demo data set the helpdesk ships with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/repository"
	"github.com/campus-kit/helpdesk/internal/service"
)

// Dependencies are the stores the seeder writes to.
type Dependencies struct {
	Requests      repository.RequestRepository
	Announcements repository.AnnouncementRepository
	Auth          *service.AuthService
	Logger        *zap.Logger
}

// Run inserts the demo data. Records that already exist are left alone, so
// running it twice is harmless.
func Run(ctx context.Context, deps Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var created int
	for _, req := range demoRequests() {
		err := deps.Requests.Create(ctx, req)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case err != nil:
			return fmt.Errorf("seed request %s: %w", req.ID, err)
		}
		created++
	}
	logger.Info("seeded requests", zap.Int("created", created))

	created = 0
	for _, a := range demoAnnouncements() {
		err := deps.Announcements.Create(ctx, &a)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case err != nil:
			return fmt.Errorf("seed announcement %s: %w", a.ID, err)
		}
		created++
	}
	logger.Info("seeded announcements", zap.Int("created", created))

	if deps.Auth == nil {
		return nil
	}
	for _, acc := range demoAccounts() {
		if _, err := deps.Auth.RegisterAccount(ctx, acc); err != nil {
			logger.Debug("demo account not added", zap.String("email", acc.Email), zap.Error(err))
		}
	}
	return nil
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

type update struct {
	status domain.RequestStatus
	at     string
	by     string
	note   string
}

func build(id, requester, name string, typ domain.RequestType, priority domain.RequestPriority, description string, updates ...update) *domain.Request {
	req := &domain.Request{
		ID:            id,
		RequesterID:   requester,
		RequesterName: name,
		Type:          typ,
		Description:   description,
		Priority:      priority,
		CreatedAt:     ts(updates[0].at),
	}
	for i, u := range updates {
		req.StatusUpdates = append(req.StatusUpdates, domain.StatusUpdate{
			ID:        fmt.Sprintf("%s-upd-%d", id, i+1),
			RequestID: id,
			Status:    u.status,
			Comment:   u.note,
			UpdatedAt: ts(u.at),
			UpdatedBy: u.by,
		})
	}
	last := updates[len(updates)-1]
	req.Status = last.status
	req.UpdatedAt = ts(last.at)
	return req
}

func demoRequests() []*domain.Request {
	return []*domain.Request{
		build("req-001", "student1", "John Smith", domain.RequestTypeMaintenance, domain.RequestPriorityMedium,
			"Broken chair in classroom 101",
			update{domain.RequestStatusOpen, "2025-05-01T10:30:00Z", "System", "Request received and assigned to maintenance team"}),
		build("req-002", "student1", "John Smith", domain.RequestTypeIT, domain.RequestPriorityHigh,
			"Cannot access the college WiFi network",
			update{domain.RequestStatusOpen, "2025-04-28T14:15:00Z", "System", "Request received"},
			update{domain.RequestStatusInProgress, "2025-05-01T09:20:00Z", "Admin User", "IT team is investigating the issue with the WiFi network"}),
		build("req-003", "student1", "John Smith", domain.RequestTypeIDCard, domain.RequestPriorityMedium,
			"Lost my student ID card and need a replacement",
			update{domain.RequestStatusOpen, "2025-04-20T11:00:00Z", "System", "Request received"},
			update{domain.RequestStatusInProgress, "2025-04-21T09:15:00Z", "Admin User", "New ID card is being prepared"},
			update{domain.RequestStatusClosed, "2025-04-22T15:30:00Z", "Admin User", "New ID card has been issued. Please collect from the admin office"}),
		build("req-004", "student2", "Jane Doe", domain.RequestTypeFinancial, domain.RequestPriorityLow,
			"Question about scholarship payment schedule",
			update{domain.RequestStatusOpen, "2025-04-15T10:00:00Z", "System", "Request received"},
			update{domain.RequestStatusClosed, "2025-04-16T14:20:00Z", "Admin User", "Information provided about scholarship payment schedule via email"}),
		build("req-005", "student3", "Michael Johnson", domain.RequestTypeAcademic, domain.RequestPriorityMedium,
			"Need help with course registration for next semester",
			update{domain.RequestStatusOpen, "2025-05-02T09:45:00Z", "System", "Request received and forwarded to academic advisors"}),
	}
}

func demoAnnouncements() []domain.Announcement {
	return []domain.Announcement{
		{
			ID:        "ann-001",
			Title:     "Campus WiFi Maintenance",
			Content:   "The campus WiFi network will be undergoing maintenance this Saturday from 2 AM to 6 AM. During this time, you may experience connectivity issues.",
			Important: true,
			CreatedAt: ts("2025-05-01T14:00:00Z"),
			CreatedBy: "IT Department",
		},
		{
			ID:        "ann-002",
			Title:     "Library Extended Hours",
			Content:   "The library will have extended hours during finals week, staying open until midnight from May 15-22.",
			CreatedAt: ts("2025-04-28T10:15:00Z"),
			CreatedBy: "Library Services",
		},
		{
			ID:        "ann-003",
			Title:     "Student ID Card Renewal",
			Content:   "All students are reminded to renew their ID cards for the upcoming academic year. Please visit the admin office with your current ID card.",
			Important: true,
			CreatedAt: ts("2025-04-25T11:30:00Z"),
			CreatedBy: "Administrative Office",
		},
		{
			ID:        "ann-004",
			Title:     "New Online Payment System",
			Content:   "We've upgraded our payment system. You can now pay tuition and fees through the new student portal, which offers more payment options and improved security.",
			CreatedAt: ts("2025-04-20T09:00:00Z"),
			CreatedBy: "Finance Department",
		},
	}
}

func demoAccounts() []service.RegisterAccountInput {
	return []service.RegisterAccountInput{
		{
			ID:       "admin1",
			Name:     "Admin User",
			Email:    "admin@college.edu",
			Password: "admin123",
			Role:     domain.AccountRoleAdmin,
		},
		{
			ID:          "student1",
			Name:        "John Smith",
			Email:       "john@college.edu",
			Password:    "student123",
			Role:        domain.AccountRoleStudent,
			Department:  "Computer Science",
			StudentID:   "CS12345",
			ContactInfo: "john.smith@college.edu",
		},
	}
}
