package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/domain"
)

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// principalName returns the signed-in caller's display name, if any.
func principalName(c *fiber.Ctx) string {
	if p, ok := auth.PrincipalFromContext(c); ok {
		return p.Name
	}
	return ""
}

func requestResponse(req *domain.Request) dto.RequestResponse {
	updates := make([]dto.StatusUpdateResponse, 0, len(req.StatusUpdates))
	for _, u := range req.StatusUpdates {
		updates = append(updates, dto.StatusUpdateResponse{
			ID:        u.ID,
			RequestID: u.RequestID,
			Status:    u.Status,
			Comment:   u.Comment,
			UpdatedAt: u.UpdatedAt,
			UpdatedBy: u.UpdatedBy,
		})
	}
	return dto.RequestResponse{
		ID:                      req.ID,
		RequesterID:             req.RequesterID,
		RequesterName:           req.RequesterName,
		Type:                    req.Type,
		Title:                   req.Title,
		Description:             req.Description,
		Priority:                req.Priority,
		Status:                  req.Status,
		CreatedAt:               req.CreatedAt,
		UpdatedAt:               req.UpdatedAt,
		StatusUpdates:           updates,
		Department:              req.Department,
		SupportingDocuments:     req.SupportingDocuments,
		CommunicationPreference: req.CommunicationPreference,
		IsUrgent:                req.IsUrgent,
		Deadline:                req.Deadline,
		AssignedStaffID:         req.AssignedStaffID,
		AssignedStaffName:       req.AssignedStaffName,
		Rating:                  req.Rating,
		Feedback:                req.Feedback,
		CanBeReopened:           req.CanBeReopened,
	}
}

func chatMessageResponse(msg *domain.ChatMessage) dto.ChatMessageResponse {
	attachments := msg.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return dto.ChatMessageResponse{
		ID:          msg.ID,
		RequestID:   msg.RequestID,
		SenderID:    msg.SenderID,
		SenderName:  msg.SenderName,
		SenderRole:  msg.SenderRole,
		Message:     msg.Message,
		Timestamp:   msg.Timestamp,
		Attachments: attachments,
		Read:        msg.Read,
	}
}

func announcementResponse(a *domain.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Important: a.Important,
		CreatedAt: a.CreatedAt,
		CreatedBy: a.CreatedBy,
	}
}

func chartPoints(points []domain.ChartPoint) []dto.ChartPointResponse {
	out := make([]dto.ChartPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.ChartPointResponse{Label: p.Label, Value: p.Value})
	}
	return out
}

func reportResponse(r *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		TotalRequests:                r.TotalRequests,
		OpenRequests:                 r.OpenRequests,
		ClosedRequests:               r.ClosedRequests,
		AverageResolutionTimeInHours: r.AverageResolutionTimeInHours,
		RequestsByType:               chartPoints(r.RequestsByType),
		RequestsByPriority:           chartPoints(r.RequestsByPriority),
		RequestsByMonth:              chartPoints(r.RequestsByMonth),
	}
}

func accountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		Department:  a.Department,
		StudentID:   a.StudentID,
		ContactInfo: a.ContactInfo,
		Phone:       a.Phone,
	}
}
