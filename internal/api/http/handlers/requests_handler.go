package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/facade"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// RequestsHandler manages request lifecycle endpoints.
type RequestsHandler struct {
	helpdesk facade.Helpdesk
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(helpdesk facade.Helpdesk) *RequestsHandler {
	return &RequestsHandler{helpdesk: helpdesk}
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	filter, err := parseRequestQuery(c)
	if err != nil {
		return err
	}
	requests, err := h.helpdesk.ListRequests(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, requestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if p, ok := auth.PrincipalFromContext(c); ok {
		req.RequesterID = firstNonEmpty(req.RequesterID, p.AccountID)
		req.RequesterName = firstNonEmpty(req.RequesterName, p.Name)
	}

	created, err := h.helpdesk.CreateRequest(c.UserContext(), service.CreateRequestInput{
		RequesterID:             req.RequesterID,
		RequesterName:           req.RequesterName,
		Type:                    req.Type,
		Title:                   req.Title,
		Description:             req.Description,
		Priority:                req.Priority,
		Department:              req.Department,
		SupportingDocuments:     req.SupportingDocuments,
		CommunicationPreference: req.CommunicationPreference,
		IsUrgent:                req.IsUrgent,
		Deadline:                req.Deadline,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(created)})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	req, err := h.helpdesk.GetRequest(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(req)})
}

// UpdateStatus PATCH /requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.helpdesk.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Comment,
		firstNonEmpty(req.UpdatedBy, principalName(c)))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(updated)})
}

// Reopen POST /requests/:id/reopen.
func (h *RequestsHandler) Reopen(c *fiber.Ctx) error {
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reopened, err := h.helpdesk.ReopenRequest(c.UserContext(), c.Params("id"), req.Comment,
		firstNonEmpty(req.UpdatedBy, principalName(c)))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(reopened)})
}

// SubmitFeedback POST /requests/:id/feedback.
func (h *RequestsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rated, err := h.helpdesk.SubmitFeedback(c.UserContext(), c.Params("id"), req.Rating, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(rated)})
}

// Assign POST /requests/:id/assign.
func (h *RequestsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if p, ok := auth.PrincipalFromContext(c); ok && req.StaffID == "" {
		req.StaffID, req.StaffName = p.AccountID, p.Name
	}
	assigned, err := h.helpdesk.AssignRequest(c.UserContext(), c.Params("id"), req.StaffID, req.StaffName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(assigned)})
}

// Report GET /reports.
func (h *RequestsHandler) Report(c *fiber.Ctx) error {
	report, err := h.helpdesk.GenerateReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(report)})
}

func parseRequestQuery(c *fiber.Ctx) (service.RequestFilter, error) {
	filter := service.RequestFilter{}
	if v := c.Query("requester_id"); v != "" {
		filter.RequesterID = &v
	}
	if v := domain.RequestType(c.Query("type")); v != "" {
		if !v.Valid() {
			return filter, apperrors.NewValidationError("type is invalid", map[string]any{"type": string(v)})
		}
		filter.Type = &v
	}
	if v := domain.RequestStatus(c.Query("status")); v != "" {
		if !v.Valid() {
			return filter, apperrors.NewValidationError("status is invalid", map[string]any{"status": string(v)})
		}
		filter.Status = &v
	}
	if v := domain.RequestPriority(c.Query("priority")); v != "" {
		if !v.Valid() {
			return filter, apperrors.NewValidationError("priority is invalid", map[string]any{"priority": string(v)})
		}
		filter.Priority = &v
	}
	return filter, nil
}
