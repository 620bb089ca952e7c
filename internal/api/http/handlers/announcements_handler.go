package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/facade"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// AnnouncementsHandler manages broadcast notices.
type AnnouncementsHandler struct {
	helpdesk facade.Helpdesk
}

// NewAnnouncementsHandler constructs handler.
func NewAnnouncementsHandler(helpdesk facade.Helpdesk) *AnnouncementsHandler {
	return &AnnouncementsHandler{helpdesk: helpdesk}
}

// List GET /announcements.
func (h *AnnouncementsHandler) List(c *fiber.Ctx) error {
	items, err := h.helpdesk.ListAnnouncements(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.AnnouncementResponse, 0, len(items))
	for i := range items {
		out = append(out, announcementResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create POST /announcements.
func (h *AnnouncementsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	a, err := h.helpdesk.CreateAnnouncement(c.UserContext(), service.CreateAnnouncementInput{
		Title:     req.Title,
		Content:   req.Content,
		Important: req.Important,
		CreatedBy: firstNonEmpty(req.CreatedBy, principalName(c)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": announcementResponse(a)})
}

// Delete DELETE /announcements/:id.
func (h *AnnouncementsHandler) Delete(c *fiber.Ctx) error {
	if err := h.helpdesk.DeleteAnnouncement(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
