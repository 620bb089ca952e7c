package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/facade"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// ChatHandler exposes the per-request message thread.
type ChatHandler struct {
	helpdesk facade.Helpdesk
}

// NewChatHandler constructs handler.
func NewChatHandler(helpdesk facade.Helpdesk) *ChatHandler {
	return &ChatHandler{helpdesk: helpdesk}
}

// ListMessages GET /requests/:id/messages.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	msgs, err := h.helpdesk.ListMessages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, chatMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PostMessage POST /requests/:id/messages.
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if p, ok := auth.PrincipalFromContext(c); ok {
		req.SenderID = firstNonEmpty(req.SenderID, p.AccountID)
		req.SenderName = firstNonEmpty(req.SenderName, p.Name)
		if req.SenderRole == "" {
			req.SenderRole = p.SenderRole()
		}
	}

	msg, err := h.helpdesk.PostMessage(c.UserContext(), service.PostMessageInput{
		RequestID:   c.Params("id"),
		SenderID:    req.SenderID,
		SenderName:  req.SenderName,
		SenderRole:  req.SenderRole,
		Message:     req.Message,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": chatMessageResponse(msg)})
}

// UploadAttachment POST /requests/:id/attachments (multipart field "file").
func (h *ChatHandler) UploadAttachment(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{"file": "required"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	url, err := h.helpdesk.AttachFile(c.UserContext(), c.Params("id"), header.Filename, file)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AttachmentResponse{URL: url}})
}

// MarkRead POST /requests/:id/messages/read.
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	var req dto.MarkReadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if p, ok := auth.PrincipalFromContext(c); ok && req.ReaderRole == "" {
		req.ReaderRole = p.SenderRole()
	}
	changed, err := h.helpdesk.MarkRead(c.UserContext(), c.Params("id"), req.ReaderRole)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": changed}})
}
