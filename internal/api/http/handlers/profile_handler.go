package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/facade"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// ProfileHandler serves the signed-in caller's own profile.
type ProfileHandler struct {
	helpdesk facade.Helpdesk
}

// NewProfileHandler constructs handler.
func NewProfileHandler(helpdesk facade.Helpdesk) *ProfileHandler {
	return &ProfileHandler{helpdesk: helpdesk}
}

// Get GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in to view your profile")
	}
	account, err := h.helpdesk.GetProfile(c.UserContext(), p.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}

// Update PATCH /profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign in to edit your profile")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.helpdesk.UpdateProfile(c.UserContext(), p.AccountID, service.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		Department:  req.Department,
		StudentID:   req.StudentID,
		ContactInfo: req.ContactInfo,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}
