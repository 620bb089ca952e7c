package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/api/dto"
	"github.com/campus-kit/helpdesk/internal/service"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// AuthHandler exposes sign-in for demo accounts.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: exp, Account: accountResponse(account)},
	})
}
