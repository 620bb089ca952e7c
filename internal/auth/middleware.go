package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk/internal/domain"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the signed-in caller.
type Principal struct {
	AccountID string
	Name      string
	Role      domain.AccountRole
}

// SenderRole maps the account role onto the chat side it writes from.
func (p *Principal) SenderRole() domain.SenderRole {
	if p == nil {
		return domain.SenderRoleStudent
	}
	return SenderRoleFor(p.Role)
}

// IdentityMiddleware attaches a principal when a bearer token is present.
// Requests without a token pass through anonymously; a malformed or expired
// token is rejected.
type IdentityMiddleware struct {
	tokens *TokenManager
}

// NewIdentityMiddleware constructs middleware.
func NewIdentityMiddleware(tokens *TokenManager) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens}
}

// Handle parses the Authorization header if any.
func (m *IdentityMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{AccountID: claims.AccountID, Name: claims.Name, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the signed-in caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
