package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated member and their tenant. Every
// organization-scoped operation takes its organization id from here, never
// from client-supplied parameters.
type Principal struct {
	User           *domain.User
	OrganizationID string
	Role           domain.MemberRole
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.IsActive {
		return apperrors.NewUnauthorized("account disabled")
	}
	// The organization in the token must still match the membership row.
	if user.OrganizationID != claims.OrganizationID {
		return apperrors.NewUnauthorized("stale token")
	}

	c.Locals(principalKey, &Principal{
		User:           user,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated member.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
