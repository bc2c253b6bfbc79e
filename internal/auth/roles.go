package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

// RequireMember ensures a caller is authenticated.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the member holds one of the allowed roles.
func RequireRole(allowed ...domain.MemberRole) fiber.Handler {
	allowedSet := make(map[domain.MemberRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
