package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles.
// Admins pass every gate.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if principal.Role == domain.RoleAdmin || len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures the caller is authenticated, any role.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
