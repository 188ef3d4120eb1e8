package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/admissions-go-api/internal/utils"
)

// Dashboard roles. Admins manage everything; staff review applications,
// manage cohorts and publish content.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// RequireAdmissionsStaff guards the /api/admin surface of the dashboard.
func RequireAdmissionsStaff() fiber.Handler {
	return RequireRole(RoleAdmin, RoleStaff)
}

// RequireRole lets the request through only when the reviewer's token role
// is one of the listed ones.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := allowed[ReviewerRole(c)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
