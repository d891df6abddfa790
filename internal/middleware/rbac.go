package middleware

import (
	"mineaction/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// Role sets used for in-page gating of the API.
var (
	AllRoles     = []string{models.RoleAdmin, models.RoleSupervisor, models.RoleOperator}
	ManagerRoles = []string{models.RoleAdmin, models.RoleSupervisor}
	AdminOnly    = []string{models.RoleAdmin}
)

// RequireRoles rejects sessions whose role is not one of roles. A session
// without a role is always rejected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := c.Locals(models.SessionKey).(*models.Session)
		if !session.Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !session.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient role",
			})
		}

		return c.Next()
	}
}
