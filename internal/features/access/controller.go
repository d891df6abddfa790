package access

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AccessController struct {
	Policy Policy
}

func NewAccessController(policy Policy) *AccessController {
	return &AccessController{Policy: policy}
}

// Check godoc
// @Summary      Decide whether a page may be opened
// @Description  Works with or without a bearer token; without one the answer is a sign-in redirect
// @Tags         access
// @Produce      json
// @Param        path query string true "Page path"
// @Success      200  {object} Decision
// @Failure      400  {object} map[string]string
// @Router       /api/access/check [get]
func (ctrl *AccessController) Check(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "path is required",
		})
	}
	return c.JSON(ctrl.Policy.Decide(path, api.CurrentSession(c)))
}

// ListRoutes godoc
// @Summary      Page access table
// @Tags         access
// @Produce      json
// @Success      200  {array} RouteAccess
// @Router       /api/access/routes [get]
func (ctrl *AccessController) ListRoutes(c *fiber.Ctx) error {
	guard, ok := ctrl.Policy.(*RouteGuard)
	if !ok {
		return c.JSON([]RouteAccess{})
	}
	return c.JSON(guard.Routes)
}
