package role

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewRoleApi(controller *RoleController, config *config.Config, resolver middleware.SessionResolver) *RoleApi {
	return &RoleApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(h.resolver, h.config.SkipAuth))

	roles.Get("/", h.controller.ListRoles)

	admin := middleware.RequireRoles(middleware.AdminOnly...)
	roles.Post("/", admin, h.controller.CreateRole)
	roles.Put("/:id/routes", admin, h.controller.UpdateRoleAccess)
}
