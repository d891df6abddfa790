package user

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewUserApi(controller *UserController, config *config.Config, resolver middleware.SessionResolver) *UserApi {
	return &UserApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers the admin user-management routes
func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/admin/users",
		middleware.AuthMiddleware(h.resolver, h.config.SkipAuth),
		middleware.RequireRoles(middleware.AdminOnly...),
	)

	users.Get("/", h.controller.ListUsers)
	users.Put("/:uid/role", h.controller.SetUserRole)
}
