package access

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccessApi struct {
	controller *AccessController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewAccessApi(controller *AccessController, config *config.Config, resolver middleware.SessionResolver) *AccessApi {
	return &AccessApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *AccessApi) Setup(app *fiber.App) {
	group := app.Group("/api/access", middleware.OptionalAuth(h.resolver, h.config.SkipAuth))

	group.Get("/check", h.controller.Check)
	group.Get("/routes", h.controller.ListRoutes)
}
