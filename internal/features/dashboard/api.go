package dashboard

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	controller *DashboardController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewDashboardApi(controller *DashboardController, config *config.Config, resolver middleware.SessionResolver) *DashboardApi {
	return &DashboardApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *DashboardApi) Setup(app *fiber.App) {
	dashboard := app.Group("/api/dashboard",
		middleware.AuthMiddleware(h.resolver, h.config.SkipAuth),
		middleware.RequireRoles(middleware.ManagerRoles...),
	)
	dashboard.Get("/stats", h.controller.GetStats)
}
