package export

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	controller *ExportController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewExportApi(controller *ExportController, config *config.Config, resolver middleware.SessionResolver) *ExportApi {
	return &ExportApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *ExportApi) Setup(app *fiber.App) {
	exports := app.Group("/api/exports",
		middleware.AuthMiddleware(h.resolver, h.config.SkipAuth),
		middleware.RequireRoles(middleware.ManagerRoles...),
	)
	exports.Get("/:kind", h.controller.Export)
}
