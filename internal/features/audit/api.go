package audit

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewAuditApi(controller *AuditController, config *config.Config, resolver middleware.SessionResolver) *AuditApi {
	return &AuditApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs",
		middleware.AuthMiddleware(h.resolver, h.config.SkipAuth),
		middleware.RequireRoles(middleware.ManagerRoles...),
	)

	audit.Get("/", h.controller.ListLogs)
	audit.Get("/daily-summary", h.controller.DailySummary)
}
