package action

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActionApi struct {
	controller *ActionController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewActionApi(controller *ActionController, config *config.Config, resolver middleware.SessionResolver) *ActionApi {
	return &ActionApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers action routes. Comments and evidence are open to every
// role, other mutations need a manager role.
func (h *ActionApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.resolver, h.config.SkipAuth)
	read := middleware.RequireRoles(middleware.AllRoles...)
	write := middleware.RequireRoles(middleware.ManagerRoles...)

	app.Get("/api/activities/:id/actions", auth, read, h.controller.ListActivityActions)
	app.Post("/api/activities/:id/actions", auth, write, h.controller.CreateAction)

	actions := app.Group("/api/actions", auth)
	actions.Get("/", read, h.controller.ListActions)
	actions.Get("/:id", read, h.controller.GetAction)
	actions.Put("/:id", write, h.controller.UpdateAction)
	actions.Delete("/:id", write, h.controller.DeleteAction)
	actions.Patch("/:id/status", write, h.controller.UpdateStatus)
	actions.Patch("/:id/status/audited", write, h.controller.UpdateStatusAudited)
	actions.Post("/:id/comments", read, h.controller.AddComment)
	actions.Post("/:id/evidence", read, h.controller.AddEvidence)
}
