package activity

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActivityApi struct {
	controller *ActivityController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewActivityApi(controller *ActivityController, config *config.Config, resolver middleware.SessionResolver) *ActivityApi {
	return &ActivityApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

func (h *ActivityApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.resolver, h.config.SkipAuth)
	read := middleware.RequireRoles(middleware.AllRoles...)
	write := middleware.RequireRoles(middleware.ManagerRoles...)

	app.Get("/api/projects/:id/activities", auth, read, h.controller.ListProjectActivities)
	app.Post("/api/projects/:id/activities", auth, write, h.controller.CreateActivity)

	activities := app.Group("/api/activities", auth)
	activities.Get("/", read, h.controller.ListActivities)
	activities.Get("/:id", read, h.controller.GetActivity)
	activities.Put("/:id", write, h.controller.UpdateActivity)
	activities.Delete("/:id", write, h.controller.DeleteActivity)
}
