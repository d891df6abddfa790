package project

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProjectApi struct {
	controller *ProjectController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewProjectApi(controller *ProjectController, config *config.Config, resolver middleware.SessionResolver) *ProjectApi {
	return &ProjectApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers project and team routes
func (h *ProjectApi) Setup(app *fiber.App) {
	projects := app.Group("/api/projects", middleware.AuthMiddleware(h.resolver, h.config.SkipAuth))

	read := middleware.RequireRoles(middleware.AllRoles...)
	write := middleware.RequireRoles(middleware.ManagerRoles...)

	projects.Get("/", read, h.controller.ListProjects)
	projects.Get("/mine", read, h.controller.ListMyProjects)
	projects.Get("/:id", read, h.controller.GetProject)
	projects.Post("/", write, h.controller.CreateProject)
	projects.Put("/:id", write, h.controller.UpdateProject)
	projects.Delete("/:id", write, h.controller.DeleteProject)

	// Team
	projects.Post("/:id/users", write, h.controller.AddUser)
	projects.Put("/:id/users/:uid", write, h.controller.UpdateUserRole)
	projects.Delete("/:id/users/:uid", write, h.controller.RemoveUser)
}
