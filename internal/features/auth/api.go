package auth

import (
	"mineaction/internal/config"
	"mineaction/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
	resolver   middleware.SessionResolver
}

func NewAuthApi(controller *AuthController, config *config.Config, resolver middleware.SessionResolver) *AuthApi {
	return &AuthApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers sign-in and session routes
func (h *AuthApi) Setup(app *fiber.App) {
	requireAuth := middleware.AuthMiddleware(h.resolver, h.config.SkipAuth)

	// Public routes
	app.Get("/api/auth/login", h.controller.Login)
	app.Post("/api/auth/callback", h.controller.Callback)

	app.Post("/api/auth/logout", requireAuth, h.controller.Logout)

	session := app.Group("/api/session", requireAuth)
	session.Get("/", h.controller.GetSession)
	session.Put("/role", h.controller.SetRole)
	session.Get("/route-access", h.controller.RouteAccess)
}
