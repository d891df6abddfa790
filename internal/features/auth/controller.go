package auth

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

// Login godoc
// @Summary      Start sign-in
// @Description  Returns the identity provider URL to send the browser to
// @Tags         auth
// @Produce      json
// @Success      200  {object} LoginResponse
// @Failure      401  {object} map[string]string
// @Router       /api/auth/login [get]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	url, err := ctrl.AuthService.SignInURL(c.UserContext())
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(LoginResponse{URL: url})
}

// Callback godoc
// @Summary      Complete sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body CallbackRequest true "Authorization code and state"
// @Success      200  {object} AuthResponse
// @Failure      400  {object} map[string]string
// @Failure      401  {object} map[string]string
// @Router       /api/auth/callback [post]
func (ctrl *AuthController) Callback(c *fiber.Ctx) error {
	var req CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := ctrl.AuthService.SignIn(c.UserContext(), req.Code, req.State)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(resp)
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object} LogoutResponse
// @Router       /api/auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	url := ctrl.AuthService.Logout(c.UserContext(), api.CurrentSession(c))
	return c.JSON(LogoutResponse{EndSessionURL: url})
}

// GetSession godoc
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object} models.Session
// @Failure      401  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/session [get]
func (ctrl *AuthController) GetSession(c *fiber.Ctx) error {
	return c.JSON(api.CurrentSession(c))
}

// SetRole godoc
// @Summary      Change your own role
// @Description  Only available when self-service role assignment is enabled
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body SetRoleRequest true "Role"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]interface{}
// @Router       /api/session/role [put]
func (ctrl *AuthController) SetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, ok := ctrl.AuthService.SetUserRole(c.UserContext(), api.CurrentSession(c), req.Role)
	status := fiber.StatusOK
	if !ok {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"success": ok,
		"session": session,
	})
}

// RouteAccess godoc
// @Summary      Check the role registry for a page
// @Tags         auth
// @Produce      json
// @Param        path query string true "Page path, e.g. /reports"
// @Success      200  {object} map[string]interface{}
// @Router       /api/session/route-access [get]
func (ctrl *AuthController) RouteAccess(c *fiber.Ctx) error {
	path := c.Query("path")
	return c.JSON(fiber.Map{
		"path":    path,
		"allowed": api.CurrentSession(c).HasRouteAccess(path),
	})
}
