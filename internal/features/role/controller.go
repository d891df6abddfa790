package role

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	Service RoleService
}

func NewRoleController(service RoleService) *RoleController {
	return &RoleController{Service: service}
}

// ListRoles godoc
// @Summary      List role definitions
// @Description  Built-in roles first, then custom roles
// @Tags         roles
// @Produce      json
// @Success      200  {array} models.RoleDefinition
// @Router       /api/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.ListRoles(c.UserContext()))
}

// CreateRole godoc
// @Summary      Create a custom role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        input body CreateRoleRequest true "Role"
// @Success      201  {object} models.RoleDefinition
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string "Name already taken"
// @Router       /api/roles [post]
func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	role, err := ctrl.Service.CreateRole(c.UserContext(), req)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRoleAccess godoc
// @Summary      Replace a custom role's routes
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path string              true "Role ID"
// @Param        input body UpdateRoutesRequest true "Routes"
// @Success      200  {object} models.RoleDefinition
// @Failure      400  {object} map[string]string "Built-in roles are fixed"
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/roles/{id}/routes [put]
func (ctrl *RoleController) UpdateRoleAccess(c *fiber.Ctx) error {
	var req UpdateRoutesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	role, err := ctrl.Service.UpdateRoleAccess(c.UserContext(), c.Params("id"), req.Routes)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(role)
}
