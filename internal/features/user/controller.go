package user

import (
	"context"

	"mineaction/internal/common/api"
	"mineaction/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// RoleFinder resolves a role name against the registry.
type RoleFinder interface {
	FindRole(ctx context.Context, name string) (*models.RoleDefinition, error)
}

type UserController struct {
	UserService UserService
	Roles       RoleFinder
}

func NewUserController(userService UserService, roles RoleFinder) *UserController {
	return &UserController{
		UserService: userService,
		Roles:       roles,
	}
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {array} UserRecord
// @Router       /api/admin/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.UserService.ListUsers(c.UserContext())
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(users)
}

// SetUserRole godoc
// @Summary      Assign a role to a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        uid   path string         true "User UID"
// @Param        input body SetRoleRequest true "Role"
// @Success      200  {object} map[string]string
// @Failure      400  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Router       /api/admin/users/{uid}/role [put]
func (ctrl *UserController) SetUserRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if _, err := ctrl.Roles.FindRole(c.UserContext(), req.Role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown role",
		})
	}

	uid := c.Params("uid")
	if err := ctrl.UserService.SetRole(c.UserContext(), uid, req.Role); err != nil {
		return api.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"uid":  uid,
		"role": req.Role,
	})
}
