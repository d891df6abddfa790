package project

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ProjectController struct {
	Service ProjectService
}

func NewProjectController(service ProjectService) *ProjectController {
	return &ProjectController{Service: service}
}

// CreateProject godoc
// @Summary      Create a project
// @Description  The creator joins the team as Project Manager
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        input body CreateProjectRequest true "Project"
// @Success      201  {object} Project
// @Failure      400  {object} map[string]string
// @Router       /api/projects [post]
func (ctrl *ProjectController) CreateProject(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := ctrl.Service.CreateProject(c.UserContext(), req)
	return api.RespondWrite(c, fiber.StatusCreated, project, err)
}

// ListProjects godoc
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Success      200  {array} Project
// @Router       /api/projects [get]
func (ctrl *ProjectController) ListProjects(c *fiber.Ctx) error {
	projects, err := ctrl.Service.ListProjects(c.UserContext())
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(projects)
}

// ListMyProjects godoc
// @Summary      Projects the caller created or belongs to
// @Tags         projects
// @Produce      json
// @Success      200  {array} Project
// @Router       /api/projects/mine [get]
func (ctrl *ProjectController) ListMyProjects(c *fiber.Ctx) error {
	session := api.CurrentSession(c)
	projects, err := ctrl.Service.ListProjectsByUser(c.UserContext(), session.Identity.UID)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(projects)
}

// GetProject godoc
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id  path string true "Project ID"
// @Success      200  {object} Project
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/projects/{id} [get]
func (ctrl *ProjectController) GetProject(c *fiber.Ctx) error {
	project, err := ctrl.Service.GetProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(project)
}

// UpdateProject godoc
// @Summary      Update project fields
// @Description  Partial update. Changed fields are recorded in the audit log in request order.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path string true "Project ID"
// @Success      200  {object} Project
// @Failure      400  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Router       /api/projects/{id} [put]
func (ctrl *ProjectController) UpdateProject(c *fiber.Ctx) error {
	patch, err := api.ParseFields(c)
	if err != nil {
		return api.RespondError(c, err)
	}

	project, err := ctrl.Service.UpdateProject(c.UserContext(), c.Params("id"), patch)
	return api.RespondWrite(c, fiber.StatusOK, project, err)
}

// DeleteProject godoc
// @Summary      Delete a project
// @Description  Activities and actions are kept.
// @Tags         projects
// @Param        id  path string true "Project ID"
// @Success      204
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/projects/{id} [delete]
func (ctrl *ProjectController) DeleteProject(c *fiber.Ctx) error {
	err := ctrl.Service.DeleteProject(c.UserContext(), c.Params("id"))
	return api.RespondWrite(c, fiber.StatusNoContent, nil, err)
}

// AddUser godoc
// @Summary      Add a team member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path string      true "Project ID"
// @Param        input body ProjectUser true "Member"
// @Success      200  {object} Project
// @Failure      409  {object} map[string]string "Already a member"
// @Router       /api/projects/{id}/users [post]
func (ctrl *ProjectController) AddUser(c *fiber.Ctx) error {
	var member ProjectUser
	if err := c.BodyParser(&member); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := ctrl.Service.AddUser(c.UserContext(), c.Params("id"), member)
	return api.RespondWrite(c, fiber.StatusOK, project, err)
}

// UpdateUserRole godoc
// @Summary      Change a member's project role
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path string                true "Project ID"
// @Param        uid   path string                true "Member UID"
// @Param        input body UpdateUserRoleRequest true "Role"
// @Success      200  {object} Project
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/projects/{id}/users/{uid} [put]
func (ctrl *ProjectController) UpdateUserRole(c *fiber.Ctx) error {
	var req UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	project, err := ctrl.Service.UpdateUserRole(c.UserContext(), c.Params("id"), c.Params("uid"), req.Role)
	return api.RespondWrite(c, fiber.StatusOK, project, err)
}

// RemoveUser godoc
// @Summary      Remove a project member
// @Tags         projects
// @Produce      json
// @Param        id  path string true "Project ID"
// @Param        uid path string true "Member UID"
// @Success      200  {object} Project
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/projects/{id}/users/{uid} [delete]
func (ctrl *ProjectController) RemoveUser(c *fiber.Ctx) error {
	project, err := ctrl.Service.RemoveUser(c.UserContext(), c.Params("id"), c.Params("uid"))
	return api.RespondWrite(c, fiber.StatusOK, project, err)
}
