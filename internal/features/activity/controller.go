package activity

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ActivityController struct {
	ActivityService ActivityService
}

func NewActivityController(activityService ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

// CreateActivity godoc
// @Summary      Log an activity on a project
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        id    path string                true "Project ID"
// @Param        input body CreateActivityRequest true "Activity"
// @Success      201  {object} Activity
// @Failure      400  {object} map[string]string
// @Failure      404  {object} map[string]string "Project not found"
// @Router       /api/projects/{id}/activities [post]
func (ctrl *ActivityController) CreateActivity(c *fiber.Ctx) error {
	var req CreateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	activity, err := ctrl.ActivityService.CreateActivity(c.UserContext(), c.Params("id"), req)
	return api.RespondWrite(c, fiber.StatusCreated, activity, err)
}

// ListProjectActivities godoc
// @Summary      List a project's activities
// @Description  Newest first.
// @Tags         activities
// @Produce      json
// @Param        id  path string true "Project ID"
// @Success      200  {array} Activity
// @Security     BearerAuth
// @Router       /api/projects/{id}/activities [get]
func (ctrl *ActivityController) ListProjectActivities(c *fiber.Ctx) error {
	activities, err := ctrl.ActivityService.ListByProject(c.UserContext(), c.Params("id"))
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(activities)
}

// ListActivities godoc
// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Param        project_id query string false "Only this project"
// @Success      200  {array} Activity
// @Router       /api/activities [get]
func (ctrl *ActivityController) ListActivities(c *fiber.Ctx) error {
	var (
		activities []Activity
		err        error
	)
	if projectID := c.Query("project_id"); projectID != "" {
		activities, err = ctrl.ActivityService.ListByProject(c.UserContext(), projectID)
	} else {
		activities, err = ctrl.ActivityService.ListActivities(c.UserContext())
	}
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(activities)
}

// GetActivity godoc
// @Summary      Get an activity
// @Tags         activities
// @Produce      json
// @Param        id  path string true "Activity ID"
// @Success      200  {object} Activity
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/activities/{id} [get]
func (ctrl *ActivityController) GetActivity(c *fiber.Ctx) error {
	activity, err := ctrl.ActivityService.GetActivity(c.UserContext(), c.Params("id"))
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(activity)
}

// UpdateActivity godoc
// @Summary      Update activity fields
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200  {object} Activity
// @Router       /api/activities/{id} [put]
func (ctrl *ActivityController) UpdateActivity(c *fiber.Ctx) error {
	patch, err := api.ParseFields(c)
	if err != nil {
		return api.RespondError(c, err)
	}

	activity, err := ctrl.ActivityService.UpdateActivity(c.UserContext(), c.Params("id"), patch)
	return api.RespondWrite(c, fiber.StatusOK, activity, err)
}

// DeleteActivity godoc
// @Summary      Delete an activity
// @Description  Actions raised against it are kept.
// @Tags         activities
// @Param        id  path string true "Activity ID"
// @Success      204
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/activities/{id} [delete]
func (ctrl *ActivityController) DeleteActivity(c *fiber.Ctx) error {
	err := ctrl.ActivityService.DeleteActivity(c.UserContext(), c.Params("id"))
	return api.RespondWrite(c, fiber.StatusNoContent, nil, err)
}
