package action

import (
	"fmt"
	"io"
	"strings"
	"time"

	"mineaction/internal/common/api"
	"mineaction/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type ActionController struct {
	ActionService ActionService
}

func NewActionController(actionService ActionService) *ActionController {
	return &ActionController{ActionService: actionService}
}

// CreateAction godoc
// @Summary      Raise an action against an activity
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        id    path string              true "Activity ID"
// @Param        input body CreateActionRequest true "Action"
// @Success      201  {object} Action
// @Failure      400  {object} map[string]string
// @Failure      404  {object} map[string]string "Activity not found"
// @Router       /api/activities/{id}/actions [post]
func (ctrl *ActionController) CreateAction(c *fiber.Ctx) error {
	var req CreateActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	action, err := ctrl.ActionService.CreateAction(c.UserContext(), c.Params("id"), req)
	return api.RespondWrite(c, fiber.StatusCreated, action, err)
}

// ListActivityActions godoc
// @Summary      List an activity's actions
// @Description  Newest first.
// @Tags         actions
// @Produce      json
// @Param        id  path string true "Activity ID"
// @Success      200  {array} Action
// @Security     BearerAuth
// @Router       /api/activities/{id}/actions [get]
func (ctrl *ActionController) ListActivityActions(c *fiber.Ctx) error {
	actions, err := ctrl.ActionService.ListByActivity(c.UserContext(), c.Params("id"))
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(actions)
}

// ListActions godoc
// @Summary      List actions
// @Description  Filters combine. status and priority take comma separated values, due dates are inclusive.
// @Tags         actions
// @Produce      json
// @Param        status             query string false "e.g. Pending,In Progress"
// @Param        priority           query string false "e.g. High,Critical"
// @Param        responsible_person query string false "Case-insensitive substring"
// @Param        due_from           query string false "YYYY-MM-DD or RFC3339"
// @Param        due_to             query string false "YYYY-MM-DD or RFC3339"
// @Success      200  {array} Action
// @Router       /api/actions [get]
func (ctrl *ActionController) ListActions(c *fiber.Ctx) error {
	filter, err := ParseFilter(c)
	if err != nil {
		return api.RespondError(c, err)
	}

	actions, err := ctrl.ActionService.ListActions(c.UserContext(), filter)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(actions)
}

// ParseFilter reads the action filter query parameters.
func ParseFilter(c *fiber.Ctx) (Filter, error) {
	filter := Filter{
		Status:            splitList(c.Query("status")),
		Priority:          splitList(c.Query("priority")),
		ResponsiblePerson: strings.TrimSpace(c.Query("responsible_person")),
	}
	var err error
	if filter.DueFrom, err = parseBound("due_from", c.Query("due_from"), false); err != nil {
		return Filter{}, err
	}
	if filter.DueTo, err = parseBound("due_to", c.Query("due_to"), true); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBound(name, raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", models.ErrInvalidInput, name)
	}
	if endOfDay && models.IsDateOnly(raw) {
		t = models.EndOfDay(t)
	}
	return &t, nil
}

// GetAction godoc
// @Summary      Get an action
// @Tags         actions
// @Produce      json
// @Param        id  path string true "Action ID"
// @Success      200  {object} Action
// @Failure      404  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/actions/{id} [get]
func (ctrl *ActionController) GetAction(c *fiber.Ctx) error {
	action, err := ctrl.ActionService.GetAction(c.UserContext(), c.Params("id"))
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(action)
}

// UpdateAction godoc
// @Summary      Update action fields
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        id path string true "Action ID"
// @Success      200  {object} Action
// @Router       /api/actions/{id} [put]
func (ctrl *ActionController) UpdateAction(c *fiber.Ctx) error {
	patch, err := api.ParseFields(c)
	if err != nil {
		return api.RespondError(c, err)
	}

	action, err := ctrl.ActionService.UpdateAction(c.UserContext(), c.Params("id"), patch)
	return api.RespondWrite(c, fiber.StatusOK, action, err)
}

// UpdateStatus godoc
// @Summary      Change the status without an audit entry
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        id    path string              true "Action ID"
// @Param        input body UpdateStatusRequest true "Status"
// @Success      200  {object} Action
// @Router       /api/actions/{id}/status [patch]
func (ctrl *ActionController) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	action, err := ctrl.ActionService.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	return api.RespondWrite(c, fiber.StatusOK, action, err)
}

// UpdateStatusAudited godoc
// @Summary      Change the status and record it in the audit log
// @Tags         actions
// @Router       /api/actions/{id}/status/audited [patch]
func (ctrl *ActionController) UpdateStatusAudited(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	action, err := ctrl.ActionService.UpdateStatusAudited(c.UserContext(), c.Params("id"), req.Status)
	return api.RespondWrite(c, fiber.StatusOK, action, err)
}

// DeleteAction godoc
// @Summary      Delete an action
// @Tags         actions
// @Param        id  path string true "Action ID"
// @Success      204
// @Failure      404  {object} map[string]string
// @Failure      500  {object} map[string]interface{} "Deleted but not audited (partial)"
// @Security     BearerAuth
// @Router       /api/actions/{id} [delete]
func (ctrl *ActionController) DeleteAction(c *fiber.Ctx) error {
	err := ctrl.ActionService.DeleteAction(c.UserContext(), c.Params("id"))
	return api.RespondWrite(c, fiber.StatusNoContent, nil, err)
}

// AddComment godoc
// @Summary      Comment on an action
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        id    path string            true "Action ID"
// @Param        input body AddCommentRequest true "Comment"
// @Success      201  {object} Action
// @Router       /api/actions/{id}/comments [post]
func (ctrl *ActionController) AddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	action, err := ctrl.ActionService.AddComment(c.UserContext(), c.Params("id"), req.Content)
	return api.RespondWrite(c, fiber.StatusCreated, action, err)
}

// AddEvidence godoc
// @Summary      Attach a photo or file
// @Tags         actions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path     string true  "Action ID"
// @Param        file formData file   true  "Evidence file"
// @Param        type formData string false "photo or file (guessed from the content type when empty)"
// @Success      201  {object} Action
// @Failure      502  {object} map[string]string "Upload failed"
// @Router       /api/actions/{id}/evidence [post]
func (ctrl *ActionController) AddEvidence(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return api.RespondError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return api.RespondError(c, err)
	}

	contentType := fh.Header.Get("Content-Type")
	kind := c.FormValue("type")
	if kind == "" {
		kind = EvidenceFile
		if strings.HasPrefix(contentType, "image/") {
			kind = EvidencePhoto
		}
	}

	action, err := ctrl.ActionService.AddEvidence(c.UserContext(), c.Params("id"), EvidenceUpload{
		Type:        kind,
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	})
	return api.RespondWrite(c, fiber.StatusCreated, action, err)
}
