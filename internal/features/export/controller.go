package export

import (
	"fmt"

	"mineaction/internal/common/api"
	"mineaction/internal/features/action"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	ExportService ExportService
}

func NewExportController(exportService ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

// Export godoc
// @Summary      Download activities or actions
// @Description  Actions accept the same filters as GET /api/actions. Activities accept project_id.
// @Tags         exports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        kind       path  string true  "activities or actions"
// @Param        format     query string false "xlsx (default) or pdf"
// @Param        project_id query string false "Only this project's activities"
// @Success      200  {file} file
// @Failure      400  {object} map[string]string
// @Router       /api/exports/{kind} [get]
func (ctrl *ExportController) Export(c *fiber.Ctx) error {
	req := Request{
		Kind:      Kind(c.Params("kind")),
		Format:    Format(c.Query("format", string(FormatXLSX))),
		ProjectID: c.Query("project_id"),
	}
	if req.Kind == KindActions {
		filter, err := action.ParseFilter(c)
		if err != nil {
			return api.RespondError(c, err)
		}
		req.Filter = filter
	}

	doc, err := ctrl.ExportService.Export(c.UserContext(), req)
	if err != nil {
		return api.RespondError(c, err)
	}

	c.Set("Content-Type", doc.ContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	return c.Send(doc.Data)
}
