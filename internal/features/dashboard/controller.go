package dashboard

import (
	"mineaction/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetStats godoc
// @Summary      Dashboard counts for the signed-in user
// @Description  Project and today's activity counts cover the caller's projects. Action counts cover every action.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object} Dashboard
// @Failure      401  {object} map[string]string
// @Security     BearerAuth
// @Router       /api/dashboard/stats [get]
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	dash, err := ctrl.DashboardService.GetDashboard(c.UserContext())
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(dash)
}
