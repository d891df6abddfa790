package audit

import (
	"strconv"
	"time"

	"mineaction/internal/common/api"
	"mineaction/internal/common/models"
	"mineaction/internal/config"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service  AuditService
	Location *time.Location
}

func NewAuditController(service AuditService, cfg *config.Config) *AuditController {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &AuditController{Service: service, Location: loc}
}

// ListLogs godoc
// @Summary      List audit logs
// @Description  Newest first. start and end are inclusive.
// @Tags         audit
// @Produce      json
// @Param        type       query string false "action, activity or project"
// @Param        entity_id  query string false "Entity ID"
// @Param        user_id    query string false "Actor UID"
// @Param        start      query string false "RFC3339 or YYYY-MM-DD"
// @Param        end        query string false "RFC3339 or YYYY-MM-DD (whole day)"
// @Param        limit      query int    false "Maximum entries"
// @Success      200  {array}  models.AuditLog
// @Failure      400  {object} map[string]string
// @Router       /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	q := Query{
		Type:     models.AuditLogType(c.Query("type")),
		EntityID: c.Query("entity_id"),
		UserID:   c.Query("user_id"),
	}

	switch q.Type {
	case "", models.AuditTypeAction, models.AuditTypeActivity, models.AuditTypeProject:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid audit log type",
		})
	}

	if raw := c.Query("start"); raw != "" {
		t, err := models.ParseTimeIn(raw, ctrl.Location)
		if err != nil {
			return api.RespondError(c, err)
		}
		q.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := models.ParseTimeIn(raw, ctrl.Location)
		if err != nil {
			return api.RespondError(c, err)
		}
		// A plain end date covers the whole day.
		if models.IsDateOnly(raw) {
			t = models.EndOfDay(t)
		}
		q.End = &t
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid limit",
			})
		}
		q.Limit = limit
	}

	logs, err := ctrl.Service.GetLogs(c.UserContext(), q)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(logs)
}

// DailySummary godoc
// @Summary      Audit summary for one day
// @Tags         audit
// @Produce      json
// @Param        date query string false "YYYY-MM-DD, defaults to today"
// @Success      200  {object} DailySummary
// @Router       /api/audit-logs/daily-summary [get]
func (ctrl *AuditController) DailySummary(c *fiber.Ctx) error {
	day := time.Now().In(ctrl.Location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, ctrl.Location)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be YYYY-MM-DD",
			})
		}
		day = parsed
	}

	summary, err := ctrl.Service.DailySummary(c.UserContext(), day)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(summary)
}
