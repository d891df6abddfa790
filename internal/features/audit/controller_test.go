package audit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"mineaction/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingService struct {
	AuditService
	Query Query
}

func (s *capturingService) GetLogs(ctx context.Context, q Query) ([]models.AuditLog, error) {
	s.Query = q
	return []models.AuditLog{}, nil
}

func TestListLogsDateBounds(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	tests := []struct {
		name  string
		query string
		start time.Time
		end   time.Time
	}{
		{
			name:  "plain dates cover the whole local day",
			query: "start=2024-06-10&end=2024-06-10",
			start: time.Date(2024, 6, 10, 0, 0, 0, 0, edt),
			end:   time.Date(2024, 6, 10, 23, 59, 59, int(999*time.Millisecond), edt),
		},
		{
			name:  "timestamps are taken as given",
			query: "start=2024-06-10T08:00:00Z&end=2024-06-10T09:00:00Z",
			start: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &capturingService{}
			ctrl := &AuditController{Service: svc, Location: edt}
			app := fiber.New()
			app.Get("/api/audit-logs", ctrl.ListLogs)

			resp, err := app.Test(httptest.NewRequest("GET", "/api/audit-logs?"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			require.NotNil(t, svc.Query.Start)
			require.NotNil(t, svc.Query.End)
			assert.True(t, svc.Query.Start.Equal(tt.start), "start %s", svc.Query.Start)
			assert.True(t, svc.Query.End.Equal(tt.end), "end %s", svc.Query.End)
		})
	}
}

func TestListLogsRejectsBadType(t *testing.T) {
	ctrl := &AuditController{Service: &capturingService{}, Location: time.UTC}
	app := fiber.New()
	app.Get("/api/audit-logs", ctrl.ListLogs)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/audit-logs?type=ticket", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
