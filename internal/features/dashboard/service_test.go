package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/project"
	"mineaction/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	edt     = time.FixedZone("EDT", -4*60*60)
	testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, edt)

	northRidge = primitive.NewObjectID()
	southField = primitive.NewObjectID()
)

type fakeProjects struct {
	byUser map[string][]project.Project
	err    error
}

func (f fakeProjects) ListProjectsByUser(ctx context.Context, uid string) ([]project.Project, error) {
	return f.byUser[uid], f.err
}

type fakeActivities map[string][]activity.Activity

func (f fakeActivities) ListByProject(ctx context.Context, projectID string) ([]activity.Activity, error) {
	return f[projectID], nil
}

type fakeActions []action.Action

func (f fakeActions) ListActions(ctx context.Context, filter action.Filter) ([]action.Action, error) {
	return filter.Apply(f), nil
}

func on(day, hour int) models.FlexTime {
	return models.NewFlexTime(time.Date(2024, 6, day, hour, 0, 0, 0, edt))
}

func newService() *DashboardServiceImpl {
	return &DashboardServiceImpl{
		Projects: fakeProjects{byUser: map[string][]project.Project{
			"u1": {
				{ID: northRidge, Name: "North Ridge", Status: project.StatusActive},
				{ID: southField, Name: "South Field", Status: project.StatusPlanning},
			},
		}},
		Activities: fakeActivities{
			northRidge.Hex(): {
				{Crew: "Team 1", Date: on(10, 7)},
				{Crew: "Team 2", Date: on(9, 22)},
			},
			southField.Hex(): {
				// 23:30 local is already the next day in UTC
				{Crew: "Team 3", Date: models.NewFlexTime(time.Date(2024, 6, 10, 23, 30, 0, 0, edt))},
			},
		},
		Actions: fakeActions{
			{Issue: "yesterday", Status: action.StatusPending, DueDate: on(9, 0)},
			{Issue: "today", Status: action.StatusInProgress, DueDate: on(10, 0)},
			{Issue: "done late", Status: action.StatusCompleted, DueDate: on(1, 0)},
			{Issue: "next week", Status: action.StatusPending, DueDate: on(17, 0)},
		},
		Location: edt,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return testNow },
	}
}

func signedIn(uid string) context.Context {
	role := models.RoleSupervisor
	return models.WithSession(context.Background(), models.NewSession("s1", &models.Identity{UID: uid}, &role, nil))
}

func TestGetDashboardStats(t *testing.T) {
	dash, err := newService().GetDashboard(signedIn("u1"))
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalProjects:   2,
		ActiveProjects:  1,
		TodayActivities: 2,
		OpenActions:     3,
		ClosedActions:   1,
		OverdueActions:  1,
	}, dash.Stats)
}

func TestGetDashboardLists(t *testing.T) {
	dash, err := newService().GetDashboard(signedIn("u1"))
	require.NoError(t, err)

	var crews, projects []string
	for _, a := range dash.RecentActivities {
		crews = append(crews, a.Crew)
		projects = append(projects, a.ProjectName)
	}
	assert.Equal(t, []string{"Team 3", "Team 1", "Team 2"}, crews, "newest first")
	assert.Equal(t, []string{"South Field", "North Ridge", "North Ridge"}, projects)

	var issues []string
	for _, a := range dash.UpcomingActions {
		issues = append(issues, a.Issue)
	}
	assert.Equal(t, []string{"yesterday", "today", "next week"}, issues, "open actions by due date")
}

func TestGetDashboardForUserWithoutProjects(t *testing.T) {
	dash, err := newService().GetDashboard(signedIn("u2"))
	require.NoError(t, err)

	assert.Zero(t, dash.Stats.TotalProjects)
	assert.Zero(t, dash.Stats.TodayActivities)
	assert.NotNil(t, dash.RecentActivities)
	assert.Equal(t, 3, dash.Stats.OpenActions, "action counts are not per user")
}

func TestGetDashboardRequiresSession(t *testing.T) {
	_, err := newService().GetDashboard(context.Background())
	assert.ErrorIs(t, err, models.ErrAuthFailure)
}

func TestGetDashboardProjectError(t *testing.T) {
	svc := newService()
	svc.Projects = fakeProjects{err: errors.New("connection reset")}

	_, err := svc.GetDashboard(signedIn("u1"))
	assert.Error(t, err)
}

type stubResolver struct{ session *models.Session }

func (s stubResolver) Resolve(ctx context.Context, sessionID, userID string) *models.Session {
	return s.session
}

func TestStatsRouteIsForManagers(t *testing.T) {
	utils.SetSecret("test-secret")
	token, err := utils.GenerateToken("u1", "s1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, fiber.StatusOK},
		{models.RoleSupervisor, fiber.StatusOK},
		{models.RoleOperator, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			role := tt.role
			session := models.NewSession("s1", &models.Identity{UID: "u1"}, &role, nil)
			app := fiber.New()
			NewDashboardApi(NewDashboardController(newService()), &config.Config{}, stubResolver{session}).Setup(app)

			req := httptest.NewRequest("GET", "/api/dashboard/stats", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.want, resp.StatusCode)

			if tt.want == fiber.StatusOK {
				var body Dashboard
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, 2, body.Stats.TotalProjects)
			}
		})
	}
}
