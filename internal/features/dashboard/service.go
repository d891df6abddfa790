package dashboard

import (
	"context"
	"slices"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/project"

	"go.uber.org/zap"
)

type ProjectSource interface {
	ListProjectsByUser(ctx context.Context, uid string) ([]project.Project, error)
}

type ActivitySource interface {
	ListByProject(ctx context.Context, projectID string) ([]activity.Activity, error)
}

type ActionSource interface {
	ListActions(ctx context.Context, filter action.Filter) ([]action.Action, error)
}

// listSize caps the recent activity and upcoming action lists.
const listSize = 5

type DashboardService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type DashboardServiceImpl struct {
	Projects   ProjectSource
	Activities ActivitySource
	Actions    ActionSource
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewDashboardService(projects ProjectSource, activities ActivitySource, actions ActionSource, cfg *config.Config, logger *zap.Logger) DashboardService {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		Projects:   projects,
		Activities: activities,
		Actions:    actions,
		Location:   loc,
		Logger:     logger,
		Now:        time.Now,
	}
}

// GetDashboard counts the caller's projects and their activities, and every
// action. Overdue uses the same rule as an action's display status.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*Dashboard, error) {
	session := models.SessionFrom(ctx)
	if !session.Authenticated() {
		return nil, models.ErrAuthFailure
	}
	now := s.Now().In(s.Location)

	projects, err := s.Projects.ListProjectsByUser(ctx, session.Identity.UID)
	if err != nil {
		s.Logger.Error("Dashboard projects failed", zap.String("user_id", session.Identity.UID), zap.Error(err))
		return nil, err
	}

	dash := &Dashboard{
		Stats:            Stats{TotalProjects: len(projects)},
		RecentActivities: []RecentActivity{},
		UpcomingActions:  []action.Action{},
	}

	for _, p := range projects {
		if p.Status == project.StatusActive {
			dash.Stats.ActiveProjects++
		}
		activities, err := s.Activities.ListByProject(ctx, p.ID.Hex())
		if err != nil {
			return nil, err
		}
		for _, a := range activities {
			if sameDay(a.Date.Time, now) {
				dash.Stats.TodayActivities++
			}
			dash.RecentActivities = append(dash.RecentActivities, RecentActivity{Activity: a, ProjectName: p.Name})
		}
	}
	slices.SortStableFunc(dash.RecentActivities, func(a, b RecentActivity) int {
		return b.Date.Compare(a.Date.Time)
	})
	dash.RecentActivities = dash.RecentActivities[:min(listSize, len(dash.RecentActivities))]

	actions, err := s.Actions.ListActions(ctx, action.Filter{})
	if err != nil {
		return nil, err
	}
	for i := range actions {
		a := &actions[i]
		if a.Status == action.StatusCompleted {
			dash.Stats.ClosedActions++
			continue
		}
		dash.Stats.OpenActions++
		if action.PastDue(a, now) {
			dash.Stats.OverdueActions++
		}
		dash.UpcomingActions = append(dash.UpcomingActions, *a)
	}
	slices.SortStableFunc(dash.UpcomingActions, func(a, b action.Action) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	dash.UpcomingActions = dash.UpcomingActions[:min(listSize, len(dash.UpcomingActions))]

	return dash, nil
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
