package dashboard

import (
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
)

// Stats are the headline counts for the signed-in user.
type Stats struct {
	TotalProjects   int `json:"total_projects"`
	ActiveProjects  int `json:"active_projects"`
	TodayActivities int `json:"today_activities"`
	OpenActions     int `json:"open_actions"`
	ClosedActions   int `json:"closed_actions"`
	OverdueActions  int `json:"overdue_actions"`
}

type RecentActivity struct {
	activity.Activity
	ProjectName string `json:"project_name"`
}

type Dashboard struct {
	Stats            Stats            `json:"stats"`
	RecentActivities []RecentActivity `json:"recent_activities"`
	UpcomingActions  []action.Action  `json:"upcoming_actions"`
}
