package export

import (
	"time"

	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ActivitiesTable lays out activities. projectNames resolves project ids;
// unknown ids leave the Project column blank.
func ActivitiesTable(activities []activity.Activity, projectNames map[string]string, loc *time.Location) Table {
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		at := a.Date.In(loc)
		rows = append(rows, []string{
			at.Format(dateLayout),
			at.Format(timeLayout),
			projectNames[a.ProjectID],
			a.Type,
			a.Shift,
			a.Crew,
			a.Remarks,
		})
	}
	return Table{Kind: KindActivities, Columns: ActivityColumns, Rows: rows}
}

func ActionsTable(actions []action.Action, loc *time.Location) Table {
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []string{
			a.Issue,
			a.Status,
			a.Priority,
			a.DueDate.In(loc).Format(dateLayout),
			a.ResponsiblePerson,
			a.CreatedAt.In(loc).Format(dateLayout),
		})
	}
	return Table{Kind: KindActions, Columns: ActionColumns, Rows: rows}
}
