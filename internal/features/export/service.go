package export

import (
	"context"
	"fmt"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/features/action"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/project"

	"go.uber.org/zap"
)

type ProjectLister interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
}

type ActivityLister interface {
	ListActivities(ctx context.Context) ([]activity.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]activity.Activity, error)
}

type ActionLister interface {
	ListActions(ctx context.Context, filter action.Filter) ([]action.Action, error)
}

// Request selects what to export. ProjectID applies to activities, Filter
// to actions.
type Request struct {
	Kind      Kind
	Format    Format
	ProjectID string
	Filter    action.Filter
}

type ExportService interface {
	Export(ctx context.Context, req Request) (*Document, error)
}

type ExportServiceImpl struct {
	Projects   ProjectLister
	Activities ActivityLister
	Actions    ActionLister
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewExportService(projects ProjectLister, activities ActivityLister, actions ActionLister, cfg *config.Config, logger *zap.Logger) ExportService {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &ExportServiceImpl{
		Projects:   projects,
		Activities: activities,
		Actions:    actions,
		Location:   loc,
		Logger:     logger,
		Now:        time.Now,
	}
}

func (s *ExportServiceImpl) Export(ctx context.Context, req Request) (*Document, error) {
	if req.Format != FormatXLSX && req.Format != FormatPDF {
		return nil, fmt.Errorf("%w: format must be xlsx or pdf", models.ErrInvalidInput)
	}

	table, err := s.table(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.Now().In(s.Location)
	var data []byte
	if req.Format == FormatPDF {
		data, err = renderPDF(table, now)
	} else {
		data, err = renderXLSX(table)
	}
	if err != nil {
		s.Logger.Error("Export rendering failed", zap.String("kind", string(req.Kind)), zap.String("format", string(req.Format)), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("Export generated",
		zap.String("kind", string(req.Kind)),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(table.Rows)),
	)
	return &Document{
		Filename:    Filename(req.Kind, req.Format, now.Format(dateLayout)),
		ContentType: req.Format.ContentType(),
		Data:        data,
	}, nil
}

func (s *ExportServiceImpl) table(ctx context.Context, req Request) (Table, error) {
	switch req.Kind {
	case KindActivities:
		var (
			activities []activity.Activity
			err        error
		)
		if req.ProjectID != "" {
			activities, err = s.Activities.ListByProject(ctx, req.ProjectID)
		} else {
			activities, err = s.Activities.ListActivities(ctx)
		}
		if err != nil {
			return Table{}, err
		}
		projects, err := s.Projects.ListProjects(ctx)
		if err != nil {
			return Table{}, err
		}
		names := make(map[string]string, len(projects))
		for _, p := range projects {
			names[p.ID.Hex()] = p.Name
		}
		return ActivitiesTable(activities, names, s.Location), nil

	case KindActions:
		actions, err := s.Actions.ListActions(ctx, req.Filter)
		if err != nil {
			return Table{}, err
		}
		return ActionsTable(actions, s.Location), nil
	}
	return Table{}, fmt.Errorf("%w: unknown export %q", models.ErrInvalidInput, req.Kind)
}
