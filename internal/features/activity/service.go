package activity

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/features/audit"
	"mineaction/internal/features/project"

	"go.uber.org/zap"
)

// ProjectFinder confirms the parent project exists.
type ProjectFinder interface {
	GetProject(ctx context.Context, id string) (*project.Project, error)
}

type ActivityService interface {
	CreateActivity(ctx context.Context, projectID string, req CreateActivityRequest) (*Activity, error)
	GetActivity(ctx context.Context, id string) (*Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	UpdateActivity(ctx context.Context, id string, patch models.Fields) (*Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

type ActivityServiceImpl struct {
	Repo     ActivityRepository
	Projects ProjectFinder
	Audit    audit.ChangeLogger
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewActivityService(repo ActivityRepository, projects ProjectFinder, auditService audit.AuditService, logger *zap.Logger) ActivityService {
	return &ActivityServiceImpl{
		Repo:     repo,
		Projects: projects,
		Audit:    auditService,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *ActivityServiceImpl) CreateActivity(ctx context.Context, projectID string, req CreateActivityRequest) (*Activity, error) {
	req.Crew = strings.TrimSpace(req.Crew)
	req.Remarks = strings.TrimSpace(req.Remarks)
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", models.ErrInvalidInput)
	}
	if req.Crew == "" {
		return nil, fmt.Errorf("%w: crew is required", models.ErrInvalidInput)
	}
	if err := models.CheckEnum("type", req.Type, ActivityTypes); err != nil {
		return nil, err
	}
	if err := models.CheckEnum("shift", req.Shift, Shifts); err != nil {
		return nil, err
	}

	if _, err := s.Projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	activity := &Activity{
		ProjectID: projectID,
		Date:      req.Date,
		Type:      req.Type,
		Shift:     req.Shift,
		Crew:      req.Crew,
		Remarks:   req.Remarks,
		CreatedBy: models.ActorFrom(ctx).UID,
		CreatedAt: models.NewFlexTime(s.Now()),
	}
	if err := s.Repo.Create(ctx, activity); err != nil {
		s.Logger.Error("Failed to create activity", zap.String("entity", "activity"), zap.Error(err))
		return nil, err
	}

	err := s.Audit.CreateLog(ctx, models.AuditTypeActivity, models.AuditActionCreate, activity.ID.Hex(), nil,
		fmt.Sprintf("Logged %s activity for project %s", activity.Type, projectID))
	return activity, audit.PartialFailure(err)
}

func (s *ActivityServiceImpl) GetActivity(ctx context.Context, id string) (*Activity, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ActivityServiceImpl) ListByProject(ctx context.Context, projectID string) ([]Activity, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", models.ErrInvalidInput)
	}
	return s.Repo.List(ctx, projectID)
}

func (s *ActivityServiceImpl) ListActivities(ctx context.Context) ([]Activity, error) {
	return s.Repo.List(ctx, "")
}

func (s *ActivityServiceImpl) UpdateActivity(ctx context.Context, id string, patch models.Fields) (*Activity, error) {
	normalized, err := updateSchema.Normalize(patch)
	if err != nil {
		return nil, err
	}

	prior, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	priorMap, err := models.ToMap(prior)
	if err != nil {
		return nil, err
	}

	changes := models.Diff(priorMap, normalized)
	set := slices.Clone(normalized).Set("updated_at", s.Now())

	var updated Activity
	if err := models.FromMap(models.Apply(priorMap, set), &updated); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, id, set.D()); err != nil {
		s.Logger.Error("Failed to update activity", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeActivity, models.AuditActionUpdate, id, changes, "")
	return &updated, audit.PartialFailure(err)
}

// DeleteActivity leaves the activity's actions in place.
func (s *ActivityServiceImpl) DeleteActivity(ctx context.Context, id string) error {
	prior, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		s.Logger.Error("Failed to delete activity", zap.String("entity_id", id), zap.Error(err))
		return err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeActivity, models.AuditActionDelete, id, nil,
		fmt.Sprintf("Deleted %s activity of project %s", prior.Type, prior.ProjectID))
	return audit.PartialFailure(err)
}
