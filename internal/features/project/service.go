package project

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/features/audit"

	"go.uber.org/zap"
)

type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListProjectsByUser(ctx context.Context, uid string) ([]Project, error)
	UpdateProject(ctx context.Context, id string, patch models.Fields) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
	AddUser(ctx context.Context, id string, member ProjectUser) (*Project, error)
	UpdateUserRole(ctx context.Context, id, uid, role string) (*Project, error)
	RemoveUser(ctx context.Context, id, uid string) (*Project, error)
}

type ProjectServiceImpl struct {
	Repo   ProjectRepository
	Audit  audit.ChangeLogger
	Logger *zap.Logger
	Now    func() time.Time
}

func NewProjectService(repo ProjectRepository, auditService audit.AuditService, logger *zap.Logger) ProjectService {
	return &ProjectServiceImpl{
		Repo:   repo,
		Audit:  auditService,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	session := models.SessionFrom(ctx)
	if !session.Authenticated() {
		return nil, models.ErrPermissionDenied
	}

	if req.Status == "" {
		req.Status = StatusPlanning
	}
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	users, err := normalizeUsers(req.Users)
	if err != nil {
		return nil, err
	}
	creator := session.Identity
	if !slices.ContainsFunc(users, func(u ProjectUser) bool { return u.ID == creator.UID }) {
		users = append([]ProjectUser{{
			ID:          creator.UID,
			Email:       creator.Email,
			DisplayName: creator.DisplayName,
			PhotoURL:    creator.PhotoURL,
			Role:        RoleProjectManager,
		}}, users...)
	}

	project := &Project{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
		CreatedBy:   creator.UID,
		CreatedAt:   models.NewFlexTime(s.Now()),
		Users:       users,
	}
	if err := s.Repo.Create(ctx, project); err != nil {
		s.Logger.Error("Failed to create project", zap.String("entity", "project"), zap.Error(err))
		return nil, err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeProject, models.AuditActionCreate, project.ID.Hex(), nil,
		fmt.Sprintf("Created project %q", project.Name))
	return project, audit.PartialFailure(err)
}

func validateCreate(req *CreateProjectRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)

	if req.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidInput)
	}
	if req.Location == "" {
		return fmt.Errorf("%w: location is required", models.ErrInvalidInput)
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", models.ErrInvalidInput)
	}
	if req.EndDate != nil && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		return fmt.Errorf("%w: end_date is before start_date", models.ErrInvalidInput)
	}
	if req.EndDate != nil && req.EndDate.IsZero() {
		req.EndDate = nil
	}
	if err := models.CheckEnum("type", req.Type, ProjectTypes); err != nil {
		return err
	}
	return models.CheckEnum("status", req.Status, ProjectStatuses)
}

func normalizeUsers(users []ProjectUser) ([]ProjectUser, error) {
	out := make([]ProjectUser, 0, len(users)+1)
	for _, u := range users {
		if err := validateMember(&u); err != nil {
			return nil, err
		}
		if slices.ContainsFunc(out, func(existing ProjectUser) bool { return existing.ID == u.ID }) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func validateMember(u *ProjectUser) error {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	return models.CheckEnum("role", u.Role, ProjectRoles)
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context) ([]Project, error) {
	return s.Repo.List(ctx)
}

func (s *ProjectServiceImpl) ListProjectsByUser(ctx context.Context, uid string) ([]Project, error) {
	return s.Repo.ListByUser(ctx, uid)
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, id string, patch models.Fields) (*Project, error) {
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

	var updated Project
	if err := models.FromMap(models.Apply(priorMap, set), &updated); err != nil {
		return nil, err
	}
	if updated.EndDate != nil && !updated.EndDate.IsZero() && updated.EndDate.Before(updated.StartDate.Time) {
		return nil, fmt.Errorf("%w: end_date is before start_date", models.ErrInvalidInput)
	}

	if err := s.Repo.Update(ctx, id, set.D()); err != nil {
		s.Logger.Error("Failed to update project", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeProject, models.AuditActionUpdate, id, changes, "")
	return &updated, audit.PartialFailure(err)
}

func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	prior, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		s.Logger.Error("Failed to delete project", zap.String("entity_id", id), zap.Error(err))
		return err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeProject, models.AuditActionDelete, id, nil,
		fmt.Sprintf("Deleted project %q", prior.Name))
	return audit.PartialFailure(err)
}

func (s *ProjectServiceImpl) AddUser(ctx context.Context, id string, member ProjectUser) (*Project, error) {
	if err := validateMember(&member); err != nil {
		return nil, err
	}
	return s.replaceUsers(ctx, id, func(users []ProjectUser) ([]ProjectUser, string, error) {
		if slices.ContainsFunc(users, func(u ProjectUser) bool { return u.ID == member.ID }) {
			return nil, "", fmt.Errorf("%w: user is already a member", models.ErrConflict)
		}
		return append(users, member), fmt.Sprintf("Added %s as %s", memberName(member), member.Role), nil
	})
}

func (s *ProjectServiceImpl) UpdateUserRole(ctx context.Context, id, uid, role string) (*Project, error) {
	if err := models.CheckEnum("role", role, ProjectRoles); err != nil {
		return nil, err
	}
	return s.replaceUsers(ctx, id, func(users []ProjectUser) ([]ProjectUser, string, error) {
		i := slices.IndexFunc(users, func(u ProjectUser) bool { return u.ID == uid })
		if i < 0 {
			return nil, "", fmt.Errorf("%w: user is not a member", models.ErrNotFound)
		}
		users[i].Role = role
		return users, fmt.Sprintf("Changed %s to %s", memberName(users[i]), role), nil
	})
}

func (s *ProjectServiceImpl) RemoveUser(ctx context.Context, id, uid string) (*Project, error) {
	return s.replaceUsers(ctx, id, func(users []ProjectUser) ([]ProjectUser, string, error) {
		i := slices.IndexFunc(users, func(u ProjectUser) bool { return u.ID == uid })
		if i < 0 {
			return nil, "", fmt.Errorf("%w: user is not a member", models.ErrNotFound)
		}
		details := fmt.Sprintf("Removed %s", memberName(users[i]))
		return slices.Delete(users, i, i+1), details, nil
	})
}

// replaceUsers reads the team, edits a copy and writes the whole array back.
// Concurrent edits to the same project can overwrite each other.
func (s *ProjectServiceImpl) replaceUsers(ctx context.Context, id string, edit func([]ProjectUser) ([]ProjectUser, string, error)) (*Project, error) {
	project, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := slices.Clone(project.Users)
	after, details, err := edit(slices.Clone(project.Users))
	if err != nil {
		return nil, err
	}
	if after == nil {
		after = []ProjectUser{}
	}

	now := models.NewFlexTime(s.Now())
	set := models.Fields{{Name: "users", Value: after}, {Name: "updated_at", Value: now.Time}}
	if err := s.Repo.Update(ctx, id, set.D()); err != nil {
		s.Logger.Error("Failed to update project team", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}
	project.Users = after
	project.UpdatedAt = &now

	changes := []models.Change{{Field: "users", OldValue: before, NewValue: after}}
	err = s.Audit.CreateLog(ctx, models.AuditTypeProject, models.AuditActionUpdate, id, changes, details)
	return project, audit.PartialFailure(err)
}

func memberName(u ProjectUser) string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Email != "":
		return u.Email
	}
	return u.ID
}
