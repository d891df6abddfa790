package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mineaction/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type RoleService interface {
	// ListRoles returns the built-in roles followed by stored ones. A store
	// failure degrades to the built-ins.
	ListRoles(ctx context.Context) []models.RoleDefinition
	FindRole(ctx context.Context, name string) (*models.RoleDefinition, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*models.RoleDefinition, error)
	UpdateRoleAccess(ctx context.Context, id string, routes []string) (*models.RoleDefinition, error)
}

type RoleServiceImpl struct {
	Repo   RoleRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func NewRoleService(repo RoleRepository, logger *zap.Logger) RoleService {
	return &RoleServiceImpl{
		Repo:   repo,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) []models.RoleDefinition {
	roles := DefaultRoles()
	stored, err := s.Repo.List(ctx)
	if err != nil {
		s.Logger.Warn("Failed to load stored roles, serving defaults only", zap.Error(err))
		return roles
	}
	return append(roles, stored...)
}

// FindRole returns the first definition with the given name.
func (s *RoleServiceImpl) FindRole(ctx context.Context, name string) (*models.RoleDefinition, error) {
	for _, def := range s.ListRoles(ctx) {
		if def.Name == name {
			return &def, nil
		}
	}
	return nil, fmt.Errorf("%w: role %q", models.ErrNotFound, name)
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, req CreateRoleRequest) (*models.RoleDefinition, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", models.ErrInvalidInput)
	}
	if isBuiltIn(name) {
		return nil, fmt.Errorf("%w: %q is a built-in role", models.ErrConflict, name)
	}

	routes, err := normalizeRoutes(req.Routes)
	if err != nil {
		return nil, err
	}

	stored, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, existing := range stored {
		if strings.EqualFold(existing.Name, name) {
			return nil, fmt.Errorf("%w: role %q already exists", models.ErrConflict, name)
		}
	}

	role := &models.RoleDefinition{
		ID:          primitive.NewObjectID().Hex(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Routes:      routes,
		CreatedAt:   s.Now(),
	}
	// The unique index on name settles concurrent creates
	if err := s.Repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleServiceImpl) UpdateRoleAccess(ctx context.Context, id string, routes []string) (*models.RoleDefinition, error) {
	if isBuiltIn(id) {
		return nil, fmt.Errorf("%w: built-in roles cannot be changed", models.ErrInvalidInput)
	}
	routes, err := normalizeRoutes(routes)
	if err != nil {
		return nil, err
	}

	role, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateRoutes(ctx, id, routes); err != nil {
		return nil, err
	}
	role.Routes = routes
	return role, nil
}

// normalizeRoutes trims entries and drops repeats, keeping first-seen order.
func normalizeRoutes(routes []string) ([]string, error) {
	out := make([]string, 0, len(routes))
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if !strings.HasPrefix(r, "/") {
			return nil, fmt.Errorf("%w: route %q must start with /", models.ErrInvalidInput, r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out, nil
}
