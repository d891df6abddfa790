package role

import (
	"context"
	"errors"
	"testing"
	"time"

	"mineaction/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRoleRepository struct {
	Roles   []models.RoleDefinition
	ListErr error
}

func (m *MockRoleRepository) Create(ctx context.Context, role *models.RoleDefinition) error {
	for _, r := range m.Roles {
		if r.Name == role.Name {
			return models.ErrConflict
		}
	}
	m.Roles = append(m.Roles, *role)
	return nil
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id string) (*models.RoleDefinition, error) {
	for _, r := range m.Roles {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockRoleRepository) List(ctx context.Context) ([]models.RoleDefinition, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]models.RoleDefinition(nil), m.Roles...), nil
}

func (m *MockRoleRepository) UpdateRoutes(ctx context.Context, id string, routes []string) error {
	for i := range m.Roles {
		if m.Roles[i].ID == id {
			m.Roles[i].Routes = routes
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockRoleRepository) EnsureIndexes(ctx context.Context) error { return nil }

func newService(repo RoleRepository) *RoleServiceImpl {
	return &RoleServiceImpl{Repo: repo, Logger: zap.NewNop(), Now: time.Now}
}

func TestListRolesDefaultsFirst(t *testing.T) {
	repo := &MockRoleRepository{Roles: []models.RoleDefinition{{ID: "x", Name: "Auditor", Routes: []string{"/reports"}}}}
	roles := newService(repo).ListRoles(context.Background())

	require.Len(t, roles, 4)
	assert.Equal(t, []string{"Admin", "Supervisor", "Operator", "Auditor"},
		[]string{roles[0].Name, roles[1].Name, roles[2].Name, roles[3].Name})
	assert.Equal(t, []string{"/admin", "/profile", "/reports", "/analytics", "/settings"}, roles[0].Routes)
	assert.Equal(t, []string{"/profile"}, roles[2].Routes)
}

func TestListRolesDegradesToDefaults(t *testing.T) {
	repo := &MockRoleRepository{ListErr: errors.New("unreachable")}
	roles := newService(repo).ListRoles(context.Background())
	assert.Len(t, roles, 3)
}

func TestCreateRole(t *testing.T) {
	repo := &MockRoleRepository{}
	svc := newService(repo)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleRequest{Name: " Auditor ", Routes: []string{"/reports", "/reports", " /audit-log"}})
	require.NoError(t, err)
	assert.Equal(t, "Auditor", role.Name)
	assert.Equal(t, []string{"/reports", "/audit-log"}, role.Routes)
	assert.NotEmpty(t, role.ID)

	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: "auditor"})
	assert.ErrorIs(t, err, models.ErrConflict, "names are unique regardless of case")

	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: "Admin"})
	assert.ErrorIs(t, err, models.ErrConflict, "built-in names are reserved")

	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: ""})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.CreateRole(ctx, CreateRoleRequest{Name: "Bad", Routes: []string{"reports"}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	assert.Len(t, repo.Roles, 1)
}

func TestFindRoleReturnsFirstMatch(t *testing.T) {
	// A stored role shadowing a built-in name can only exist from legacy data
	repo := &MockRoleRepository{Roles: []models.RoleDefinition{{ID: "legacy", Name: "Operator", Routes: []string{"/everything"}}}}
	role, err := newService(repo).FindRole(context.Background(), "Operator")
	require.NoError(t, err)
	assert.Equal(t, "operator", role.ID)

	_, err = newService(repo).FindRole(context.Background(), "Nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateRoleAccess(t *testing.T) {
	repo := &MockRoleRepository{Roles: []models.RoleDefinition{{ID: "r1", Name: "Auditor", Routes: []string{"/reports"}}}}
	svc := newService(repo)
	ctx := context.Background()

	role, err := svc.UpdateRoleAccess(ctx, "r1", []string{"/audit-log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/audit-log"}, role.Routes)
	assert.Equal(t, []string{"/audit-log"}, repo.Roles[0].Routes)

	_, err = svc.UpdateRoleAccess(ctx, "missing", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateRoleAccess(ctx, "admin", []string{"/x"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
