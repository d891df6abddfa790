package project

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockProjectRepository struct {
	Projects  []*Project
	UpdateErr error
}

func (m *MockProjectRepository) Create(ctx context.Context, p *Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	cp.Users = slices.Clone(p.Users)
	m.Projects = append(m.Projects, &cp)
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	for _, p := range m.Projects {
		if p.ID.Hex() == id {
			cp := *p
			cp.Users = slices.Clone(p.Users)
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockProjectRepository) List(ctx context.Context) ([]Project, error) {
	var out []Project
	for i := len(m.Projects) - 1; i >= 0; i-- {
		out = append(out, *m.Projects[i])
	}
	return out, nil
}

func (m *MockProjectRepository) ListByUser(ctx context.Context, uid string) ([]Project, error) {
	all, _ := m.List(ctx)
	var out []Project
	for _, p := range all {
		member := slices.ContainsFunc(p.Users, func(u ProjectUser) bool { return u.ID == uid })
		if p.CreatedBy == uid || member {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, id string, set bson.D) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i, p := range m.Projects {
		if p.ID.Hex() != id {
			continue
		}
		prior, err := models.ToMap(p)
		if err != nil {
			return err
		}
		for _, e := range set {
			prior[e.Key] = e.Value
		}
		var updated Project
		if err := models.FromMap(prior, &updated); err != nil {
			return err
		}
		m.Projects[i] = &updated
		return nil
	}
	return models.ErrNotFound
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	for i, p := range m.Projects {
		if p.ID.Hex() == id {
			m.Projects = append(m.Projects[:i], m.Projects[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockProjectRepository) EnsureIndexes(ctx context.Context) error { return nil }

type auditEntry struct {
	Type     models.AuditLogType
	Action   models.AuditAction
	EntityID string
	Changes  []models.Change
	Details  string
}

var _ audit.ChangeLogger = (*recordingAudit)(nil)

type recordingAudit struct {
	Entries []auditEntry
	Err     error
}

func (r *recordingAudit) CreateLog(ctx context.Context, t models.AuditLogType, a models.AuditAction, id string, changes []models.Change, details string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Entries = append(r.Entries, auditEntry{t, a, id, changes, details})
	return nil
}

type fixture struct {
	svc   *ProjectServiceImpl
	repo  *MockProjectRepository
	audit *recordingAudit
	ctx   context.Context
}

func newFixture() *fixture {
	repo := &MockProjectRepository{}
	rec := &recordingAudit{}
	role := models.RoleSupervisor
	session := models.NewSession("s1", &models.Identity{UID: "creator", Email: "lead@example.org", DisplayName: "Lead"}, &role, nil)
	return &fixture{
		svc: &ProjectServiceImpl{
			Repo:   repo,
			Audit:  rec,
			Logger: zap.NewNop(),
			Now:    func() time.Time { return time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC) },
		},
		repo:  repo,
		audit: rec,
		ctx:   models.WithSession(context.Background(), session),
	}
}

func validRequest() CreateProjectRequest {
	return CreateProjectRequest{
		Name:      "North Ridge Clearance",
		Type:      "Demining",
		Location:  "Sector 4",
		StartDate: models.NewFlexTime(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		Status:    "Active",
	}
}

func TestCreateProjectInsertsCreatorFirst(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Users = []ProjectUser{{ID: "other", Email: "o@example.org", Role: "Team Member"}}

	project, err := f.svc.CreateProject(f.ctx, req)
	require.NoError(t, err)

	require.Len(t, project.Users, 2)
	assert.Equal(t, ProjectUser{ID: "creator", Email: "lead@example.org", DisplayName: "Lead", Role: "Project Manager"}, project.Users[0])
	assert.Equal(t, "creator", project.CreatedBy)
	assert.True(t, project.CreatedAt.Equal(f.svc.Now()))

	require.Len(t, f.audit.Entries, 1)
	assert.Equal(t, models.AuditActionCreate, f.audit.Entries[0].Action)
	assert.Equal(t, project.ID.Hex(), f.audit.Entries[0].EntityID)
}

func TestCreateProjectKeepsExistingCreatorEntry(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Users = []ProjectUser{
		{ID: "other", Role: "Observer"},
		{ID: "creator", Role: "Technical Advisor"},
	}

	project, err := f.svc.CreateProject(f.ctx, req)
	require.NoError(t, err)
	require.Len(t, project.Users, 2)
	assert.Equal(t, "other", project.Users[0].ID)
	assert.Equal(t, "Technical Advisor", project.Users[1].Role)
}

func TestCreateProjectValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateProjectRequest)
	}{
		{"missing name", func(r *CreateProjectRequest) { r.Name = " " }},
		{"bad type", func(r *CreateProjectRequest) { r.Type = "Mining" }},
		{"bad status", func(r *CreateProjectRequest) { r.Status = "Paused" }},
		{"missing start", func(r *CreateProjectRequest) { r.StartDate = models.FlexTime{} }},
		{"end before start", func(r *CreateProjectRequest) {
			end := models.NewFlexTime(r.StartDate.AddDate(0, 0, -1))
			r.EndDate = &end
		}},
		{"bad member role", func(r *CreateProjectRequest) { r.Users = []ProjectUser{{ID: "x", Role: "Boss"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(&req)
			_, err := f.svc.CreateProject(f.ctx, req)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
			assert.Empty(t, f.repo.Projects)
			assert.Empty(t, f.audit.Entries)
		})
	}
}

func TestCreateProjectDefaultsToPlanning(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Status = ""
	project, err := f.svc.CreateProject(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Planning", project.Status)
}

func TestCreateProjectRequiresSignedInUser(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateProject(context.Background(), validRequest())
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

func TestUpdateProjectDiffFollowsRequestOrder(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)
	f.audit.Entries = nil

	patch := models.Fields{
		{Name: "status", Value: "On Hold"},
		{Name: "location", Value: "Sector 4"},
		{Name: "name", Value: "South Ridge"},
		{Name: "end_date", Value: "2024-09-30"},
	}
	updated, err := f.svc.UpdateProject(f.ctx, project.ID.Hex(), patch)
	require.NoError(t, err)

	assert.Equal(t, "On Hold", updated.Status)
	assert.Equal(t, "South Ridge", updated.Name)
	require.NotNil(t, updated.EndDate)
	assert.Equal(t, "2024-09-30", updated.EndDate.Format("2006-01-02"))
	require.NotNil(t, updated.UpdatedAt)

	require.Len(t, f.audit.Entries, 1)
	changes := f.audit.Entries[0].Changes
	require.Len(t, changes, 3, "unchanged location is omitted")
	assert.Equal(t, models.Change{Field: "status", OldValue: "Active", NewValue: "On Hold"}, changes[0])
	assert.Equal(t, models.Change{Field: "name", OldValue: "North Ridge Clearance", NewValue: "South Ridge"}, changes[1])
	assert.Equal(t, "end_date", changes[2].Field)
	assert.Nil(t, changes[2].OldValue)

	stored, _ := f.repo.FindByID(f.ctx, project.ID.Hex())
	assert.Equal(t, "South Ridge", stored.Name)
}

func TestUpdateProjectRejectsUnknownAndImmutableFields(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)

	for _, field := range []string{"created_by", "created_at", "users", "colour"} {
		_, err := f.svc.UpdateProject(f.ctx, project.ID.Hex(), models.Fields{{Name: field, Value: "x"}})
		assert.ErrorIs(t, err, models.ErrInvalidInput, field)
	}

	_, err = f.svc.UpdateProject(f.ctx, project.ID.Hex(), models.Fields{{Name: "status", Value: "Finished"}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.UpdateProject(f.ctx, "000000000000000000000000", models.Fields{{Name: "name", Value: "x"}})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateProjectAuditFailureIsPartial(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)

	f.audit.Err = errors.New("audit store down")
	updated, err := f.svc.UpdateProject(f.ctx, project.ID.Hex(), models.Fields{{Name: "name", Value: "Renamed"}})
	assert.ErrorIs(t, err, models.ErrPartialFailure)
	require.NotNil(t, updated)

	stored, _ := f.repo.FindByID(f.ctx, project.ID.Hex())
	assert.Equal(t, "Renamed", stored.Name, "the primary write is not rolled back")
}

func TestUpdateProjectWriteFailureSkipsAudit(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)
	f.audit.Entries = nil

	f.repo.UpdateErr = models.ErrWriteFailed
	_, err = f.svc.UpdateProject(f.ctx, project.ID.Hex(), models.Fields{{Name: "name", Value: "Renamed"}})
	assert.ErrorIs(t, err, models.ErrWriteFailed)
	assert.Empty(t, f.audit.Entries)
}

func TestTeamMembership(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)
	id := project.ID.Hex()

	project, err = f.svc.AddUser(f.ctx, id, ProjectUser{ID: "u2", Email: "u2@example.org", Role: "Team Member"})
	require.NoError(t, err)
	assert.Len(t, project.Users, 2)

	_, err = f.svc.AddUser(f.ctx, id, ProjectUser{ID: "u2", Role: "Observer"})
	assert.ErrorIs(t, err, models.ErrConflict)

	project, err = f.svc.UpdateUserRole(f.ctx, id, "u2", "Field Supervisor")
	require.NoError(t, err)
	assert.Equal(t, "Field Supervisor", project.Users[1].Role)

	_, err = f.svc.UpdateUserRole(f.ctx, id, "u2", "Chief")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.svc.UpdateUserRole(f.ctx, id, "ghost", "Observer")
	assert.ErrorIs(t, err, models.ErrNotFound)

	project, err = f.svc.RemoveUser(f.ctx, id, "u2")
	require.NoError(t, err)
	assert.Len(t, project.Users, 1)

	stored, _ := f.repo.FindByID(f.ctx, id)
	assert.Equal(t, []ProjectUser{project.Users[0]}, stored.Users)

	last := f.audit.Entries[len(f.audit.Entries)-1]
	assert.Equal(t, models.AuditActionUpdate, last.Action)
	assert.Equal(t, "users", last.Changes[0].Field)
	assert.Contains(t, last.Details, "u2@example.org")
}

func TestListProjectsByUserDeduplicates(t *testing.T) {
	f := newFixture()
	req := validRequest()
	_, err := f.svc.CreateProject(f.ctx, req)
	require.NoError(t, err)

	other := models.NewSession("s2", &models.Identity{UID: "someone"}, nil, nil)
	req.Users = []ProjectUser{{ID: "creator", Role: "Observer"}}
	_, err = f.svc.CreateProject(models.WithSession(context.Background(), other), req)
	require.NoError(t, err)

	_, err = f.svc.CreateProject(models.WithSession(context.Background(), other), validRequest())
	require.NoError(t, err)

	mine, err := f.svc.ListProjectsByUser(f.ctx, "creator")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture()
	project, err := f.svc.CreateProject(f.ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProject(f.ctx, project.ID.Hex()))
	assert.Empty(t, f.repo.Projects)
	assert.Equal(t, models.AuditActionDelete, f.audit.Entries[len(f.audit.Entries)-1].Action)

	assert.ErrorIs(t, f.svc.DeleteProject(f.ctx, project.ID.Hex()), models.ErrNotFound)
}
