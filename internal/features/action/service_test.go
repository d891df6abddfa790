package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockActionRepository struct {
	Actions   []*Action
	UpdateErr error
	Updates   int
}

func clone(a *Action) *Action {
	cp := *a
	cp.Comments = slices.Clone(a.Comments)
	cp.Evidence = slices.Clone(a.Evidence)
	return &cp
}

func (m *MockActionRepository) Create(ctx context.Context, a *Action) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.Actions = append(m.Actions, clone(a))
	return nil
}

func (m *MockActionRepository) FindByID(ctx context.Context, id string) (*Action, error) {
	for _, a := range m.Actions {
		if a.ID.Hex() == id {
			return clone(a), nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockActionRepository) ListByActivity(ctx context.Context, activityID string) ([]Action, error) {
	all, _ := m.ListAll(ctx)
	out := []Action{}
	for _, a := range all {
		if a.ActivityID == activityID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockActionRepository) ListAll(ctx context.Context) ([]Action, error) {
	out := []Action{}
	for i := len(m.Actions) - 1; i >= 0; i-- {
		out = append(out, *clone(m.Actions[i]))
	}
	return out, nil
}

func (m *MockActionRepository) Update(ctx context.Context, id string, set bson.D) error {
	m.Updates++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for i, a := range m.Actions {
		if a.ID.Hex() != id {
			continue
		}
		prior, err := models.ToMap(a)
		if err != nil {
			return err
		}
		for _, e := range set {
			prior[e.Key] = e.Value
		}
		var updated Action
		if err := models.FromMap(prior, &updated); err != nil {
			return err
		}
		m.Actions[i] = &updated
		return nil
	}
	return models.ErrNotFound
}

func (m *MockActionRepository) Delete(ctx context.Context, id string) error {
	for i, a := range m.Actions {
		if a.ID.Hex() == id {
			m.Actions = slices.Delete(m.Actions, i, i+1)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockActionRepository) EnsureIndexes(ctx context.Context) error { return nil }

type fakeActivities map[string]bool

func (f fakeActivities) GetActivity(ctx context.Context, id string) (*activity.Activity, error) {
	if !f[id] {
		return nil, models.ErrNotFound
	}
	return &activity.Activity{ProjectID: "p1", Crew: "A"}, nil
}

type fakeStore struct {
	Objects   map[string][]byte
	UploadErr error
	URLErr    error
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	if f.UploadErr != nil {
		return f.UploadErr
	}
	if f.Objects == nil {
		f.Objects = map[string][]byte{}
	}
	f.Objects[key] = data
	return nil
}

func (f *fakeStore) RetrievableURL(ctx context.Context, key string) (string, error) {
	if f.URLErr != nil {
		return "", f.URLErr
	}
	return "https://files.test/" + key, nil
}

var _ audit.ChangeLogger = (*recordingAudit)(nil)

type recordingAudit struct {
	Actions []models.AuditAction
	Changes [][]models.Change
	Err     error
}

func (r *recordingAudit) CreateLog(ctx context.Context, t models.AuditLogType, a models.AuditAction, id string, changes []models.Change, details string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Actions = append(r.Actions, a)
	r.Changes = append(r.Changes, changes)
	return nil
}

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newService() (*ActionServiceImpl, *MockActionRepository, *fakeStore, *recordingAudit) {
	repo := &MockActionRepository{}
	store := &fakeStore{}
	rec := &recordingAudit{}
	n := 0
	return &ActionServiceImpl{
		Repo:       repo,
		Activities: fakeActivities{"a1": true},
		Store:      store,
		Audit:      rec,
		Location:   time.UTC,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}, repo, store, rec
}

func request() CreateActionRequest {
	return CreateActionRequest{
		Issue:             "Damaged perimeter marker",
		ResponsiblePerson: "Amina",
		DueDate:           models.NewFlexTime(testNow.AddDate(0, 0, 3)),
		Priority:          "Critical",
	}
}

func TestCreateAction(t *testing.T) {
	svc, repo, _, rec := newService()

	_, err := svc.CreateAction(context.Background(), "nope", request())
	assert.ErrorIs(t, err, models.ErrNotFound)

	action, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, action.Status)
	assert.Equal(t, StatusPending, action.DisplayStatus)
	assert.Empty(t, action.Comments)
	assert.NotNil(t, action.Evidence)
	assert.Len(t, repo.Actions, 1)
	assert.Equal(t, []models.AuditAction{models.AuditActionCreate}, rec.Actions)

	bad := request()
	bad.Priority = "Urgent"
	_, err = svc.CreateAction(context.Background(), "a1", bad)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		due    time.Time
		want   string
	}{
		{"open and past due", StatusPending, testNow.AddDate(0, 0, -1), StatusOverdue},
		{"due today is not overdue", StatusInProgress, testNow.Add(-time.Hour), StatusInProgress},
		{"completed stays completed", StatusCompleted, testNow.AddDate(0, 0, -5), StatusCompleted},
		{"future", StatusPending, testNow.AddDate(0, 0, 1), StatusPending},
		{"stored overdue", StatusOverdue, testNow.AddDate(0, 0, 1), StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Action{Status: tt.status, DueDate: models.NewFlexTime(tt.due)}
			assert.Equal(t, tt.want, displayStatus(a, testNow))
		})
	}
}

func TestPlainDueDateReadInConfiguredZone(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	models.SetLocation(edt)
	t.Cleanup(func() { models.SetLocation(time.UTC) })

	svc, _, _, _ := newService()
	svc.Location = edt
	noon := time.Date(2024, 6, 10, 12, 0, 0, 0, edt)
	svc.Now = func() time.Time { return noon }

	var req CreateActionRequest
	body := `{"issue":"Fence down","responsible_person":"Amina","due_date":"2024-06-10","priority":"High"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	created, err := svc.CreateAction(context.Background(), "a1", req)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", created.DueDate.In(edt).Format("2006-01-02"))
	assert.Equal(t, StatusPending, created.DisplayStatus, "due today is not overdue")

	svc.Now = func() time.Time { return noon.AddDate(0, 0, 1) }
	got, err := svc.GetAction(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, got.DisplayStatus)
}

func TestDisplayStatusNeverStored(t *testing.T) {
	svc, repo, _, _ := newService()
	req := request()
	req.DueDate = models.NewFlexTime(testNow.AddDate(0, 0, -2))

	action, err := svc.CreateAction(context.Background(), "a1", req)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, action.DisplayStatus)
	assert.Equal(t, StatusPending, repo.Actions[0].Status)

	m, err := models.ToMap(action)
	require.NoError(t, err)
	assert.NotContains(t, m, "display_status")
}

func TestUpdateStatusIsNotAudited(t *testing.T) {
	svc, repo, _, rec := newService()
	action, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), action.ID.Hex(), StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.Equal(t, StatusInProgress, repo.Actions[0].Status)
	assert.Len(t, rec.Actions, 1)

	_, err = svc.UpdateStatus(context.Background(), action.ID.Hex(), "Done")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateStatusAudited(t *testing.T) {
	svc, _, _, rec := newService()
	action, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)

	_, err = svc.UpdateStatusAudited(context.Background(), action.ID.Hex(), StatusCompleted)
	require.NoError(t, err)
	require.Len(t, rec.Actions, 2)
	assert.Equal(t, models.AuditActionUpdate, rec.Actions[1])
	assert.Equal(t, []models.Change{{Field: "status", OldValue: StatusPending, NewValue: StatusCompleted}}, rec.Changes[1])
}

func TestAddCommentAppends(t *testing.T) {
	svc, repo, _, rec := newService()
	action, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), action.ID.Hex(), "first")
	require.NoError(t, err)
	updated, err := svc.AddComment(context.Background(), action.ID.Hex(), "first")
	require.NoError(t, err)

	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "id-1", updated.Comments[0].ID)
	assert.Equal(t, "id-2", updated.Comments[1].ID)
	assert.Len(t, repo.Actions[0].Comments, 2)
	assert.Equal(t, models.AuditActionUpdate, rec.Actions[2])

	_, err = svc.AddComment(context.Background(), action.ID.Hex(), "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAddEvidence(t *testing.T) {
	svc, repo, store, _ := newService()
	action, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)
	id := action.ID.Hex()

	updated, err := svc.AddEvidence(context.Background(), id, EvidenceUpload{
		Type: EvidencePhoto, Filename: "site.JPG", ContentType: "image/jpeg", Data: []byte("img"),
	})
	require.NoError(t, err)

	key := "actions/" + id + "/evidence/id-1.jpg"
	assert.Contains(t, store.Objects, key)
	require.Len(t, updated.Evidence, 1)
	assert.Equal(t, "https://files.test/"+key, updated.Evidence[0].URL)
	assert.Equal(t, key, updated.Evidence[0].Path)
	assert.Equal(t, "site.JPG", updated.Evidence[0].Filename)
	assert.Len(t, repo.Actions[0].Evidence, 1)
}

func TestAddEvidenceFailuresLeaveActionUntouched(t *testing.T) {
	upload := EvidenceUpload{Type: EvidenceFile, Filename: "report.pdf", Data: []byte("%PDF")}

	t.Run("upload", func(t *testing.T) {
		svc, repo, store, rec := newService()
		action, err := svc.CreateAction(context.Background(), "a1", request())
		require.NoError(t, err)
		store.UploadErr = errors.New("bucket gone")

		_, err = svc.AddEvidence(context.Background(), action.ID.Hex(), upload)
		assert.ErrorIs(t, err, models.ErrUploadFailed)
		assert.Zero(t, repo.Updates)
		assert.Empty(t, repo.Actions[0].Evidence)
		assert.Len(t, rec.Actions, 1)
	})

	t.Run("url", func(t *testing.T) {
		svc, repo, store, _ := newService()
		action, err := svc.CreateAction(context.Background(), "a1", request())
		require.NoError(t, err)
		store.URLErr = errors.New("presign")

		_, err = svc.AddEvidence(context.Background(), action.ID.Hex(), upload)
		assert.ErrorIs(t, err, models.ErrUploadFailed)
		assert.Zero(t, repo.Updates)
	})

	t.Run("missing action uploads nothing", func(t *testing.T) {
		svc, _, store, _ := newService()
		_, err := svc.AddEvidence(context.Background(), primitive.NewObjectID().Hex(), upload)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, store.Objects)
	})
}

func TestEvidenceKey(t *testing.T) {
	assert.Equal(t, "actions/x/evidence/e.png", EvidenceKey("x", "e", "a.b.PNG"))
	assert.Equal(t, "actions/x/evidence/e.bin", EvidenceKey("x", "e", "README"))
}

func TestListActionsFilteredAndDecorated(t *testing.T) {
	svc, _, _, _ := newService()
	first, err := svc.CreateAction(context.Background(), "a1", request())
	require.NoError(t, err)
	late := request()
	late.DueDate = models.NewFlexTime(testNow.AddDate(0, 0, -3))
	late.Priority = "Low"
	second, err := svc.CreateAction(context.Background(), "a1", late)
	require.NoError(t, err)

	all, err := svc.ListActions(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, StatusOverdue, all[0].DisplayStatus)

	critical, err := svc.ListActions(context.Background(), Filter{Priority: []string{"Critical"}})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, first.ID, critical[0].ID)

	// Filtering uses the stored status, not the computed one.
	overdue, err := svc.ListActions(context.Background(), Filter{Status: []string{StatusOverdue}})
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestDeleteActionMissing(t *testing.T) {
	svc, _, _, _ := newService()
	err := svc.DeleteAction(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
