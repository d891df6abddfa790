package action

import (
	"context"
	"fmt"
	"mime"
	"path"
	"slices"
	"strings"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/features/activity"
	"mineaction/internal/features/audit"
	"mineaction/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityFinder confirms the parent activity exists.
type ActivityFinder interface {
	GetActivity(ctx context.Context, id string) (*activity.Activity, error)
}

type ActionService interface {
	CreateAction(ctx context.Context, activityID string, req CreateActionRequest) (*Action, error)
	GetAction(ctx context.Context, id string) (*Action, error)
	ListByActivity(ctx context.Context, activityID string) ([]Action, error)
	ListActions(ctx context.Context, filter Filter) ([]Action, error)
	UpdateAction(ctx context.Context, id string, patch models.Fields) (*Action, error)
	// UpdateStatus is the inline status toggle. It writes no audit entry.
	UpdateStatus(ctx context.Context, id, status string) (*Action, error)
	UpdateStatusAudited(ctx context.Context, id, status string) (*Action, error)
	DeleteAction(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, content string) (*Action, error)
	AddEvidence(ctx context.Context, id string, upload EvidenceUpload) (*Action, error)
}

type ActionServiceImpl struct {
	Repo       ActionRepository
	Activities ActivityFinder
	Store      storage.ObjectStore
	Audit      audit.ChangeLogger
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
	NewID      func() string
}

func NewActionService(repo ActionRepository, activities ActivityFinder, store storage.ObjectStore, auditService audit.AuditService, cfg *config.Config, logger *zap.Logger) ActionService {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &ActionServiceImpl{
		Repo:       repo,
		Activities: activities,
		Store:      store,
		Audit:      auditService,
		Location:   loc,
		Logger:     logger,
		Now:        time.Now,
		NewID:      uuid.NewString,
	}
}

func (s *ActionServiceImpl) CreateAction(ctx context.Context, activityID string, req CreateActionRequest) (*Action, error) {
	if req.Status == "" {
		req.Status = StatusPending
	}
	if err := validateCreate(&req); err != nil {
		return nil, err
	}
	if _, err := s.Activities.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}

	action := &Action{
		ActivityID:        activityID,
		Issue:             req.Issue,
		ResponsiblePerson: req.ResponsiblePerson,
		DueDate:           req.DueDate,
		Priority:          req.Priority,
		Status:            req.Status,
		Comments:          []ActionComment{},
		Evidence:          []ActionEvidence{},
		CreatedBy:         models.ActorFrom(ctx).UID,
		CreatedAt:         models.NewFlexTime(s.Now()),
	}
	if err := s.Repo.Create(ctx, action); err != nil {
		s.Logger.Error("Failed to create action", zap.String("entity", "action"), zap.Error(err))
		return nil, err
	}

	err := s.Audit.CreateLog(ctx, models.AuditTypeAction, models.AuditActionCreate, action.ID.Hex(), nil,
		fmt.Sprintf("Raised %s priority action: %s", action.Priority, action.Issue))
	return s.decorate(action), audit.PartialFailure(err)
}

func validateCreate(req *CreateActionRequest) error {
	req.Issue = strings.TrimSpace(req.Issue)
	req.ResponsiblePerson = strings.TrimSpace(req.ResponsiblePerson)

	switch {
	case req.Issue == "":
		return fmt.Errorf("%w: issue is required", models.ErrInvalidInput)
	case req.ResponsiblePerson == "":
		return fmt.Errorf("%w: responsible_person is required", models.ErrInvalidInput)
	case req.DueDate.IsZero():
		return fmt.Errorf("%w: due_date is required", models.ErrInvalidInput)
	}
	if err := models.CheckEnum("priority", req.Priority, Priorities); err != nil {
		return err
	}
	return models.CheckEnum("status", req.Status, Statuses)
}

func (s *ActionServiceImpl) GetAction(ctx context.Context, id string) (*Action, error) {
	action, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(action), nil
}

func (s *ActionServiceImpl) ListByActivity(ctx context.Context, activityID string) ([]Action, error) {
	actions, err := s.Repo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(actions), nil
}

func (s *ActionServiceImpl) ListActions(ctx context.Context, filter Filter) ([]Action, error) {
	actions, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(filter.Apply(actions)), nil
}

func (s *ActionServiceImpl) UpdateAction(ctx context.Context, id string, patch models.Fields) (*Action, error) {
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

	var updated Action
	if err := models.FromMap(models.Apply(priorMap, set), &updated); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, id, set.D()); err != nil {
		s.Logger.Error("Failed to update action", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeAction, models.AuditActionUpdate, id, changes, "")
	return s.decorate(&updated), audit.PartialFailure(err)
}

func (s *ActionServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*Action, error) {
	if err := models.CheckEnum("status", status, Statuses); err != nil {
		return nil, err
	}
	action, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := models.NewFlexTime(s.Now())
	set := models.Fields{{Name: "status", Value: status}, {Name: "updated_at", Value: now.Time}}
	if err := s.Repo.Update(ctx, id, set.D()); err != nil {
		s.Logger.Error("Failed to update action status", zap.String("entity_id", id), zap.Error(err))
		return nil, err
	}
	action.Status = status
	action.UpdatedAt = &now
	return s.decorate(action), nil
}

func (s *ActionServiceImpl) UpdateStatusAudited(ctx context.Context, id, status string) (*Action, error) {
	return s.UpdateAction(ctx, id, models.Fields{{Name: "status", Value: status}})
}

func (s *ActionServiceImpl) DeleteAction(ctx context.Context, id string) error {
	prior, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		s.Logger.Error("Failed to delete action", zap.String("entity_id", id), zap.Error(err))
		return err
	}

	err = s.Audit.CreateLog(ctx, models.AuditTypeAction, models.AuditActionDelete, id, nil,
		fmt.Sprintf("Deleted action: %s", prior.Issue))
	return audit.PartialFailure(err)
}

func (s *ActionServiceImpl) AddComment(ctx context.Context, id, content string) (*Action, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", models.ErrInvalidInput)
	}

	action, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment := ActionComment{
		ID:        s.NewID(),
		Content:   content,
		CreatedBy: models.ActorFrom(ctx).UID,
		CreatedAt: models.NewFlexTime(s.Now()),
	}
	comments := append(slices.Clone(action.Comments), comment)
	if err := s.writeArray(ctx, action, "comments", comments); err != nil {
		return nil, err
	}
	action.Comments = comments

	changes := []models.Change{{Field: "comments", OldValue: nil, NewValue: comment}}
	err = s.Audit.CreateLog(ctx, models.AuditTypeAction, models.AuditActionUpdate, id, changes, "Added comment")
	return s.decorate(action), audit.PartialFailure(err)
}

// AddEvidence stores the file first and only then appends the record. A
// failed upload leaves the action untouched. A failed write after a
// successful upload leaves an unreferenced object behind.
func (s *ActionServiceImpl) AddEvidence(ctx context.Context, id string, upload EvidenceUpload) (*Action, error) {
	if err := models.CheckEnum("type", upload.Type, EvidenceTypes); err != nil {
		return nil, err
	}
	upload.Filename = path.Base(strings.TrimSpace(upload.Filename))
	if upload.Filename == "" || upload.Filename == "." || upload.Filename == "/" {
		return nil, fmt.Errorf("%w: filename is required", models.ErrInvalidInput)
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", models.ErrInvalidInput)
	}

	action, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	evidenceID := s.NewID()
	key := EvidenceKey(id, evidenceID, upload.Filename)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(upload.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.Store.Upload(ctx, key, contentType, upload.Data); err != nil {
		s.Logger.Error("Evidence upload failed", zap.String("entity_id", id), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrUploadFailed, err)
	}
	url, err := s.Store.RetrievableURL(ctx, key)
	if err != nil {
		s.Logger.Error("Evidence URL failed", zap.String("entity_id", id), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrUploadFailed, err)
	}

	evidence := ActionEvidence{
		ID:        evidenceID,
		Type:      upload.Type,
		URL:       url,
		Filename:  upload.Filename,
		Path:      key,
		CreatedBy: models.ActorFrom(ctx).UID,
		CreatedAt: models.NewFlexTime(s.Now()),
	}
	items := append(slices.Clone(action.Evidence), evidence)
	if err := s.writeArray(ctx, action, "evidence", items); err != nil {
		s.Logger.Warn("Evidence stored but not attached", zap.String("entity_id", id), zap.String("key", key))
		return nil, err
	}
	action.Evidence = items

	changes := []models.Change{{Field: "evidence", OldValue: nil, NewValue: evidence}}
	err = s.Audit.CreateLog(ctx, models.AuditTypeAction, models.AuditActionUpdate, id, changes,
		fmt.Sprintf("Attached %s %s", upload.Type, upload.Filename))
	return s.decorate(action), audit.PartialFailure(err)
}

// writeArray replaces a whole embedded array. Concurrent appends to the same
// action can drop each other's items.
func (s *ActionServiceImpl) writeArray(ctx context.Context, action *Action, field string, value any) error {
	now := models.NewFlexTime(s.Now())
	set := models.Fields{{Name: field, Value: value}, {Name: "updated_at", Value: now.Time}}
	if err := s.Repo.Update(ctx, action.ID.Hex(), set.D()); err != nil {
		s.Logger.Error("Failed to update action", zap.String("entity_id", action.ID.Hex()), zap.String("field", field), zap.Error(err))
		return err
	}
	action.UpdatedAt = &now
	return nil
}

// EvidenceKey is the object key for one evidence file.
func EvidenceKey(actionID, evidenceID, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("actions/%s/evidence/%s.%s", actionID, evidenceID, strings.ToLower(ext))
}

func (s *ActionServiceImpl) decorate(a *Action) *Action {
	a.DisplayStatus = displayStatus(a, s.Now().In(s.Location))
	return a
}

func (s *ActionServiceImpl) decorateAll(actions []Action) []Action {
	for i := range actions {
		s.decorate(&actions[i])
	}
	return actions
}
