package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"
	"mineaction/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ChangeLogger is the write side of the audit log that entity services
// depend on.
type ChangeLogger interface {
	// CreateLog appends one entry stamped with the actor carried by ctx.
	CreateLog(ctx context.Context, logType models.AuditLogType, action models.AuditAction, entityID string, changes []models.Change, details string) error
}

type AuditService interface {
	ChangeLogger
	GetLogs(ctx context.Context, q Query) ([]models.AuditLog, error)
	DailySummary(ctx context.Context, day time.Time) (*DailySummary, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	Location *time.Location
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewAuditService(repo AuditRepository, cfg *config.Config, logger *zap.Logger) AuditService {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &AuditServiceImpl{
		Repo:     repo,
		Location: loc,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *AuditServiceImpl) CreateLog(ctx context.Context, logType models.AuditLogType, action models.AuditAction, entityID string, changes []models.Change, details string) error {
	actor := models.ActorFrom(ctx)

	entry := &models.AuditLog{
		ID:        primitive.NewObjectID(),
		Type:      logType,
		Action:    action,
		EntityID:  entityID,
		UserID:    actor.UID,
		UserName:  actor.Name,
		Timestamp: models.NewFlexTime(s.Now()),
		Changes:   changes,
		Details:   details,
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		metrics.AuditWrites.WithLabelValues(string(logType), string(action), "error").Inc()
		s.Logger.Error("Failed to write audit log",
			zap.String("entity", string(logType)),
			zap.String("entity_id", entityID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return err
	}

	metrics.AuditWrites.WithLabelValues(string(logType), string(action), "ok").Inc()
	return nil
}

func (s *AuditServiceImpl) GetLogs(ctx context.Context, q Query) ([]models.AuditLog, error) {
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return nil, fmt.Errorf("%w: end is before start", models.ErrInvalidInput)
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return s.Repo.List(ctx, q)
}

// DailySummary returns the entries of the local calendar day containing day,
// from midnight through 23:59:59.999, with counts per type and action.
func (s *AuditServiceImpl) DailySummary(ctx context.Context, day time.Time) (*DailySummary, error) {
	start, end := s.dayBounds(day)

	logs, err := s.Repo.List(ctx, Query{Start: &start, End: &end})
	if err != nil {
		return nil, err
	}

	return &DailySummary{
		Date:   start.Format("2006-01-02"),
		Start:  start,
		End:    end,
		Total:  len(logs),
		Counts: countByTypeAndAction(logs),
		Logs:   logs,
	}, nil
}

func (s *AuditServiceImpl) dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.In(s.Location).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.Location)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func countByTypeAndAction(logs []models.AuditLog) []Count {
	type key struct {
		t models.AuditLogType
		a models.AuditAction
	}
	totals := make(map[key]int)
	for _, l := range logs {
		totals[key{l.Type, l.Action}]++
	}

	counts := make([]Count, 0, len(totals))
	for k, n := range totals {
		counts = append(counts, Count{Type: k.t, Action: k.a, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Type != counts[j].Type {
			return counts[i].Type < counts[j].Type
		}
		return counts[i].Action < counts[j].Action
	})
	return counts
}

// PartialFailure reports an audit error that followed a committed write.
// The caller's change is in the store; only the trail is missing.
func PartialFailure(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: audit entry not written: %w", models.ErrPartialFailure, err)
}
