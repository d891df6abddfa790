package audit

import (
	"context"
	"testing"
	"time"

	"mineaction/internal/common/models"
	"mineaction/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDigestRunLogsPreviousDay(t *testing.T) {
	repo := &MockAuditRepository{Logs: []models.AuditLog{
		{Type: models.AuditTypeProject, Action: models.AuditActionCreate, Timestamp: models.NewFlexTime(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))},
		{Type: models.AuditTypeProject, Action: models.AuditActionCreate, Timestamp: models.NewFlexTime(time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC))},
		{Type: models.AuditTypeAction, Action: models.AuditActionUpdate, Timestamp: models.NewFlexTime(time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC))},
	}}
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	digest := NewDigest(newTestService(repo, time.UTC), &config.Config{Location: time.UTC}, logger)
	digest.Run(context.Background(), time.Date(2024, 6, 2, 6, 0, 0, 0, time.UTC))

	entries := recorded.FilterMessage("Audit daily digest").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2024-06-01", fields["date"])
	assert.EqualValues(t, 2, fields["total"])
	assert.EqualValues(t, 2, fields["project.create"])
}

func TestDigestDisabledWithoutSchedule(t *testing.T) {
	digest := NewDigest(newTestService(&MockAuditRepository{}, time.UTC), &config.Config{}, zap.NewNop())
	require.NoError(t, digest.Start())
	assert.Nil(t, digest.scheduler)
	digest.Stop()
}

func TestDigestRejectsBadSchedule(t *testing.T) {
	digest := NewDigest(newTestService(&MockAuditRepository{}, time.UTC), &config.Config{DailySummaryCron: "every day"}, zap.NewNop())
	assert.Error(t, digest.Start())
}
