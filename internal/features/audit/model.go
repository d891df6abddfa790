package audit

import (
	"time"

	"mineaction/internal/common/models"
)

// Query narrows GetLogs. Zero values mean "no constraint"; Start and End are
// inclusive.
type Query struct {
	Type     models.AuditLogType
	EntityID string
	UserID   string
	Start    *time.Time
	End      *time.Time
	Limit    int64
}

// Count is the number of entries for one type/action pair.
type Count struct {
	Type   models.AuditLogType `json:"type" bson:"type"`
	Action models.AuditAction  `json:"action" bson:"action"`
	Count  int                 `json:"count" bson:"count"`
}

// DailySummary covers one local calendar day.
type DailySummary struct {
	Date   string            `json:"date"`
	Start  time.Time         `json:"start"`
	End    time.Time         `json:"end"`
	Total  int               `json:"total"`
	Counts []Count           `json:"counts"`
	Logs   []models.AuditLog `json:"logs"`
}
