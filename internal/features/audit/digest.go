package audit

import (
	"context"
	"fmt"
	"time"

	"mineaction/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Digest logs the previous day's audit counts on a cron schedule. It only
// reads.
type Digest struct {
	service  AuditService
	logger   *zap.Logger
	schedule string
	location *time.Location

	scheduler *cron.Cron
}

func NewDigest(service AuditService, cfg *config.Config, logger *zap.Logger) *Digest {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Digest{
		service:  service,
		logger:   logger,
		schedule: cfg.DailySummaryCron,
		location: loc,
	}
}

// Start registers the job. An empty schedule leaves the digest disabled.
func (d *Digest) Start() error {
	if d.schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(d.schedule); err != nil {
		return fmt.Errorf("invalid DAILY_SUMMARY_CRON: %w", err)
	}

	d.scheduler = cron.New(cron.WithLocation(d.location))
	if _, err := d.scheduler.AddFunc(d.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		d.Run(ctx, time.Now())
	}); err != nil {
		return err
	}

	d.scheduler.Start()
	d.logger.Info("Audit digest scheduled", zap.String("schedule", d.schedule))
	return nil
}

func (d *Digest) Stop() {
	if d.scheduler == nil {
		return
	}
	<-d.scheduler.Stop().Done()
}

// Run summarizes the day before now.
func (d *Digest) Run(ctx context.Context, now time.Time) {
	summary, err := d.service.DailySummary(ctx, now.In(d.location).AddDate(0, 0, -1))
	if err != nil {
		d.logger.Error("Failed to build audit digest", zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String("date", summary.Date),
		zap.Int("total", summary.Total),
	}
	for _, c := range summary.Counts {
		fields = append(fields, zap.Int(string(c.Type)+"."+string(c.Action), c.Count))
	}
	d.logger.Info("Audit daily digest", fields...)
}
