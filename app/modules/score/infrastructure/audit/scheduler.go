// Package scoreaudit runs the periodic ledger audit.
package scoreaudit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	"github.com/robfig/cron/v3"
)

// Auditor re-derives member totals from point events.
type Auditor interface {
	AuditRecentActivity(ctx context.Context, since time.Time) ([]scoretypes.AuditReport, error)
}

// Scheduler runs an audit over a trailing window on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	auditor  Auditor
	schedule string
	lookback time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler validates schedule (standard five-field cron syntax or a
// descriptor such as "@hourly") and returns an unstarted scheduler.
func NewScheduler(auditor Auditor, schedule string, lookback time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("audit lookback must be positive, got %s", lookback)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		auditor:  auditor,
		schedule: schedule,
		lookback: lookback,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the audit job and starts the cron loop. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled ledger audit failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("register audit job: %w", err)
	}
	s.cron.Start()
	s.logger.InfoContext(ctx, "Ledger audit scheduled",
		slog.String("schedule", s.schedule),
		slog.Duration("lookback", s.lookback),
	)
	return nil
}

// RunOnce audits every member who received points within the lookback window.
func (s *Scheduler) RunOnce(ctx context.Context) ([]scoretypes.AuditReport, error) {
	since := s.now().Add(-s.lookback)
	reports, err := s.auditor.AuditRecentActivity(ctx, since)
	if err != nil {
		return nil, err
	}

	drifted := 0
	for _, r := range reports {
		if r.Drift {
			drifted++
		}
	}
	s.logger.InfoContext(ctx, "Ledger audit finished",
		slog.Time("since", since),
		slog.Int("audited", len(reports)),
		slog.Int("drifted", drifted),
	)
	return reports, nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
