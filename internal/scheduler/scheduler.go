package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesreport/internal/config"
	"github.com/mamadbah2/salesreport/internal/datastore"
	"github.com/mamadbah2/salesreport/internal/domain/models"
)

const snapshotTimeout = 2 * time.Minute

// SnapshotService refreshes a source and persists a report snapshot of it.
type SnapshotService interface {
	Refresh(src datastore.Source)
	Snapshot(ctx context.Context, src datastore.Source) (*models.ReportSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	svc      SnapshotService
	source   datastore.Source
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, svc SnapshotService, source datastore.Source, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	// Standard 5 field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		svc:      svc,
		source:   source,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		return fmt.Errorf("schedule report snapshot: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce drops the cached dataset, rebuilds the unfiltered report and stores it.
func (s *Scheduler) RunOnce() {
	s.logger.Info("taking report snapshot", zap.String("source", s.source.Key()))
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	s.svc.Refresh(s.source)

	snap, err := s.svc.Snapshot(ctx, s.source)
	if err != nil {
		s.logger.Error("failed to take report snapshot", zap.Error(err))
		return
	}
	s.logger.Info("report snapshot taken",
		zap.String("id", snap.ID),
		zap.Int("rows", snap.Report.Rows))
}
