package platform

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const snapshotTimeout = time.Minute

// SnapshotScheduler takes platform snapshots on the configured cron spec.
type SnapshotScheduler struct {
	service  PlatformService
	spec     string
	logger   *zap.Logger
	schedule *cron.Cron
}

func NewSnapshotScheduler(service PlatformService, cfg *config.Config, logger *zap.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		service: service,
		spec:    cfg.PlatformSnapshotCron,
		logger:  logger,
	}
}

// Start registers the snapshot job. An empty spec leaves the scheduler off.
func (s *SnapshotScheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("platform snapshots disabled")
		return nil
	}

	s.schedule = cron.New()
	if _, err := s.schedule.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("invalid PLATFORM_SNAPSHOT_CRON %q: %w", s.spec, err)
	}
	s.schedule.Start()
	s.logger.Info("platform snapshots scheduled", zap.String("spec", s.spec))
	return nil
}

func (s *SnapshotScheduler) Stop() {
	if s.schedule == nil {
		return
	}
	<-s.schedule.Stop().Done()
}

func (s *SnapshotScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	if _, err := s.service.TakeSnapshot(ctx); err != nil {
		s.logger.Error("platform snapshot failed", zap.Error(err))
	}
}

// RegisterSnapshotScheduler ties the scheduler to the application lifecycle.
func RegisterSnapshotScheduler(lc fx.Lifecycle, s *SnapshotScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return s.Start()
		},
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
}
