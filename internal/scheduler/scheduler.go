package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer abandons pending donations older than the given age.
type Expirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int, error)
}

type Config struct {
	Spec       string
	PendingTTL time.Duration
	JobTimeout time.Duration
}

// Scheduler runs the pending-donation expiry job on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	expirer Expirer
	config  Config
	logger  *slog.Logger
}

func New(expirer Expirer, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Spec == "" {
		cfg.Spec = "@every 15m"
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 2 * time.Hour
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:    c,
		expirer: expirer,
		config:  cfg,
		logger:  logger,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.Spec, s.ExpirePending); err != nil {
		return fmt.Errorf("schedule pending donation expiry %q: %w", s.config.Spec, err)
	}
	s.logger.Info("scheduled pending donation expiry", "schedule", s.config.Spec, "pending_ttl", s.config.PendingTTL)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) ExpirePending() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobTimeout)
	defer cancel()

	count, err := s.expirer.ExpireStale(ctx, s.config.PendingTTL)
	if err != nil {
		s.logger.Error("pending donation expiry failed", "error", err)
		return
	}
	s.logger.Info("pending donation expiry finished", "abandoned", count)
}
