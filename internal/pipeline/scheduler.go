package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ppiankov/knowval/internal/model"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner performs one persisted validation run
type Runner interface {
	Run(ctx context.Context) (*model.ValidationReport, error)
}

// Scheduler triggers validation runs on a cron schedule
type Scheduler struct {
	runner  Runner
	spec    string
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for spec, a 5-field cron expression or a
// descriptor such as "@hourly" or "@every 10m"
func NewScheduler(runner Runner, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		runner: runner,
		spec:   spec,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the job and starts the cron loop. An empty spec does
// nothing. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" {
		s.logger.Debug("validation schedule not configured")
		return nil
	}

	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}
	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule validation: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("validation scheduler started", zap.String("schedule", s.spec))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	report, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled validation failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled validation completed",
		zap.String("snapshot_id", report.SnapshotID),
		zap.Int("issues", report.Summary.IssuesTotal),
		zap.Duration("elapsed", time.Since(start)))
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("validation scheduler stopped")
	}
}

// NextRun returns the next scheduled run, or nil when idle
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if !s.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
