package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/knowval/internal/model"
	"github.com/ppiankov/knowval/internal/validate"
	"go.uber.org/zap"
)

// Store is the persistence the pipeline reads from and writes to
type Store interface {
	Snapshot() (model.KnowledgeBase, error)
	Policy() (model.ReferencePolicy, error)
	LatestReport() (*model.ValidationReport, bool, error)
	SaveReport(report *model.ValidationReport) error
	AppendHistory(ctx context.Context, run model.HistoryRun) error
}

// Recorder observes finished validations (metrics)
type Recorder interface {
	ObserveReport(report *model.ValidationReport, elapsed time.Duration)
}

// Pipeline orchestrates a validation run: load, validate, persist, record
type Pipeline struct {
	store     Store
	validator *validate.Validator
	recorder  Recorder // Optional, nil if metrics are disabled
	logger    *zap.Logger
	newRunID  func() string
}

// NewPipeline creates a pipeline over the given store
func NewPipeline(store Store, validator *validate.Validator, recorder Recorder, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:     store,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
		newRunID:  uuid.NewString,
	}
}

// ValidateSnapshot validates a snapshot against a policy without persisting anything
func (p *Pipeline) ValidateSnapshot(ctx context.Context, kb *model.KnowledgeBase, policy model.ReferencePolicy) *model.ValidationReport {
	start := time.Now()
	report := p.validator.Validate(ctx, kb, policy)
	if p.recorder != nil {
		p.recorder.ObserveReport(report, time.Since(start))
	}
	return report
}

// Run validates the active snapshot against the active policy, persists the
// report and appends a history entry
func (p *Pipeline) Run(ctx context.Context) (*model.ValidationReport, error) {
	kb, err := p.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	policy, err := p.store.Policy()
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	report := p.ValidateSnapshot(ctx, &kb, policy)

	if err := p.store.SaveReport(report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	run := model.NewHistoryRun(p.newRunID(), report.GeneratedAt, &kb, report)
	if err := p.store.AppendHistory(ctx, run); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	p.logger.Info("validation run completed",
		zap.String("run_id", run.RunID),
		zap.String("knowledge_base_id", kb.KnowledgeBaseID),
		zap.String("snapshot_id", kb.SnapshotID),
		zap.String("mode", string(report.Mode)),
		zap.Int("issues", report.Summary.IssuesTotal))

	return report, nil
}

// ValidateText runs a validation and returns only the narrative, which is
// empty in deterministic mode
func (p *Pipeline) ValidateText(ctx context.Context) (string, error) {
	report, err := p.Run(ctx)
	if err != nil {
		return "", err
	}
	return report.AIReport, nil
}

// LatestReport returns the last persisted report, running a validation first
// when none exists
func (p *Pipeline) LatestReport(ctx context.Context) (*model.ValidationReport, error) {
	report, ok, err := p.store.LatestReport()
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if ok {
		return report, nil
	}

	p.logger.Debug("no stored report, generating one")
	return p.Run(ctx)
}
