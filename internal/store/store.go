package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/knowval/internal/cache"
	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

// Record file names inside the data directory
const (
	SnapshotFile = "agent1_output.json"
	PolicyFile   = "reference.json"
	ReportFile   = "validation_report.json"
)

// FileStore persists the active snapshot, the active policy, the latest
// report and the run history under one data directory
type FileStore struct {
	records     *recordDir
	examplesDir string
	history     HistoryBackend
	logger      *zap.Logger
}

// Open prepares the data directory and the configured history backend
func Open(cfg model.DataConfig, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("data directory must be specified")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	records := newRecordDir(cfg.Dir, cfg.CacheTTL)

	var history HistoryBackend
	switch cfg.HistoryBackend {
	case "", "file":
		history = newFileHistory(records, cfg.HistoryLimit)
	case "sqlite":
		h, err := newSQLiteHistory(records.file(historyDBFile), cfg.HistoryLimit)
		if err != nil {
			return nil, err
		}
		history = h
	default:
		return nil, fmt.Errorf("unknown history backend: %s (supported: file, sqlite)", cfg.HistoryBackend)
	}

	return &FileStore{
		records:     records,
		examplesDir: cfg.ExamplesPath(),
		history:     history,
		logger:      logger,
	}, nil
}

// Dir returns the data directory
func (s *FileStore) Dir() string {
	return s.records.path
}

// Close releases the history backend
func (s *FileStore) Close() error {
	return s.history.Close()
}

// Seed writes the demo snapshot and policy when they are absent
func (s *FileStore) Seed() error {
	if !s.records.exists(SnapshotFile) {
		if err := s.SaveSnapshot(model.DemoKnowledgeBase()); err != nil {
			return err
		}
		s.logger.Info("seeded demo snapshot", zap.String("file", s.records.file(SnapshotFile)))
	}
	if !s.records.exists(PolicyFile) {
		if err := s.SavePolicy(model.DemoPolicy()); err != nil {
			return err
		}
		s.logger.Info("seeded demo policy", zap.String("file", s.records.file(PolicyFile)))
	}
	return nil
}

// Snapshot returns the active snapshot, or the defaults when none is stored
func (s *FileStore) Snapshot() (model.KnowledgeBase, error) {
	data, ok, err := s.records.read(SnapshotFile)
	if err != nil {
		return model.KnowledgeBase{}, err
	}
	if !ok {
		return model.NewKnowledgeBase(), nil
	}
	kb, err := model.DecodeKnowledgeBase(SnapshotFile, data)
	if err != nil {
		return model.KnowledgeBase{}, fmt.Errorf("load snapshot: %w", err)
	}
	return kb, nil
}

// SaveSnapshot replaces the active snapshot
func (s *FileStore) SaveSnapshot(kb model.KnowledgeBase) error {
	return s.records.write(SnapshotFile, kb)
}

// Policy returns the active policy, or the defaults when none is stored
func (s *FileStore) Policy() (model.ReferencePolicy, error) {
	data, ok, err := s.records.read(PolicyFile)
	if err != nil {
		return model.ReferencePolicy{}, err
	}
	if !ok {
		return model.NewReferencePolicy(), nil
	}
	p, err := model.DecodeReferencePolicy(PolicyFile, data)
	if err != nil {
		return model.ReferencePolicy{}, fmt.Errorf("load policy: %w", err)
	}
	return p, nil
}

// SavePolicy replaces the active policy
func (s *FileStore) SavePolicy(p model.ReferencePolicy) error {
	return s.records.write(PolicyFile, p)
}

// LatestReport returns the last persisted report. ok is false when no run has
// been persisted yet.
func (s *FileStore) LatestReport() (*model.ValidationReport, bool, error) {
	data, ok, err := s.records.read(ReportFile)
	if err != nil || !ok {
		return nil, false, err
	}
	var report model.ValidationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("decode report: %w", err)
	}
	return &report, true, nil
}

// SaveReport replaces the latest report
func (s *FileStore) SaveReport(report *model.ValidationReport) error {
	return s.records.write(ReportFile, report)
}

// AppendHistory records a finished run
func (s *FileStore) AppendHistory(ctx context.Context, run model.HistoryRun) error {
	return s.history.Append(ctx, run)
}

// History lists the retained runs, oldest first
func (s *FileStore) History(ctx context.Context) ([]model.HistoryRun, error) {
	return s.history.List(ctx)
}

// CacheStats reports the record cache counters
func (s *FileStore) CacheStats() cache.Stats {
	return s.records.cache.Stats()
}
