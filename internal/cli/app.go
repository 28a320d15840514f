package cli

import (
	"context"

	"github.com/ppiankov/knowval/internal/llm"
	"github.com/ppiankov/knowval/internal/logging"
	"github.com/ppiankov/knowval/internal/metrics"
	"github.com/ppiankov/knowval/internal/model"
	"github.com/ppiankov/knowval/internal/pipeline"
	"github.com/ppiankov/knowval/internal/store"
	"github.com/ppiankov/knowval/internal/validate"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds the components shared by every command
type app struct {
	cfg       model.Config
	logger    *zap.Logger
	store     *store.FileStore
	narrator  *llm.Narrator
	collector *metrics.Collector // nil when metrics are disabled
	pipeline  *pipeline.Pipeline
}

// newApp wires configuration, logging, storage, the narrative provider and the pipeline
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Data, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, store: st}

	// A misconfigured provider degrades to deterministic reports
	narrator, err := llm.NewNarrator(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		logger.Warn("narrative provider unavailable, reports stay deterministic",
			zap.String("provider", cfg.LLM.Provider),
			zap.Error(err))
	} else if narrator.IsEnabled() {
		a.narrator = narrator
		logger.Debug("narrative provider configured", zap.String("provider", narrator.ProviderName()))
	}

	var recorder pipeline.Recorder
	if cfg.Metrics.Enabled {
		a.collector = metrics.NewCollector(cfg.Metrics)
		a.collector.RegisterCacheStats(cfg.Metrics.Namespace, st.CacheStats)
		recorder = a.collector
	}

	a.pipeline = pipeline.NewPipeline(st, validate.NewValidator(a.validateNarrator(), logger), recorder, logger)
	return a, nil
}

// validateNarrator keeps a disabled narrator from becoming a non-nil interface
func (a *app) validateNarrator() validate.Narrator {
	if a.narrator == nil {
		return nil
	}
	return a.narrator
}

// watch starts the data directory watcher when enabled
func (a *app) watch(ctx context.Context) {
	if !a.cfg.Data.Watch {
		return
	}
	if err := a.store.Watch(ctx); err != nil {
		a.logger.Warn("data directory watcher disabled", zap.Error(err))
	}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
