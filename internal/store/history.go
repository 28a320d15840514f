package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ppiankov/knowval/internal/model"
)

const (
	historyFile   = "history.json"
	historyDBFile = "history.db"

	// DefaultHistoryLimit bounds history when the configured limit is not positive
	DefaultHistoryLimit = 100
)

// HistoryBackend keeps the most recent validation runs, oldest first
type HistoryBackend interface {
	Append(ctx context.Context, run model.HistoryRun) error
	List(ctx context.Context) ([]model.HistoryRun, error)
	Close() error
}

type historyDocument struct {
	Runs []model.HistoryRun `json:"runs"`
}

// fileHistory stores runs in history.json as {"runs": [...]}
type fileHistory struct {
	records *recordDir
	limit   int
	mu      sync.Mutex
}

func newFileHistory(records *recordDir, limit int) *fileHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &fileHistory{records: records, limit: limit}
}

func (h *fileHistory) load() ([]model.HistoryRun, error) {
	data, ok, err := h.records.read(historyFile)
	if err != nil || !ok {
		return []model.HistoryRun{}, err
	}

	var doc historyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if doc.Runs == nil {
		doc.Runs = []model.HistoryRun{}
	}
	return doc.Runs, nil
}

func (h *fileHistory) Append(_ context.Context, run model.HistoryRun) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	runs, err := h.load()
	if err != nil {
		return err
	}

	runs = append(runs, run)
	if len(runs) > h.limit {
		runs = runs[len(runs)-h.limit:]
	}
	return h.records.write(historyFile, historyDocument{Runs: runs})
}

func (h *fileHistory) List(_ context.Context) ([]model.HistoryRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *fileHistory) Close() error {
	return nil
}
