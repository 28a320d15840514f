package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

// SnapshotValidator validates one snapshot against a policy
type SnapshotValidator interface {
	ValidateSnapshot(ctx context.Context, kb *model.KnowledgeBase, policy model.ReferencePolicy) *model.ValidationReport
}

// FileJob validates one snapshot file
type FileJob struct {
	Path      string
	Policy    model.ReferencePolicy
	Validator SnapshotValidator
}

// Execute loads and validates the snapshot file
func (j *FileJob) Execute(ctx context.Context) Result {
	kb, err := model.LoadKnowledgeBase(j.Path)
	if err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}
	return &FileResult{
		Path:   j.Path,
		Report: j.Validator.ValidateSnapshot(ctx, &kb, j.Policy),
	}
}

// FileResult is the outcome for one snapshot file
type FileResult struct {
	Path   string
	Report *model.ValidationReport
	Error  error
}

// GetError returns the load error, if any
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor validates many snapshot files concurrently
type BatchProcessor struct {
	validator   SnapshotValidator
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(validator SnapshotValidator, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		validator:   validator,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessFiles validates every path against policy. Results follow the order of paths.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, policy model.ReferencePolicy) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{
			Path:      path,
			Policy:    policy,
			Validator: b.validator,
		})
	}

	results := pool.Wait()

	out := make([]*FileResult, len(paths))
	for i, path := range paths {
		if i < len(results) && results[i] != nil {
			out[i] = results[i].(*FileResult)
			continue
		}
		out[i] = &FileResult{Path: path, Error: fmt.Errorf("not validated: %w", context.Canceled)}
	}

	failed := 0
	for _, r := range out {
		if r.Error != nil {
			failed++
		}
	}
	b.logger.Info("batch validation finished",
		zap.Int("files", len(out)),
		zap.Int("failed", failed),
		zap.Int("workers", b.concurrency))

	return out
}

// CollectPaths expands arguments into snapshot files. Directories contribute
// their *.json, *.yaml and *.yml files in name order; duplicates are dropped.
func CollectPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".json", ".yaml", ".yml":
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(arg, name))
		}
	}

	return paths, nil
}

// ReadPathsFromFile reads snapshot paths from a list file (one per line).
// Blank lines and # comments are skipped; relative paths resolve against the
// list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(listPath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
