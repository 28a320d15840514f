package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrInvalidExampleName is returned for names that could escape the examples directory
	ErrInvalidExampleName = errors.New("invalid example name")
	// ErrExampleNotFound is returned when no example has the given name
	ErrExampleNotFound = errors.New("example not found")
)

// ListExamples returns the sorted *.json file names of the examples directory
func (s *FileStore) ListExamples() ([]string, error) {
	entries, err := os.ReadDir(s.examplesDir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// LoadExample decodes the named example and makes it the active snapshot
func (s *FileStore) LoadExample(name string) (model.KnowledgeBase, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return model.KnowledgeBase{}, fmt.Errorf("%w: %q", ErrInvalidExampleName, name)
	}

	path := filepath.Join(s.examplesDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return model.KnowledgeBase{}, fmt.Errorf("%w: %s", ErrExampleNotFound, name)
	}

	kb, err := model.LoadKnowledgeBase(path)
	if err != nil {
		return model.KnowledgeBase{}, fmt.Errorf("load example %s: %w", name, err)
	}
	if err := s.SaveSnapshot(kb); err != nil {
		return model.KnowledgeBase{}, err
	}

	s.logger.Info("example loaded",
		zap.String("example", name),
		zap.String("snapshot_id", kb.SnapshotID))
	return kb, nil
}
