package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/knowval/internal/model"
)

func openTestStore(t *testing.T, backend string, limit int) *FileStore {
	t.Helper()
	cfg := model.DefaultConfig().Data
	cfg.Dir = t.TempDir()
	cfg.HistoryBackend = backend
	cfg.HistoryLimit = limit

	s, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileStore_Defaults(t *testing.T) {
	s := openTestStore(t, "file", 0)

	kb, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if kb.KnowledgeBaseID != model.DefaultKnowledgeBaseID || len(kb.Entities) != 0 {
		t.Errorf("Expected default snapshot, got %+v", kb)
	}

	p, err := s.Policy()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !p.RequireProvenance {
		t.Error("Expected default policy to require provenance")
	}

	if _, ok, err := s.LatestReport(); ok || err != nil {
		t.Errorf("Expected no report yet, got ok=%v err=%v", ok, err)
	}

	runs, err := s.History(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("Expected empty history, got %v", runs)
	}
}

func TestFileStore_SeedAndRoundTrip(t *testing.T) {
	s := openTestStore(t, "file", 0)

	if err := s.Seed(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	kb, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	demo := model.DemoKnowledgeBase()
	if kb.SnapshotID != demo.SnapshotID || len(kb.Entities) != len(demo.Entities) {
		t.Errorf("Expected demo snapshot, got %s with %d entities", kb.SnapshotID, len(kb.Entities))
	}

	// Seeding again must not overwrite an edited snapshot
	kb.SnapshotID = "edited"
	if err := s.SaveSnapshot(kb); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.Seed(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	kb, _ = s.Snapshot()
	if kb.SnapshotID != "edited" {
		t.Errorf("Expected edited snapshot to survive Seed, got %s", kb.SnapshotID)
	}

	report := &model.ValidationReport{
		KnowledgeBaseID:        kb.KnowledgeBaseID,
		SnapshotID:             kb.SnapshotID,
		Mode:                   model.ModeDeterministic,
		Issues:                 []model.ValidationIssue{},
		ClarificationQuestions: []string{},
	}
	if err := s.SaveReport(report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	got, ok, err := s.LatestReport()
	if err != nil || !ok {
		t.Fatalf("Expected stored report, got ok=%v err=%v", ok, err)
	}
	if got.SnapshotID != "edited" {
		t.Errorf("Expected report for edited, got %s", got.SnapshotID)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), ReportFile)); err != nil {
		t.Errorf("Expected %s on disk, got %v", ReportFile, err)
	}
}

func TestFileStore_HistoryBound(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			s := openTestStore(t, backend, 3)
			ctx := context.Background()
			version := "v1"

			for i := 0; i < 5; i++ {
				run := model.HistoryRun{
					RunID:            fmt.Sprintf("run-%d", i),
					Timestamp:        time.Date(2026, 2, 16, 10, i, 0, 0, time.UTC),
					KnowledgeBaseID:  "kb",
					SnapshotID:       "snap",
					ReferenceVersion: &version,
					Mode:             model.ModeDeterministic,
					IssuesTotal:      i,
				}
				if err := s.AppendHistory(ctx, run); err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
			}

			runs, err := s.History(ctx)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(runs) != 3 {
				t.Fatalf("Expected 3 runs, got %d", len(runs))
			}
			if runs[0].RunID != "run-2" || runs[2].RunID != "run-4" {
				t.Errorf("Expected oldest runs dropped, got %s..%s", runs[0].RunID, runs[2].RunID)
			}
			if runs[2].ReferenceVersion == nil || *runs[2].ReferenceVersion != "v1" {
				t.Errorf("Expected reference_version v1, got %v", runs[2].ReferenceVersion)
			}
			if !runs[2].Timestamp.Equal(time.Date(2026, 2, 16, 10, 4, 0, 0, time.UTC)) {
				t.Errorf("Unexpected timestamp %v", runs[2].Timestamp)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := model.DefaultConfig().Data
	cfg.Dir = t.TempDir()
	cfg.HistoryBackend = "redis"
	if _, err := Open(cfg, nil); err == nil {
		t.Error("Expected error for unknown history backend")
	}
}

func TestFileStore_Examples(t *testing.T) {
	s := openTestStore(t, "file", 0)
	dir := filepath.Join(s.Dir(), "examples")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListExamples()
	if err != nil || len(names) != 0 {
		t.Fatalf("Expected no examples, got %v (%v)", names, err)
	}

	files := map[string]string{
		"02_second.json": `{"snapshot_id":"snap-2","entities":[{"id":"e1","name":"One","domain":"d"}]}`,
		"01_first.json":  `{"snapshot_id":"snap-1"}`,
		"broken.json":    `{"entities":[{"id":"","name":"x"}]}`,
		"notes.txt":      "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err = s.ListExamples()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := []string{"01_first.json", "02_second.json", "broken.json"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, names)
	}

	kb, err := s.LoadExample("02_second.json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if kb.SnapshotID != "snap-2" {
		t.Errorf("Expected snap-2, got %s", kb.SnapshotID)
	}
	active, _ := s.Snapshot()
	if active.SnapshotID != "snap-2" {
		t.Errorf("Expected example to become active, got %s", active.SnapshotID)
	}

	tests := []struct {
		name string
		want error
	}{
		{"../agent1_output.json", ErrInvalidExampleName},
		{`..\x.json`, ErrInvalidExampleName},
		{"..", ErrInvalidExampleName},
		{"", ErrInvalidExampleName},
		{"99_missing.json", ErrExampleNotFound},
	}
	for _, tt := range tests {
		if _, err := s.LoadExample(tt.name); !errors.Is(err, tt.want) {
			t.Errorf("LoadExample(%q): expected %v, got %v", tt.name, tt.want, err)
		}
	}

	var inputErr *model.InputError
	if _, err := s.LoadExample("broken.json"); !errors.As(err, &inputErr) {
		t.Errorf("Expected InputError for broken example, got %v", err)
	}
}

func TestFileStore_CacheServesRepeatedReads(t *testing.T) {
	s := openTestStore(t, "file", 0)
	if err := s.SavePolicy(model.DemoPolicy()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Policy(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if stats := s.CacheStats(); stats.Hits < 3 {
		t.Errorf("Expected reads to hit the cache, got %+v", stats)
	}
}

func TestRecordDir_SlowReadKeepsNewerWrite(t *testing.T) {
	d := newRecordDir(t.TempDir(), time.Minute)
	if err := d.write("rec.json", "old"); err != nil {
		t.Fatal(err)
	}
	d.evict("rec.json")

	// The reader sees the old file, then a write lands before it fills the cache
	started := make(chan struct{})
	written := make(chan error, 1)
	d.readFile = func(path string) ([]byte, error) {
		data, err := os.ReadFile(path)
		go func() {
			close(started)
			written <- d.write("rec.json", "new")
		}()
		<-started
		time.Sleep(50 * time.Millisecond)
		return data, err
	}

	if _, _, err := d.read("rec.json"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := <-written; err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, ok, err := d.read("rec.json")
	if err != nil || !ok {
		t.Fatalf("Expected record, got ok=%v err=%v", ok, err)
	}
	if string(data) != "\"new\"\n" {
		t.Errorf("Expected cached record to be the newer write, got %q", data)
	}
}

func TestFileStore_WatchEvictsExternalEdits(t *testing.T) {
	s := openTestStore(t, "file", 0)
	if err := s.SaveSnapshot(model.DemoKnowledgeBase()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Snapshot(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Replace the file the way an editor would: write elsewhere, then rename
	external := filepath.Join(t.TempDir(), "edit.json")
	if err := os.WriteFile(external, []byte(`{"snapshot_id":"edited-outside"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(external, filepath.Join(s.Dir(), SnapshotFile)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		kb, err := s.Snapshot()
		if err == nil && kb.SnapshotID == "edited-outside" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("Expected external edit to be visible after cache eviction")
}
