package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/knowval/internal/pipeline"
	"github.com/ppiankov/knowval/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	listFile     string
	batchPolicy  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Validate many snapshot files in parallel",
	Long: `Batch validates snapshot files concurrently against one policy:
- Paths may be files or directories (*.json, *.yaml, *.yml)
- --list reads additional paths from a file (one per line, # comments)
- Each snapshot gets a JSON and a Markdown report in --output-dir
- Nothing in the data directory is modified

Example:
  knowval batch data/examples
  knowval batch snapshots/ --policy reference.json --output-dir ./reports
  knowval batch --list snapshots.txt --concurrency 8`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./knowval-reports", "output directory for reports")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file listing snapshot paths")
	batchCmd.Flags().StringVar(&batchPolicy, "policy", "", "policy file (default: active policy)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := worker.CollectPaths(args)
	if err != nil {
		return err
	}
	if listFile != "" {
		listed, err := worker.ReadPathsFromFile(listFile)
		if err != nil {
			return fmt.Errorf("read list: %w", err)
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no snapshot files given (pass paths or --list)")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	policy, err := resolvePolicy(a, batchPolicy)
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Validating %d snapshot(s) with %d workers...\n\n", len(paths), workers)

	processor := worker.NewBatchProcessor(a.pipeline, workers, a.logger)
	results := processor.ProcessFiles(ctx, paths, policy)

	successCount, failureCount := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		base := reportBaseName(result.Path)
		jsonPath := filepath.Join(outputDir, base+".report.json")
		mdPath := filepath.Join(outputDir, base+".report.md")

		if err := pipeline.WriteFile(jsonPath, result.Report, pipeline.RenderJSON); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}
		if err := pipeline.WriteFile(mdPath, result.Report, pipeline.RenderMarkdown); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %d issue(s), %d question(s)\n",
			result.Path, result.Report.Summary.IssuesTotal, result.Report.Summary.Questions)
	}

	fmt.Fprintf(os.Stderr, "\n  Total:     %d\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n\n", outputDir)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d snapshot(s) failed", failureCount, len(results))
	}
	return nil
}

// reportBaseName derives an output name from a snapshot path
func reportBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
