package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/knowval/internal/model"
	"github.com/ppiankov/knowval/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	snapshotPath string
	policyPath   string
	outJSON      string
	outMD        string
	failOn       string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a knowledge snapshot against a reference policy",
	Long: `Validate runs every deterministic rule and, when a provider is configured,
attaches a narrative.

Without --snapshot the active snapshot of the data directory is validated and
the report and history entry are persisted, exactly like POST /api/v1/validate.
With --snapshot (JSON or YAML) the file is validated in isolation and nothing
is persisted; --policy defaults to the active policy.

Example:
  knowval validate
  knowval validate --snapshot kb.yaml --policy reference.json --md report.md
  knowval validate --snapshot kb.json --fail-on high`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot file to validate instead of the active one")
	validateCmd.Flags().StringVar(&policyPath, "policy", "", "policy file (default: active policy)")
	validateCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path (default: stdout)")
	validateCmd.Flags().StringVar(&outMD, "md", "", "write a Markdown report to this path")
	validateCmd.Flags().StringVar(&failOn, "fail-on", "", "exit non-zero when an issue of this severity or higher is found (low, medium, high)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	threshold, err := parseSeverity(failOn)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	var report *model.ValidationReport
	if snapshotPath == "" {
		report, err = a.pipeline.Run(ctx)
		if err != nil {
			return err
		}
	} else {
		kb, err := model.LoadKnowledgeBase(snapshotPath)
		if err != nil {
			return err
		}
		policy, err := resolvePolicy(a, policyPath)
		if err != nil {
			return err
		}
		report = a.pipeline.ValidateSnapshot(ctx, &kb, policy)
	}

	if outJSON != "" {
		if err := pipeline.WriteFile(outJSON, report, pipeline.RenderJSON); err != nil {
			return err
		}
	} else if err := pipeline.RenderJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if outMD != "" {
		if err := pipeline.WriteFile(outMD, report, pipeline.RenderMarkdown); err != nil {
			return err
		}
	}

	if verbose || outJSON != "" {
		_ = pipeline.RenderSummary(os.Stderr, report)
	}

	return checkThreshold(report, threshold, failOn)
}

// resolvePolicy loads path, or the active policy when path is empty
func resolvePolicy(a *app, path string) (model.ReferencePolicy, error) {
	if path == "" {
		return a.store.Policy()
	}
	return model.LoadReferencePolicy(path)
}

var severityRank = map[model.Severity]int{
	model.SeverityLow:    1,
	model.SeverityMedium: 2,
	model.SeverityHigh:   3,
}

func parseSeverity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	rank, ok := severityRank[model.Severity(s)]
	if !ok {
		return 0, fmt.Errorf("invalid --fail-on value: %s (supported: low, medium, high)", s)
	}
	return rank, nil
}

// checkThreshold fails when any issue reaches the threshold rank (0 disables)
func checkThreshold(report *model.ValidationReport, threshold int, label string) error {
	if threshold == 0 {
		return nil
	}
	count := 0
	for _, issue := range report.Issues {
		if severityRank[issue.Severity] >= threshold {
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("%d issue(s) at or above %s severity in %s", count, label, report.SnapshotID)
	}
	return nil
}
