package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/knowval/internal/model"
)

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, report *model.ValidationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func RenderMarkdown(w io.Writer, report *model.ValidationReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation report: %s\n\n", report.SnapshotID)
	fmt.Fprintf(&b, "- Knowledge base: `%s`\n", report.KnowledgeBaseID)
	if report.ReferenceVersion != nil {
		fmt.Fprintf(&b, "- Reference version: `%s`\n", *report.ReferenceVersion)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Mode: %s\n\n", report.Mode)

	s := report.Summary
	bySeverity := report.CountBySeverity()
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Count |\n|---|---|\n")
	rows := []struct {
		label string
		n     int
	}{
		{"Entities", s.TotalEntities},
		{"Issues", s.IssuesTotal},
		{"High severity", bySeverity[model.SeverityHigh]},
		{"Medium severity", bySeverity[model.SeverityMedium]},
		{"Low severity", bySeverity[model.SeverityLow]},
		{"Duplicate names", s.DuplicateNameIssues},
		{"Obsolete", s.ObsoleteIssues},
		{"Low reliability", s.LowReliabilityIssues},
		{"Missing provenance", s.MissingProvenanceIssues},
		{"Missing domain", s.MissingDomainIssues},
		{"Prohibited terms", s.ProhibitedTermIssues},
		{"Conflicting facts", s.ConflictingFactIssues},
		{"Relationship cycles", s.RelationshipCycleIssues},
		{"Missing required domains", s.MissingRequiredDomainIssues},
		{"Forbidden status", s.ForbiddenStatusIssues},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d |\n", r.label, r.n)
	}

	b.WriteString("\n## Issues\n\n")
	if len(report.Issues) == 0 {
		b.WriteString("No issues found.\n")
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(&b, "- **[%s] %s**", strings.ToUpper(string(issue.Severity)), issue.Code)
		switch {
		case issue.EntityID != "":
			fmt.Fprintf(&b, " (`%s`)", issue.EntityID)
		case issue.RelationRef != "":
			fmt.Fprintf(&b, " (`%s`)", issue.RelationRef)
		}
		fmt.Fprintf(&b, ": %s\n", issue.Message)
		if issue.SuggestedAction != "" {
			fmt.Fprintf(&b, "  - Suggested action: %s\n", issue.SuggestedAction)
		}
	}

	if len(report.ClarificationQuestions) > 0 {
		b.WriteString("\n## Clarification questions\n\n")
		for i, q := range report.ClarificationQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}

	if report.AIReport != "" {
		b.WriteString("\n## Narrative\n\n")
		b.WriteString(report.AIReport)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary writes a short plain-text digest for terminals
func RenderSummary(w io.Writer, report *model.ValidationReport) error {
	s := report.Summary
	bySeverity := report.CountBySeverity()
	_, err := fmt.Fprintf(w, "%s (%s): %d entities, %d issues (high %d, medium %d, low %d), %d questions, mode %s\n",
		report.SnapshotID, report.KnowledgeBaseID, s.TotalEntities, s.IssuesTotal,
		bySeverity[model.SeverityHigh], bySeverity[model.SeverityMedium], bySeverity[model.SeverityLow],
		s.Questions, report.Mode)
	return err
}

// WriteFile renders the report to path with the given renderer
func WriteFile(path string, report *model.ValidationReport, render func(io.Writer, *model.ValidationReport) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
