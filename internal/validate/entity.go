package validate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/knowval/internal/extract"
	"github.com/ppiankov/knowval/internal/model"
)

// checkEntity runs every per-entity rule. Rules are independent; an entity
// may collect any combination of issues.
func checkEntity(e *model.KnowledgeEntity, policy *model.ReferencePolicy, knownDocs map[string]bool) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if !e.HasDomain() {
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeMissingDomain,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Entity '%s' has no domain.", e.Name),
			EntityID:        e.ID,
			SuggestedAction: "Set the entity domain to a valid taxonomy value.",
		})
	}

	if policy.MinValidDate != nil && e.UpdatedAt != nil && e.UpdatedAt.Before(*policy.MinValidDate) {
		issues = append(issues, model.ValidationIssue{
			Code:     model.CodeObsoleteEntity,
			Severity: model.SeverityMedium,
			Message: fmt.Sprintf("Entity '%s' is obsolete: updated_at=%s is older than min_valid_date=%s.",
				e.Name, e.UpdatedAt, policy.MinValidDate),
			EntityID: e.ID,
			Details: model.ObsoleteDetails{
				UpdatedAt:    *e.UpdatedAt,
				MinValidDate: *policy.MinValidDate,
			},
			SuggestedAction: "Refresh this entity from a newer document.",
		})
	}

	if e.Reliability != nil && *e.Reliability < policy.MinReliability {
		issues = append(issues, model.ValidationIssue{
			Code:     model.CodeLowReliability,
			Severity: model.SeverityMedium,
			Message: fmt.Sprintf("Entity '%s' reliability %.2f is below threshold %.2f.",
				e.Name, *e.Reliability, policy.MinReliability),
			EntityID: e.ID,
			Details: model.ReliabilityDetails{
				Reliability:    *e.Reliability,
				MinReliability: policy.MinReliability,
			},
			SuggestedAction: "Increase confidence by linking stronger evidence.",
		})
	}

	if policy.RequireProvenance {
		if issue, ok := checkProvenance(e, knownDocs); ok {
			issues = append(issues, issue)
		}
	}

	if policy.IsForbiddenStatus(e.Status) {
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeForbiddenStatus,
			Severity:        model.SeverityMedium,
			Message:         fmt.Sprintf("Entity '%s' uses forbidden status '%s'.", e.Name, e.Status),
			EntityID:        e.ID,
			Details:         model.StatusDetails{Status: e.Status},
			SuggestedAction: "Use an allowed status value for active knowledge.",
		})
	}

	// Terms are matched against all facts joined, so a term may span two facts
	factText := strings.ToLower(strings.Join(e.Facts, " "))
	for _, term := range policy.ProhibitedTerms {
		if !strings.Contains(factText, strings.ToLower(term)) {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeProhibitedTerm,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Entity '%s' contains prohibited term '%s'.", e.Name, term),
			EntityID:        e.ID,
			Details:         model.TermDetails{Term: term},
			SuggestedAction: "Remove or replace prohibited language.",
		})
	}

	if months := extract.ExtractMonths(e.Facts); months.Conflicting() {
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeConflictingFacts,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Entity '%s' has conflicting month values in facts.", e.Name),
			EntityID:        e.ID,
			Details:         model.MonthValuesDetails{MonthValues: months.Sorted()},
			SuggestedAction: "Keep one canonical fact and archive obsolete statements.",
		})
	}

	return issues
}

// checkProvenance reports a missing provenance list or ids that point at no
// known source document. Unknown ids keep their provenance order.
func checkProvenance(e *model.KnowledgeEntity, knownDocs map[string]bool) (model.ValidationIssue, bool) {
	if len(e.Provenance) == 0 {
		return model.ValidationIssue{
			Code:            model.CodeMissingProvenance,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Entity '%s' has no provenance.", e.Name),
			EntityID:        e.ID,
			SuggestedAction: "Attach one or more source document IDs to provenance.",
		}, true
	}

	var unknown []string
	for _, id := range e.Provenance {
		if !knownDocs[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return model.ValidationIssue{}, false
	}

	return model.ValidationIssue{
		Code:            model.CodeUnknownProvenanceSource,
		Severity:        model.SeverityHigh,
		Message:         fmt.Sprintf("Entity '%s' references unknown source docs.", e.Name),
		EntityID:        e.ID,
		Details:         model.UnknownSourcesDetails{UnknownSources: unknown},
		SuggestedAction: "Add missing source_docs metadata or fix provenance IDs.",
	}, true
}
