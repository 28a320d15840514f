package validate

import "github.com/ppiankov/knowval/internal/model"

// Summarize tallies issues into the report counters
func Summarize(totalEntities int, issues []model.ValidationIssue, questions []string) model.Summary {
	s := model.Summary{
		TotalEntities: totalEntities,
		IssuesTotal:   len(issues),
		Questions:     len(questions),
	}
	for _, issue := range issues {
		switch issue.Code {
		case model.CodeDuplicateEntityName:
			s.DuplicateNameIssues++
		case model.CodeObsoleteEntity:
			s.ObsoleteIssues++
		case model.CodeLowReliability:
			s.LowReliabilityIssues++
		case model.CodeMissingProvenance, model.CodeUnknownProvenanceSource:
			s.MissingProvenanceIssues++
		case model.CodeMissingDomain:
			s.MissingDomainIssues++
		case model.CodeProhibitedTerm:
			s.ProhibitedTermIssues++
		case model.CodeConflictingFacts:
			s.ConflictingFactIssues++
		case model.CodeRelationshipCycle:
			s.RelationshipCycleIssues++
		case model.CodeMissingRequiredDomain:
			s.MissingRequiredDomainIssues++
		case model.CodeForbiddenStatus:
			s.ForbiddenStatusIssues++
		}
	}
	return s
}
