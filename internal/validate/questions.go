package validate

import "github.com/ppiankov/knowval/internal/model"

// clarificationQuestions maps an issue code to its canonical follow-up question
var clarificationQuestions = map[model.IssueCode]string{
	model.CodeConflictingFacts:      "Which of the conflicting values is correct, and which document confirms it?",
	model.CodeMissingProvenance:     "Can you name the source document for the entities without provenance?",
	model.CodeMissingRequiredDomain: "Which source covers the required domains that are missing from the snapshot?",
	model.CodeLowReliability:        "Can the low-reliability entities be confirmed with additional sources?",
	model.CodeRelationshipCycle:     "Is the cyclic dependency intentional, or should one of the two links be corrected?",
}

// BuildQuestions returns one question per mapped issue code, in
// first-occurrence order, without duplicates
func BuildQuestions(issues []model.ValidationIssue) []string {
	questions := []string{}
	seen := make(map[string]bool)
	for _, issue := range issues {
		q, ok := clarificationQuestions[issue.Code]
		if !ok || seen[q] {
			continue
		}
		seen[q] = true
		questions = append(questions, q)
	}
	return questions
}
