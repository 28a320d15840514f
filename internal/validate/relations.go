package validate

import (
	"fmt"
	"sort"

	"github.com/ppiankov/knowval/internal/model"
)

// dependencyTypes are the relation types treated as directed dependencies
var dependencyTypes = map[string]bool{
	"depends_on": true,
	"requires":   true,
	"parent_of":  true,
}

type edge struct {
	source, target string
}

// cycleIssues reports mutual dependency pairs (A->B and B->A). Each pair is
// emitted once, from its lexicographically smaller endpoint. Longer cycles
// are not detected.
func cycleIssues(relations []model.KnowledgeRelation) []model.ValidationIssue {
	edges := make(map[edge]bool)
	for _, r := range relations {
		if dependencyTypes[r.Type] {
			edges[edge{r.Source, r.Target}] = true
		}
	}

	sorted := make([]edge, 0, len(edges))
	for e := range edges {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].source != sorted[j].source {
			return sorted[i].source < sorted[j].source
		}
		return sorted[i].target < sorted[j].target
	})

	var issues []model.ValidationIssue
	for _, e := range sorted {
		if e.source >= e.target || !edges[edge{e.target, e.source}] {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeRelationshipCycle,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Cyclic relationship detected between '%s' and '%s'.", e.source, e.target),
			RelationRef:     fmt.Sprintf("%s->%s", e.source, e.target),
			SuggestedAction: "Break the cycle by removing or changing one dependency.",
		})
	}
	return issues
}
