package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/knowval/internal/extract"
	"github.com/ppiankov/knowval/internal/model"
)

// nameGroup collects the entities sharing one normalized name
type nameGroup struct {
	name   string
	ids    []string
	months extract.MonthSet
}

// correlator groups entities by normalized name. Groups are kept in
// first-occurrence order so the emitted issues are reproducible.
type correlator struct {
	order   []*nameGroup
	byName  map[string]*nameGroup
	domains map[string]bool
}

func newCorrelator() *correlator {
	return &correlator{
		byName:  make(map[string]*nameGroup),
		domains: make(map[string]bool),
	}
}

// normalizeName is the correlation key: trimmed and case folded
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *correlator) add(e *model.KnowledgeEntity) {
	key := normalizeName(e.Name)
	g, ok := c.byName[key]
	if !ok {
		g = &nameGroup{name: key, months: make(extract.MonthSet)}
		c.byName[key] = g
		c.order = append(c.order, g)
	}
	g.ids = append(g.ids, e.ID)
	g.months.Add(extract.ExtractMonths(e.Facts))

	if e.HasDomain() {
		c.domains[e.Domain] = true
	}
}

func distinctSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (c *correlator) duplicateIssues() []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, g := range c.order {
		ids := distinctSorted(g.ids)
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeDuplicateEntityName,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Duplicate entity name '%s' appears with multiple IDs.", g.name),
			Details:         model.DuplicateDetails{EntityIDs: ids},
			SuggestedAction: "Merge duplicates or rename entities clearly.",
		})
	}
	return issues
}

// conflictIssues reports names whose entities together mention more than one
// month value. This fires in addition to the per-entity conflict check.
func (c *correlator) conflictIssues() []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, g := range c.order {
		if !g.months.Conflicting() {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeConflictingFacts,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Conflicting retention values found for '%s'.", g.name),
			Details:         model.MonthValuesDetails{MonthValues: g.months.Sorted()},
			SuggestedAction: "Define one authoritative value and deprecate the rest.",
		})
	}
	return issues
}

func (c *correlator) missingDomainIssues(required []string) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, domain := range required {
		if c.domains[domain] {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code:            model.CodeMissingRequiredDomain,
			Severity:        model.SeverityHigh,
			Message:         fmt.Sprintf("Required domain '%s' is missing.", domain),
			Details:         model.RequiredDomainDetails{RequiredDomain: domain},
			SuggestedAction: "Add at least one entity for each required domain.",
		})
	}
	return issues
}
