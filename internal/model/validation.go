package model

import (
	"fmt"
	"strings"
)

// InputError reports a structurally invalid snapshot or policy.
// It is raised at the boundary, before the rule engine runs.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func inputErr(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

func inUnitRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 1)
}

// Validate checks the structural shape of a snapshot
func (kb *KnowledgeBase) Validate() error {
	for i, doc := range kb.SourceDocs {
		field := fmt.Sprintf("source_docs[%d]", i)
		if strings.TrimSpace(doc.ID) == "" {
			return inputErr(field+".id", "must not be blank")
		}
	}

	seen := make(map[string]bool, len(kb.Entities))
	for i, e := range kb.Entities {
		field := fmt.Sprintf("entities[%d]", i)
		if strings.TrimSpace(e.ID) == "" {
			return inputErr(field+".id", "must not be blank")
		}
		if seen[e.ID] {
			return inputErr(field+".id", fmt.Sprintf("duplicate entity id %q", e.ID))
		}
		seen[e.ID] = true
		if !inUnitRange(e.Reliability) {
			return inputErr(field+".reliability", fmt.Sprintf("%v is outside [0,1]", *e.Reliability))
		}
		if !inUnitRange(e.Confidence) {
			return inputErr(field+".confidence", fmt.Sprintf("%v is outside [0,1]", *e.Confidence))
		}
	}

	for i, r := range kb.Relations {
		field := fmt.Sprintf("relations[%d]", i)
		if strings.TrimSpace(r.Source) == "" {
			return inputErr(field+".source", "must not be blank")
		}
		if strings.TrimSpace(r.Target) == "" {
			return inputErr(field+".target", "must not be blank")
		}
		if strings.TrimSpace(r.Type) == "" {
			return inputErr(field+".type", "must not be blank")
		}
		if !inUnitRange(r.Confidence) {
			return inputErr(field+".confidence", fmt.Sprintf("%v is outside [0,1]", *r.Confidence))
		}
	}
	return nil
}

// Validate checks the structural shape of a policy
func (p *ReferencePolicy) Validate() error {
	if p.MinReliability < 0 || p.MinReliability > 1 {
		return inputErr("min_reliability", fmt.Sprintf("%v is outside [0,1]", p.MinReliability))
	}
	for i, term := range p.ProhibitedTerms {
		// A blank term would match every entity
		if strings.TrimSpace(term) == "" {
			return inputErr(fmt.Sprintf("prohibited_terms[%d]", i), "must not be blank")
		}
	}
	return nil
}
