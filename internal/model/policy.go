package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ReferencePolicy holds the constraints a snapshot is validated against.
// It is passed by value into every validation call.
type ReferencePolicy struct {
	MinValidDate      *Date    `json:"min_valid_date" yaml:"min_valid_date,omitempty"` // Staleness floor
	MinReliability    float64  `json:"min_reliability" yaml:"min_reliability"`
	RequiredDomains   []string `json:"required_domains" yaml:"required_domains"`
	ProhibitedTerms   []string `json:"prohibited_terms" yaml:"prohibited_terms"` // Case-insensitive substrings
	ForbiddenStatuses []string `json:"forbidden_statuses" yaml:"forbidden_statuses"`
	RequireProvenance bool     `json:"require_provenance" yaml:"require_provenance"`
}

// NewReferencePolicy returns a policy with default values
func NewReferencePolicy() ReferencePolicy {
	return ReferencePolicy{
		MinReliability:    0.0,
		RequiredDomains:   []string{},
		ProhibitedTerms:   []string{},
		ForbiddenStatuses: []string{},
		RequireProvenance: true,
	}
}

// UnmarshalJSON applies policy defaults before decoding, so an absent
// require_provenance stays true
func (p *ReferencePolicy) UnmarshalJSON(b []byte) error {
	type plain ReferencePolicy
	v := plain(NewReferencePolicy())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = ReferencePolicy(v)
	p.fillEmpty()
	return nil
}

// UnmarshalYAML applies policy defaults before decoding
func (p *ReferencePolicy) UnmarshalYAML(value *yaml.Node) error {
	type plain ReferencePolicy
	v := plain(NewReferencePolicy())
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = ReferencePolicy(v)
	p.fillEmpty()
	return nil
}

func (p *ReferencePolicy) fillEmpty() {
	if p.RequiredDomains == nil {
		p.RequiredDomains = []string{}
	}
	if p.ProhibitedTerms == nil {
		p.ProhibitedTerms = []string{}
	}
	if p.ForbiddenStatuses == nil {
		p.ForbiddenStatuses = []string{}
	}
}

// IsForbiddenStatus reports whether status is in the forbidden set
func (p ReferencePolicy) IsForbiddenStatus(status string) bool {
	for _, s := range p.ForbiddenStatuses {
		if s == status {
			return true
		}
	}
	return false
}
