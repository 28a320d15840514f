package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// IssueCode is the discriminant of a validation issue
type IssueCode string

const (
	CodeMissingDomain           IssueCode = "MISSING_DOMAIN"
	CodeObsoleteEntity          IssueCode = "OBSOLETE_ENTITY"
	CodeLowReliability          IssueCode = "LOW_RELIABILITY"
	CodeMissingProvenance       IssueCode = "MISSING_PROVENANCE"
	CodeUnknownProvenanceSource IssueCode = "UNKNOWN_PROVENANCE_SOURCE"
	CodeForbiddenStatus         IssueCode = "FORBIDDEN_STATUS"
	CodeProhibitedTerm          IssueCode = "PROHIBITED_TERM"
	CodeConflictingFacts        IssueCode = "CONFLICTING_FACTS"
	CodeDuplicateEntityName     IssueCode = "DUPLICATE_ENTITY_NAME"
	CodeMissingRequiredDomain   IssueCode = "MISSING_REQUIRED_DOMAIN"
	CodeRelationshipCycle       IssueCode = "RELATIONSHIP_CYCLE"
)

// IssueCodes lists every code in emission-table order
var IssueCodes = []IssueCode{
	CodeMissingDomain,
	CodeObsoleteEntity,
	CodeLowReliability,
	CodeMissingProvenance,
	CodeUnknownProvenanceSource,
	CodeForbiddenStatus,
	CodeProhibitedTerm,
	CodeConflictingFacts,
	CodeDuplicateEntityName,
	CodeMissingRequiredDomain,
	CodeRelationshipCycle,
}

// Valid reports whether c belongs to the closed set of issue codes
func (c IssueCode) Valid() bool {
	for _, known := range IssueCodes {
		if c == known {
			return true
		}
	}
	return false
}

// Severity ranks how serious an issue is
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Mode records whether the narrative collaborator contributed to a report
type Mode string

const (
	ModeDeterministic      Mode = "deterministic"
	ModeDeterministicAndAI Mode = "deterministic_and_ai"
)

// IssueDetails is the machine-readable payload of an issue.
// The concrete type is selected by the issue code.
type IssueDetails interface {
	issueDetails()
}

// ObsoleteDetails accompanies OBSOLETE_ENTITY
type ObsoleteDetails struct {
	UpdatedAt    Date `json:"updated_at"`
	MinValidDate Date `json:"min_valid_date"`
}

// ReliabilityDetails accompanies LOW_RELIABILITY
type ReliabilityDetails struct {
	Reliability    float64 `json:"reliability"`
	MinReliability float64 `json:"min_reliability"`
}

// UnknownSourcesDetails accompanies UNKNOWN_PROVENANCE_SOURCE
type UnknownSourcesDetails struct {
	UnknownSources []string `json:"unknown_sources"`
}

// StatusDetails accompanies FORBIDDEN_STATUS
type StatusDetails struct {
	Status string `json:"status"`
}

// TermDetails accompanies PROHIBITED_TERM
type TermDetails struct {
	Term string `json:"term"`
}

// MonthValuesDetails accompanies CONFLICTING_FACTS
type MonthValuesDetails struct {
	MonthValues []int `json:"month_values"`
}

// DuplicateDetails accompanies DUPLICATE_ENTITY_NAME
type DuplicateDetails struct {
	EntityIDs []string `json:"entity_ids"`
}

// RequiredDomainDetails accompanies MISSING_REQUIRED_DOMAIN
type RequiredDomainDetails struct {
	RequiredDomain string `json:"required_domain"`
}

func (ObsoleteDetails) issueDetails()       {}
func (ReliabilityDetails) issueDetails()    {}
func (UnknownSourcesDetails) issueDetails() {}
func (StatusDetails) issueDetails()         {}
func (TermDetails) issueDetails()           {}
func (MonthValuesDetails) issueDetails()    {}
func (DuplicateDetails) issueDetails()      {}
func (RequiredDomainDetails) issueDetails() {}

// ValidationIssue is a single finding of the rule engine
type ValidationIssue struct {
	Code            IssueCode    `json:"code"`
	Severity        Severity     `json:"severity"`
	Message         string       `json:"message"`
	EntityID        string       `json:"entity_id,omitempty"`
	RelationRef     string       `json:"relation_ref,omitempty"` // "source->target"
	Details         IssueDetails `json:"details,omitempty"`
	SuggestedAction string       `json:"suggested_action,omitempty"`
}

// UnmarshalJSON decodes details into the concrete type selected by code
func (i *ValidationIssue) UnmarshalJSON(b []byte) error {
	var wire struct {
		Code            IssueCode       `json:"code"`
		Severity        Severity        `json:"severity"`
		Message         string          `json:"message"`
		EntityID        string          `json:"entity_id"`
		RelationRef     string          `json:"relation_ref"`
		Details         json.RawMessage `json:"details"`
		SuggestedAction string          `json:"suggested_action"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if !wire.Code.Valid() {
		return fmt.Errorf("unknown issue code %q", wire.Code)
	}

	*i = ValidationIssue{
		Code:            wire.Code,
		Severity:        wire.Severity,
		Message:         wire.Message,
		EntityID:        wire.EntityID,
		RelationRef:     wire.RelationRef,
		SuggestedAction: wire.SuggestedAction,
	}

	if len(wire.Details) == 0 || string(wire.Details) == "null" {
		return nil
	}
	details, err := decodeDetails(wire.Code, wire.Details)
	if err != nil {
		return fmt.Errorf("decode %s details: %w", wire.Code, err)
	}
	i.Details = details
	return nil
}

func decodeDetails(code IssueCode, raw json.RawMessage) (IssueDetails, error) {
	switch code {
	case CodeObsoleteEntity:
		return decodeAs[ObsoleteDetails](raw)
	case CodeLowReliability:
		return decodeAs[ReliabilityDetails](raw)
	case CodeUnknownProvenanceSource:
		return decodeAs[UnknownSourcesDetails](raw)
	case CodeForbiddenStatus:
		return decodeAs[StatusDetails](raw)
	case CodeProhibitedTerm:
		return decodeAs[TermDetails](raw)
	case CodeConflictingFacts:
		return decodeAs[MonthValuesDetails](raw)
	case CodeDuplicateEntityName:
		return decodeAs[DuplicateDetails](raw)
	case CodeMissingRequiredDomain:
		return decodeAs[RequiredDomainDetails](raw)
	default:
		// Codes without a payload
		return nil, nil
	}
}

func decodeAs[T IssueDetails](raw json.RawMessage) (IssueDetails, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Summary holds the per-category counters of a report
type Summary struct {
	TotalEntities               int `json:"total_entities"`
	IssuesTotal                 int `json:"issues_total"`
	DuplicateNameIssues         int `json:"duplicate_name_issues"`
	ObsoleteIssues              int `json:"obsolete_issues"`
	LowReliabilityIssues        int `json:"low_reliability_issues"`
	MissingProvenanceIssues     int `json:"missing_provenance_issues"` // Missing and unknown provenance
	MissingDomainIssues         int `json:"missing_domain_issues"`
	ProhibitedTermIssues        int `json:"prohibited_term_issues"`
	ConflictingFactIssues       int `json:"conflicting_fact_issues"` // Intra- and cross-entity
	RelationshipCycleIssues     int `json:"relationship_cycle_issues"`
	MissingRequiredDomainIssues int `json:"missing_required_domain_issues"`
	ForbiddenStatusIssues       int `json:"forbidden_status_issues"`
	Questions                   int `json:"questions"`
}

// ValidationReport is the complete output of one validation run
type ValidationReport struct {
	GeneratedAt            time.Time         `json:"generated_at"`
	KnowledgeBaseID        string            `json:"knowledge_base_id"`
	SnapshotID             string            `json:"snapshot_id"`
	ReferenceVersion       *string           `json:"reference_version"`
	Mode                   Mode              `json:"mode"`
	Summary                Summary           `json:"summary"`
	Issues                 []ValidationIssue `json:"issues"`
	ClarificationQuestions []string          `json:"clarification_questions"`
	AIReport               string            `json:"ai_report,omitempty"` // Empty in deterministic mode
}

// IssuesWithCode returns the issues carrying code, in report order
func (r *ValidationReport) IssuesWithCode(code IssueCode) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

// CountBySeverity tallies issues per severity
func (r *ValidationReport) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}
