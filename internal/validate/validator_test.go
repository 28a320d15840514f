package validate

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

type stubNarrator struct {
	text  string
	err   error
	calls int
}

func (s *stubNarrator) Narrate(ctx context.Context, kb *model.KnowledgeBase, policy *model.ReferencePolicy) (string, error) {
	s.calls++
	return s.text, s.err
}

func ptr(v float64) *float64 { return &v }

func day(s string) *model.Date {
	d := model.MustDate(s)
	return &d
}

// policyAScenario is two entities sharing a name with diverging retention facts
func policyAScenario() (*model.KnowledgeBase, model.ReferencePolicy) {
	kb := &model.KnowledgeBase{
		KnowledgeBaseID: "kb-test",
		SnapshotID:      "kb-test-001",
		SourceDocs: []model.SourceDocument{
			{ID: "doc-1", Title: "Policy Manual", Date: day("2025-01-01")},
		},
		Entities: []model.KnowledgeEntity{
			{
				ID:          "ent-001",
				Name:        "Policy A",
				Domain:      "policy",
				Facts:       []string{"Retention is 12 months"},
				Reliability: ptr(0.5),
				Provenance:  []string{"doc-1"},
				UpdatedAt:   day("2023-01-01"),
				Status:      "active",
			},
			{
				ID:          "ent-002",
				Name:        "Policy A",
				Domain:      "policy",
				Facts:       []string{"Retention is 24 months", "This statement is deprecated"},
				Reliability: ptr(0.9),
				Provenance:  []string{"doc-1"},
				UpdatedAt:   day("2025-01-01"),
				Status:      "active",
			},
		},
	}
	policy := model.ReferencePolicy{
		MinValidDate:      day("2024-01-01"),
		MinReliability:    0.7,
		RequiredDomains:   []string{"policy", "procedure"},
		ProhibitedTerms:   []string{"deprecated"},
		RequireProvenance: true,
	}
	return kb, policy
}

func codes(issues []model.ValidationIssue) []model.IssueCode {
	out := make([]model.IssueCode, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestValidate_PolicyAScenario(t *testing.T) {
	kb, policy := policyAScenario()
	report := NewValidator(nil, zap.NewNop()).Validate(context.Background(), kb, policy)

	s := report.Summary
	if s.TotalEntities != 2 {
		t.Errorf("Expected 2 entities, got %d", s.TotalEntities)
	}
	if s.DuplicateNameIssues != 1 {
		t.Errorf("Expected 1 duplicate name issue, got %d", s.DuplicateNameIssues)
	}
	if s.ObsoleteIssues != 1 {
		t.Errorf("Expected 1 obsolete issue, got %d", s.ObsoleteIssues)
	}
	if s.ConflictingFactIssues != 1 {
		t.Errorf("Expected 1 conflicting fact issue, got %d", s.ConflictingFactIssues)
	}
	if s.ProhibitedTermIssues != 1 {
		t.Errorf("Expected 1 prohibited term issue, got %d", s.ProhibitedTermIssues)
	}
	if s.MissingRequiredDomainIssues != 1 {
		t.Errorf("Expected 1 missing required domain issue, got %d", s.MissingRequiredDomainIssues)
	}
	if s.LowReliabilityIssues != 1 {
		t.Errorf("Expected 1 low reliability issue, got %d", s.LowReliabilityIssues)
	}

	want := []model.IssueCode{
		model.CodeObsoleteEntity,
		model.CodeLowReliability,
		model.CodeProhibitedTerm,
		model.CodeDuplicateEntityName,
		model.CodeConflictingFacts,
		model.CodeMissingRequiredDomain,
	}
	if got := codes(report.Issues); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected issue order %v, got %v", want, got)
	}

	wantQuestions := []string{
		clarificationQuestions[model.CodeLowReliability],
		clarificationQuestions[model.CodeConflictingFacts],
		clarificationQuestions[model.CodeMissingRequiredDomain],
	}
	if !reflect.DeepEqual(report.ClarificationQuestions, wantQuestions) {
		t.Errorf("Expected questions %v, got %v", wantQuestions, report.ClarificationQuestions)
	}
	if s.Questions != 3 {
		t.Errorf("Expected 3 questions, got %d", s.Questions)
	}
}

func TestValidate_IssuesTotalMatchesIssues(t *testing.T) {
	kb, policy := policyAScenario()
	kb.Entities = append(kb.Entities, model.KnowledgeEntity{
		ID:     "ent-003",
		Name:   "Orphan",
		Facts:  []string{"Valid for 6 months", "Valid for 3 months"},
		Status: "deprecated",
	})
	policy.ForbiddenStatuses = []string{"deprecated"}

	report := NewValidator(nil, nil).Validate(context.Background(), kb, policy)

	if report.Summary.IssuesTotal != len(report.Issues) {
		t.Errorf("Expected issues_total %d to equal len(issues) %d", report.Summary.IssuesTotal, len(report.Issues))
	}
}

func TestValidate_DuplicateAndCrossEntityConflict(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "Policy A", Domain: "policy", Facts: []string{"Keep for 12 months"}},
			{ID: "b", Name: "  policy a ", Domain: "policy", Facts: []string{"Keep for 24 months"}},
		},
	}
	issues := Evaluate(kb, &model.ReferencePolicy{})

	var dup, conflict []model.ValidationIssue
	for _, issue := range issues {
		switch issue.Code {
		case model.CodeDuplicateEntityName:
			dup = append(dup, issue)
		case model.CodeConflictingFacts:
			conflict = append(conflict, issue)
		}
	}

	if len(dup) != 1 {
		t.Fatalf("Expected 1 duplicate issue, got %d", len(dup))
	}
	if d, ok := dup[0].Details.(model.DuplicateDetails); !ok || !reflect.DeepEqual(d.EntityIDs, []string{"a", "b"}) {
		t.Errorf("Expected entity_ids [a b], got %#v", dup[0].Details)
	}
	if dup[0].EntityID != "" {
		t.Errorf("Expected duplicate issue without entity_id, got %q", dup[0].EntityID)
	}

	if len(conflict) != 1 {
		t.Fatalf("Expected 1 conflicting facts issue, got %d", len(conflict))
	}
	if d, ok := conflict[0].Details.(model.MonthValuesDetails); !ok || !reflect.DeepEqual(d.MonthValues, []int{12, 24}) {
		t.Errorf("Expected month_values [12 24], got %#v", conflict[0].Details)
	}
}

func TestValidate_IntraAndCrossConflictBothFire(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "Retention", Domain: "policy", Facts: []string{"12 months", "24 months"}},
		},
	}
	issues := Evaluate(kb, &model.ReferencePolicy{})

	want := []model.IssueCode{model.CodeConflictingFacts, model.CodeConflictingFacts}
	if got := codes(issues); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	if issues[0].EntityID != "a" {
		t.Errorf("Expected intra-entity issue first with entity_id a, got %q", issues[0].EntityID)
	}
	if issues[1].EntityID != "" {
		t.Errorf("Expected cross-entity issue without entity_id, got %q", issues[1].EntityID)
	}
}

func TestValidate_SameIDTwiceIsNotDuplicate(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "X", Domain: "d"},
			{ID: "a", Name: "x", Domain: "d"},
		},
	}
	for _, issue := range Evaluate(kb, &model.ReferencePolicy{}) {
		if issue.Code == model.CodeDuplicateEntityName {
			t.Errorf("Expected no duplicate issue for a repeated id, got %q", issue.Message)
		}
	}
}

func TestValidate_Staleness(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "old", Name: "Old", Domain: "d", UpdatedAt: day("2023-01-01")},
			{ID: "new", Name: "New", Domain: "d", UpdatedAt: day("2025-01-01")},
			{ID: "undated", Name: "Undated", Domain: "d"},
			{ID: "edge", Name: "Edge", Domain: "d", UpdatedAt: day("2024-01-01")},
		},
	}
	issues := Evaluate(kb, &model.ReferencePolicy{MinValidDate: day("2024-01-01")})

	obsolete := 0
	for _, issue := range issues {
		if issue.Code != model.CodeObsoleteEntity {
			continue
		}
		obsolete++
		if issue.EntityID != "old" {
			t.Errorf("Expected only 'old' to be obsolete, got %q", issue.EntityID)
		}
		d, ok := issue.Details.(model.ObsoleteDetails)
		if !ok {
			t.Fatalf("Expected ObsoleteDetails, got %T", issue.Details)
		}
		if d.UpdatedAt.String() != "2023-01-01" || d.MinValidDate.String() != "2024-01-01" {
			t.Errorf("Unexpected details %+v", d)
		}
	}
	if obsolete != 1 {
		t.Errorf("Expected exactly 1 obsolete issue, got %d", obsolete)
	}
}

func TestValidate_NoStalenessWithoutFloor(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "old", Name: "Old", Domain: "d", UpdatedAt: day("1999-01-01")},
		},
	}
	if issues := Evaluate(kb, &model.ReferencePolicy{}); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", codes(issues))
	}
}

func TestValidate_RequiredDomainGap(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "A", Domain: "policy"},
		},
	}
	policy := &model.ReferencePolicy{RequiredDomains: []string{"policy", "procedure"}}
	issues := Evaluate(kb, policy)

	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %v", codes(issues))
	}
	d, ok := issues[0].Details.(model.RequiredDomainDetails)
	if !ok || d.RequiredDomain != "procedure" {
		t.Errorf("Expected required_domain procedure, got %#v", issues[0].Details)
	}
}

func TestValidate_RequiredDomainsInPolicyOrder(t *testing.T) {
	kb := &model.KnowledgeBase{}
	policy := &model.ReferencePolicy{RequiredDomains: []string{"zeta", "alpha", "mid"}}

	var got []string
	for _, issue := range Evaluate(kb, policy) {
		got = append(got, issue.Details.(model.RequiredDomainDetails).RequiredDomain)
	}
	if want := []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestValidate_ProhibitedTerm(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "A", Domain: "d", Facts: []string{"This statement is DEPRECATED"}},
			{ID: "b", Name: "B", Domain: "d", Facts: []string{"Current statement"}},
		},
	}
	policy := &model.ReferencePolicy{ProhibitedTerms: []string{"deprecated", "Statement"}}
	issues := Evaluate(kb, policy)

	var terms []string
	for _, issue := range issues {
		if issue.Code != model.CodeProhibitedTerm {
			continue
		}
		terms = append(terms, issue.EntityID+":"+issue.Details.(model.TermDetails).Term)
	}
	want := []string{"a:deprecated", "a:Statement", "b:Statement"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Expected %v, got %v", want, terms)
	}
}

func TestValidate_ProhibitedTermAcrossFactBoundary(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "a", Name: "A", Domain: "d", Facts: []string{"end of", "life"}},
		},
	}
	issues := Evaluate(kb, &model.ReferencePolicy{ProhibitedTerms: []string{"of life"}})
	if len(issues) != 1 || issues[0].Code != model.CodeProhibitedTerm {
		t.Errorf("Expected a term spanning joined facts to match, got %v", codes(issues))
	}
}

func TestValidate_Provenance(t *testing.T) {
	kb := &model.KnowledgeBase{
		SourceDocs: []model.SourceDocument{{ID: "doc-1", Title: "Doc"}},
		Entities: []model.KnowledgeEntity{
			{ID: "none", Name: "None", Domain: "d"},
			{ID: "known", Name: "Known", Domain: "d", Provenance: []string{"doc-1"}},
			{ID: "dangling", Name: "Dangling", Domain: "d", Provenance: []string{"doc-9", "doc-1", "doc-3", "doc-9"}},
		},
	}

	issues := Evaluate(kb, &model.ReferencePolicy{RequireProvenance: true})
	if got, want := codes(issues), []model.IssueCode{model.CodeMissingProvenance, model.CodeUnknownProvenanceSource}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	d := issues[1].Details.(model.UnknownSourcesDetails)
	if want := []string{"doc-9", "doc-3", "doc-9"}; !reflect.DeepEqual(d.UnknownSources, want) {
		t.Errorf("Expected unknown sources in provenance order %v, got %v", want, d.UnknownSources)
	}

	summary := Summarize(len(kb.Entities), issues, nil)
	if summary.MissingProvenanceIssues != 2 {
		t.Errorf("Expected both provenance codes counted, got %d", summary.MissingProvenanceIssues)
	}

	if issues := Evaluate(kb, &model.ReferencePolicy{RequireProvenance: false}); len(issues) != 0 {
		t.Errorf("Expected no provenance issues when not required, got %v", codes(issues))
	}
}

func TestValidate_ReliabilityAndStatus(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{
			{ID: "low", Name: "Low", Domain: "d", Reliability: ptr(0.456), Status: "draft"},
			{ID: "exact", Name: "Exact", Domain: "d", Reliability: ptr(0.7), Status: "active"},
			{ID: "unset", Name: "Unset", Domain: "d", Status: "active"},
		},
	}
	policy := &model.ReferencePolicy{MinReliability: 0.7, ForbiddenStatuses: []string{"draft"}}
	issues := Evaluate(kb, policy)

	if got, want := codes(issues), []model.IssueCode{model.CodeLowReliability, model.CodeForbiddenStatus}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	if want := "Entity 'Low' reliability 0.46 is below threshold 0.70."; issues[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, issues[0].Message)
	}
	if d := issues[1].Details.(model.StatusDetails); d.Status != "draft" {
		t.Errorf("Expected status draft, got %q", d.Status)
	}
	for _, issue := range issues {
		if issue.SuggestedAction == "" {
			t.Errorf("Expected suggested action on %s", issue.Code)
		}
	}
}

func TestValidate_DecodedContentEdgeCases(t *testing.T) {
	data := `{
  "source_docs": [{"id": "doc-1", "title": ""}],
  "entities": [
    {"id": "a", "name": "", "domain": "policy", "facts": ["Keep for 12\u00a0months"], "provenance": ["doc-1"], "status": ""},
    {"id": "b", "name": " ", "domain": "policy", "facts": ["Keep for 24 months"], "provenance": ["doc-1"]}
  ]
}`
	kb, err := model.DecodeKnowledgeBase("kb.json", []byte(data))
	if err != nil {
		t.Fatalf("Expected snapshot to decode, got %v", err)
	}
	policy := &model.ReferencePolicy{ForbiddenStatuses: []string{""}}

	want := []model.IssueCode{model.CodeForbiddenStatus, model.CodeDuplicateEntityName, model.CodeConflictingFacts}
	issues := Evaluate(&kb, policy)
	if got := codes(issues); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	if issues[0].EntityID != "a" {
		t.Errorf("Expected blank status flagged on a, got %q", issues[0].EntityID)
	}
	if d := issues[2].Details.(model.MonthValuesDetails); !reflect.DeepEqual(d.MonthValues, []int{12, 24}) {
		t.Errorf("Expected month_values [12 24], got %v", d.MonthValues)
	}
}

func TestValidate_MissingDomain(t *testing.T) {
	kb := &model.KnowledgeBase{
		Entities: []model.KnowledgeEntity{{ID: "a", Name: "A"}},
	}
	issues := Evaluate(kb, &model.ReferencePolicy{})
	if len(issues) != 1 || issues[0].Code != model.CodeMissingDomain || issues[0].Severity != model.SeverityHigh {
		t.Errorf("Expected one high MISSING_DOMAIN issue, got %+v", issues)
	}
}

func TestValidate_RelationshipCycle(t *testing.T) {
	forward := []model.KnowledgeRelation{
		{Source: "A", Type: "depends_on", Target: "B"},
		{Source: "B", Type: "depends_on", Target: "A"},
	}
	reversed := []model.KnowledgeRelation{forward[1], forward[0]}

	for name, relations := range map[string][]model.KnowledgeRelation{"forward": forward, "reversed": reversed} {
		t.Run(name, func(t *testing.T) {
			issues := cycleIssues(relations)
			if len(issues) != 1 {
				t.Fatalf("Expected 1 cycle issue, got %d", len(issues))
			}
			if issues[0].RelationRef != "A->B" {
				t.Errorf("Expected relation_ref A->B, got %q", issues[0].RelationRef)
			}
		})
	}
}

func TestValidate_RelationshipCycleScope(t *testing.T) {
	tests := []struct {
		name      string
		relations []model.KnowledgeRelation
		want      []string
	}{
		{
			name: "mixed dependency types form a pair",
			relations: []model.KnowledgeRelation{
				{Source: "x", Type: "requires", Target: "y"},
				{Source: "y", Type: "parent_of", Target: "x"},
			},
			want: []string{"x->y"},
		},
		{
			name: "non-dependency types ignored",
			relations: []model.KnowledgeRelation{
				{Source: "x", Type: "implements", Target: "y"},
				{Source: "y", Type: "implements", Target: "x"},
			},
		},
		{
			name: "type match is case sensitive",
			relations: []model.KnowledgeRelation{
				{Source: "x", Type: "Depends_On", Target: "y"},
				{Source: "y", Type: "depends_on", Target: "x"},
			},
		},
		{
			name: "three-cycle not reported",
			relations: []model.KnowledgeRelation{
				{Source: "a", Type: "depends_on", Target: "b"},
				{Source: "b", Type: "depends_on", Target: "c"},
				{Source: "c", Type: "depends_on", Target: "a"},
			},
		},
		{
			name: "self loop not reported",
			relations: []model.KnowledgeRelation{
				{Source: "a", Type: "depends_on", Target: "a"},
			},
		},
		{
			name: "pairs in canonical order",
			relations: []model.KnowledgeRelation{
				{Source: "q", Type: "depends_on", Target: "p"},
				{Source: "c", Type: "requires", Target: "b"},
				{Source: "p", Type: "depends_on", Target: "q"},
				{Source: "b", Type: "requires", Target: "c"},
				{Source: "b", Type: "requires", Target: "c"},
			},
			want: []string{"b->c", "p->q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, issue := range cycleIssues(tt.relations) {
				got = append(got, issue.RelationRef)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildQuestions_StableDedup(t *testing.T) {
	issues := []model.ValidationIssue{
		{Code: model.CodeRelationshipCycle},
		{Code: model.CodeMissingDomain},
		{Code: model.CodeConflictingFacts},
		{Code: model.CodeRelationshipCycle},
		{Code: model.CodeUnknownProvenanceSource},
		{Code: model.CodeConflictingFacts},
		{Code: model.CodeMissingProvenance},
	}
	want := []string{
		clarificationQuestions[model.CodeRelationshipCycle],
		clarificationQuestions[model.CodeConflictingFacts],
		clarificationQuestions[model.CodeMissingProvenance],
	}
	if got := BuildQuestions(issues); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := BuildQuestions(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	kb, policy := policyAScenario()
	kb.Entities = append(kb.Entities,
		model.KnowledgeEntity{ID: "ent-003", Name: "Policy B", Facts: []string{"6 months"}},
		model.KnowledgeEntity{ID: "ent-004", Name: "policy b", Facts: []string{"9 months"}},
		model.KnowledgeEntity{ID: "ent-005", Name: "Policy C", Facts: []string{"1 month"}},
		model.KnowledgeEntity{ID: "ent-006", Name: "POLICY C", Facts: []string{"2 months"}},
	)
	kb.Relations = []model.KnowledgeRelation{
		{Source: "ent-003", Type: "depends_on", Target: "ent-004"},
		{Source: "ent-004", Type: "depends_on", Target: "ent-003"},
	}

	v := NewValidator(nil, zap.NewNop())
	first := v.Validate(context.Background(), kb, policy)
	for i := 0; i < 20; i++ {
		next := v.Validate(context.Background(), kb, policy)
		if !reflect.DeepEqual(first.Issues, next.Issues) {
			t.Fatalf("Expected identical issues on run %d", i)
		}
		if first.Summary != next.Summary {
			t.Fatalf("Expected identical summary on run %d", i)
		}
	}
}

func TestValidate_NarrativeSuccess(t *testing.T) {
	kb, policy := policyAScenario()
	narrator := &stubNarrator{text: "All good."}
	v := NewValidator(narrator, zap.NewNop())
	fixed := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }

	report := v.Validate(context.Background(), kb, policy)

	if report.Mode != model.ModeDeterministicAndAI {
		t.Errorf("Expected mode %s, got %s", model.ModeDeterministicAndAI, report.Mode)
	}
	if report.AIReport != "All good." {
		t.Errorf("Expected narrative text, got %q", report.AIReport)
	}
	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("Expected generated_at %v, got %v", fixed, report.GeneratedAt)
	}
	if report.KnowledgeBaseID != "kb-test" || report.SnapshotID != "kb-test-001" {
		t.Errorf("Expected snapshot identifiers echoed, got %s/%s", report.KnowledgeBaseID, report.SnapshotID)
	}
}

func TestValidate_NarrativeFallback(t *testing.T) {
	kb, policy := policyAScenario()
	deterministic := NewValidator(nil, zap.NewNop()).Validate(context.Background(), kb, policy)

	narrator := &stubNarrator{err: errors.New("upstream returned 503")}
	report := NewValidator(narrator, zap.NewNop()).Validate(context.Background(), kb, policy)

	if narrator.calls != 1 {
		t.Errorf("Expected exactly one narrative attempt, got %d", narrator.calls)
	}
	if report.Mode != model.ModeDeterministic {
		t.Errorf("Expected deterministic mode, got %s", report.Mode)
	}
	if report.AIReport != "" {
		t.Errorf("Expected no narrative, got %q", report.AIReport)
	}
	if !reflect.DeepEqual(report.Issues, deterministic.Issues) {
		t.Error("Expected deterministic issues to be unaffected by narrative failure")
	}
	if report.Summary != deterministic.Summary {
		t.Error("Expected summary to be unaffected by narrative failure")
	}
}

func TestValidate_EmptySnapshot(t *testing.T) {
	kb := model.NewKnowledgeBase()
	report := NewValidator(nil, nil).Validate(context.Background(), &kb, model.NewReferencePolicy())

	if report.Issues == nil || len(report.Issues) != 0 {
		t.Errorf("Expected empty non-nil issues, got %#v", report.Issues)
	}
	if report.ClarificationQuestions == nil {
		t.Error("Expected non-nil questions")
	}
	if report.Summary != (model.Summary{}) {
		t.Errorf("Expected zero summary, got %+v", report.Summary)
	}
}

func TestValidate_DemoSnapshotIsClean(t *testing.T) {
	kb := model.DemoKnowledgeBase()
	report := NewValidator(nil, nil).Validate(context.Background(), &kb, model.DemoPolicy())

	if len(report.Issues) != 0 {
		t.Errorf("Expected demo snapshot to pass its policy, got %v", codes(report.Issues))
	}
	if report.Summary.TotalEntities != 2 {
		t.Errorf("Expected 2 entities, got %d", report.Summary.TotalEntities)
	}
}
