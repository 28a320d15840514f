package validate

import (
	"context"
	"time"

	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

// Narrator produces the optional natural-language narrative of a snapshot.
// Any error means the report stays deterministic.
type Narrator interface {
	Narrate(ctx context.Context, kb *model.KnowledgeBase, policy *model.ReferencePolicy) (string, error)
}

// Validator runs the rule engine and attaches the narrative when available
type Validator struct {
	narrator Narrator
	logger   *zap.Logger
	now      func() time.Time
}

// NewValidator creates a validator. A nil narrator yields deterministic
// reports without attempting a narrative.
func NewValidator(narrator Narrator, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		narrator: narrator,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate runs every deterministic rule and returns the issues in their
// fixed order: per-entity checks, duplicate names, cross-entity conflicts,
// required domains, relationship cycles
func Evaluate(kb *model.KnowledgeBase, policy *model.ReferencePolicy) []model.ValidationIssue {
	issues := []model.ValidationIssue{}
	knownDocs := kb.SourceDocIDs()
	corr := newCorrelator()

	for i := range kb.Entities {
		e := &kb.Entities[i]
		corr.add(e)
		issues = append(issues, checkEntity(e, policy, knownDocs)...)
	}

	issues = append(issues, corr.duplicateIssues()...)
	issues = append(issues, corr.conflictIssues()...)
	issues = append(issues, corr.missingDomainIssues(policy.RequiredDomains)...)
	issues = append(issues, cycleIssues(kb.Relations)...)
	return issues
}

// Validate builds the full report. It never fails: a narrative error only
// downgrades the report to deterministic mode.
func (v *Validator) Validate(ctx context.Context, kb *model.KnowledgeBase, policy model.ReferencePolicy) *model.ValidationReport {
	issues := Evaluate(kb, &policy)
	questions := BuildQuestions(issues)

	report := &model.ValidationReport{
		KnowledgeBaseID:        kb.KnowledgeBaseID,
		SnapshotID:             kb.SnapshotID,
		ReferenceVersion:       kb.ReferenceVersion,
		Mode:                   model.ModeDeterministic,
		Summary:                Summarize(len(kb.Entities), issues, questions),
		Issues:                 issues,
		ClarificationQuestions: questions,
	}

	v.logger.Debug("rules evaluated",
		zap.String("snapshot_id", kb.SnapshotID),
		zap.Int("entities", len(kb.Entities)),
		zap.Int("issues", len(issues)),
		zap.Int("questions", len(questions)))

	if v.narrator != nil {
		text, err := v.narrator.Narrate(ctx, kb, &policy)
		if err != nil {
			v.logger.Warn("narrative unavailable, report stays deterministic",
				zap.String("snapshot_id", kb.SnapshotID),
				zap.Error(err))
		} else {
			report.Mode = model.ModeDeterministicAndAI
			report.AIReport = text
		}
	}

	report.GeneratedAt = v.now().UTC()
	return report
}
