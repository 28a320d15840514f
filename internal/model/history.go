package model

import "time"

// HistoryRun is the bookkeeping entry appended after every validation run
type HistoryRun struct {
	RunID            string    `json:"run_id"`
	Timestamp        time.Time `json:"timestamp"`
	KnowledgeBaseID  string    `json:"knowledge_base_id"`
	SnapshotID       string    `json:"snapshot_id"`
	ReferenceVersion *string   `json:"reference_version"`
	Mode             Mode      `json:"mode"`
	IssuesTotal      int       `json:"issues_total"`
	Questions        int       `json:"questions"`
}

// NewHistoryRun summarises a finished report
func NewHistoryRun(runID string, at time.Time, kb *KnowledgeBase, report *ValidationReport) HistoryRun {
	return HistoryRun{
		RunID:            runID,
		Timestamp:        at.UTC(),
		KnowledgeBaseID:  kb.KnowledgeBaseID,
		SnapshotID:       kb.SnapshotID,
		ReferenceVersion: kb.ReferenceVersion,
		Mode:             report.Mode,
		IssuesTotal:      report.Summary.IssuesTotal,
		Questions:        report.Summary.Questions,
	}
}
