package model

import "time"

func demoFloat(v float64) *float64 { return &v }

func demoDate(s string) *Date {
	d := MustDate(s)
	return &d
}

// DemoKnowledgeBase is the snapshot seeded into an empty data directory
func DemoKnowledgeBase() KnowledgeBase {
	version := "v1"
	created := Timestamp{time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)}
	return KnowledgeBase{
		KnowledgeBaseID:  "kb-demo",
		SnapshotID:       "kb-demo-2026-02-16-001",
		ReferenceVersion: &version,
		CreatedAt:        &created,
		SourceDocs: []SourceDocument{
			{ID: "doc-policy-001", Title: "Policy Manual v2", Date: demoDate("2025-06-10"), Version: "2.0"},
			{ID: "doc-sec-001", Title: "Security Runbook", Date: demoDate("2024-12-01"), Version: "1.4"},
		},
		Entities: []KnowledgeEntity{
			{
				ID:          "ent-001",
				Name:        "Data Retention Policy",
				Domain:      "policy",
				Facts:       []string{"Retention period is 24 months", "Applies to customer data"},
				Reliability: demoFloat(0.82),
				Provenance:  []string{"doc-policy-001"},
				UpdatedAt:   demoDate("2025-06-10"),
				Status:      DefaultEntityStatus,
			},
			{
				ID:          "ent-002",
				Name:        "Incident Response Procedure",
				Domain:      "procedure",
				Facts:       []string{"Notify DPO within 72 hours", "Escalate severity 1 incidents immediately"},
				Reliability: demoFloat(0.9),
				Provenance:  []string{"doc-sec-001"},
				UpdatedAt:   demoDate("2024-12-01"),
				Status:      DefaultEntityStatus,
			},
		},
		Relations: []KnowledgeRelation{
			{Source: "ent-002", Type: "implements", Target: "ent-001", Confidence: demoFloat(0.8)},
		},
	}
}

// DemoPolicy is the policy seeded into an empty data directory
func DemoPolicy() ReferencePolicy {
	return ReferencePolicy{
		MinValidDate:      demoDate("2024-01-01"),
		MinReliability:    0.7,
		RequiredDomains:   []string{"policy", "procedure"},
		ProhibitedTerms:   []string{"deprecated", "obsolete"},
		ForbiddenStatuses: []string{"deprecated"},
		RequireProvenance: true,
	}
}
