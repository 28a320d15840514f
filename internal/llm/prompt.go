package llm

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/knowval/internal/model"
)

const systemPrompt = "You are a knowledge validation assistant. " +
	"Given a knowledge base and reference policies, produce a clear validation output. " +
	"Return a concise report with: (1) coherence/alignment summary, " +
	"(2) inconsistencies/duplicates/obsolete info, " +
	"(3) clarification questions. " +
	"Plain text is allowed; do not force JSON."

// BuildPrompt returns the system and user prompts for a snapshot and policy
func BuildPrompt(kb *model.KnowledgeBase, policy *model.ReferencePolicy) (system, user string, err error) {
	kbJSON, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal snapshot: %w", err)
	}
	policyJSON, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal policy: %w", err)
	}

	user = "Knowledge base JSON:\n" + string(kbJSON) +
		"\n\nReference policies JSON:\n" + string(policyJSON)
	return systemPrompt, user, nil
}
