package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/knowval/internal/extract"
	"github.com/ppiankov/knowval/internal/model"
	"go.uber.org/zap"
)

// Narrator generates the natural-language narrative attached to a report.
// Timeouts, upstream failures and blank answers all surface as errors;
// the caller decides how to degrade.
type Narrator struct {
	provider Provider
	limiter  *Limiter
	config   Config
	logger   *zap.Logger
}

// NewNarrator creates a narrator from configuration. With no provider
// configured the narrator is disabled and every call returns ErrProviderDisabled.
func NewNarrator(config Config, logger *zap.Logger) (*Narrator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return NewNarratorWithProvider(provider, config, logger), nil
}

// NewNarratorWithProvider wraps an existing provider
func NewNarratorWithProvider(provider Provider, config Config, logger *zap.Logger) *Narrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Narrator{
		provider: provider,
		limiter:  NewLimiter(config.RequestsPerSecond, config.Burst),
		config:   config,
		logger:   logger,
	}
}

// IsEnabled returns true if a provider is configured
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// ProviderName returns the configured provider name
func (n *Narrator) ProviderName() string {
	if !n.IsEnabled() {
		return ""
	}
	return n.provider.Name()
}

// Available probes the provider within the narrative timeout
func (n *Narrator) Available(ctx context.Context) bool {
	if !n.IsEnabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, n.config.timeout())
	defer cancel()
	return n.provider.IsAvailable(ctx)
}

// Narrate asks the provider to describe the snapshot against the policy
func (n *Narrator) Narrate(ctx context.Context, kb *model.KnowledgeBase, policy *model.ReferencePolicy) (string, error) {
	if !n.IsEnabled() {
		return "", ErrProviderDisabled
	}

	system, user, err := BuildPrompt(kb, policy)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, n.config.timeout())
	defer cancel()

	if err := n.limiter.Wait(ctx, n.provider.Endpoint()); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	n.logger.Debug("requesting narrative",
		zap.String("provider", n.provider.Name()),
		zap.String("snapshot_id", kb.SnapshotID))

	text, err := n.provider.Generate(ctx, GenerateRequest{
		System:      system,
		Prompt:      user,
		Model:       n.config.Model,
		MaxTokens:   n.config.maxTokens(),
		Temperature: n.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}

	text = strings.TrimSpace(text)
	if extract.LooksLikeHTML(text) {
		flat, err := extract.VisibleText(text)
		if err != nil {
			return "", fmt.Errorf("flatten narrative: %w", err)
		}
		text = flat
	}
	if text == "" {
		return "", ErrEmptyNarrative
	}

	return text, nil
}
