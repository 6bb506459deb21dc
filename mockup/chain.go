// Package mockup turns structured debate payloads into visual artifacts via
// an ordered, best-effort provider chain: Replicate, then Hugging Face
// Inference, then a deterministic placeholder. The chain is total: it never
// returns an error and never blocks a turn on a provider outage.
package mockup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/c360studio/moot/config"
	"github.com/c360studio/moot/debate"
	"github.com/c360studio/moot/metric"
)

// Provider tags for the artifact outcome.
const (
	ProviderPrimary     = "primary"
	ProviderSecondary   = "secondary"
	ProviderPlaceholder = "placeholder"
	ProviderError       = "error"
)

// generator is one rung of the fallback chain.
type generator interface {
	name() string
	configured() bool
	generate(ctx context.Context, prompt string, width, height int) (string, error)
}

// Chain attempts generators in order and falls back to a placeholder URL.
type Chain struct {
	generators []generator
	logger     *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the logger.
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain builds the chain from config: Replicate primary, Hugging Face
// secondary. Unconfigured providers are skipped at attempt time.
func NewChain(cfg config.MockupConfig, opts ...ChainOption) *Chain {
	httpClient := &http.Client{Timeout: 120 * time.Second}
	c := &Chain{
		generators: []generator{
			newReplicateGenerator(cfg.Replicate, httpClient),
			newHuggingFaceGenerator(cfg.HuggingFace, httpClient),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// providerTags maps chain position to the outcome tag.
var providerTags = []string{ProviderPrimary, ProviderSecondary}

// Produce attempts the chain for one payload. Each attempt is independent;
// a failure in one provider never blocks the next or the overall turn. A
// panic anywhere in the call is absorbed into the error placeholder variant.
func (c *Chain) Produce(ctx context.Context, req debate.ArtifactRequest) (art debate.Artifact) {
	kind := promptKind(req.RoleKind)

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Mockup generation panicked", "kind", kind, "panic", r)
			metric.MockupAttempts.WithLabelValues(ProviderError, "panic").Inc()
			art = debate.Artifact{URL: errorPlaceholderURL(kind), Provider: ProviderError}
		}
	}()

	prompt := PromptFor(req.RoleKind, req.Idea, req.Context, req.Details)
	width, height := dimensionsFor(kind)

	for i, gen := range c.generators {
		tag := providerTags[i]
		if !gen.configured() {
			c.logger.Debug("Mockup provider not configured, skipping", "provider", gen.name())
			continue
		}

		c.logger.Debug("Generating mockup", "provider", gen.name(), "kind", kind)
		imageURL, err := gen.generate(ctx, prompt, width, height)
		if err != nil {
			c.logger.Warn("Mockup provider failed, falling back",
				"provider", gen.name(), "kind", kind, "error", err)
			metric.MockupAttempts.WithLabelValues(tag, "failure").Inc()
			continue
		}

		metric.MockupAttempts.WithLabelValues(tag, "success").Inc()
		return debate.Artifact{URL: imageURL, Provider: tag}
	}

	metric.MockupAttempts.WithLabelValues(ProviderPlaceholder, "success").Inc()
	return debate.Artifact{URL: PlaceholderURL(kind), Provider: ProviderPlaceholder}
}

// PlaceholderURL is the deterministic final fallback. It never fails.
func PlaceholderURL(kind string) string {
	text := url.QueryEscape(strings.ToUpper(kind) + " Mockup")
	return fmt.Sprintf("https://via.placeholder.com/400x300/f0f0f0/333333?text=%s", text)
}

// errorPlaceholderURL is the distinct variant for call-site failures.
func errorPlaceholderURL(kind string) string {
	text := url.QueryEscape("Error " + strings.ToUpper(kind))
	return fmt.Sprintf("https://via.placeholder.com/400x300/ffebee/c62828?text=%s", text)
}

// dimensionsFor picks the aspect ratio per prompt category: design mockups
// are portrait, diagrams landscape.
func dimensionsFor(kind string) (width, height int) {
	if kind == "design" {
		return 400, 600
	}
	return 600, 400
}
