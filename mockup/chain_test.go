package mockup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/moot/debate"
)

// stubGenerator scripts one rung of the chain.
type stubGenerator struct {
	id        string
	available bool
	url       string
	err       error
	panicMsg  string
	calls     int
}

func (s *stubGenerator) name() string     { return s.id }
func (s *stubGenerator) configured() bool { return s.available }

func (s *stubGenerator) generate(_ context.Context, _ string, _, _ int) (string, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.url, s.err
}

func testChain(gens ...generator) *Chain {
	return &Chain{generators: gens, logger: slog.Default()}
}

func TestChainPrimarySuccessSkipsSecondary(t *testing.T) {
	primary := &stubGenerator{id: "replicate", available: true, url: "https://img.example/one.png"}
	secondary := &stubGenerator{id: "huggingface", available: true, url: "https://img.example/two.png"}

	art := testChain(primary, secondary).Produce(context.Background(), debate.ArtifactRequest{
		RoleKind: "architecture",
		Idea:     "meal planner",
	})

	assert.Equal(t, ProviderPrimary, art.Provider)
	assert.Equal(t, "https://img.example/one.png", art.URL)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary must not be attempted after primary success")
}

func TestChainFallsBackToSecondary(t *testing.T) {
	primary := &stubGenerator{id: "replicate", available: true, err: errors.New("prediction failed")}
	secondary := &stubGenerator{id: "huggingface", available: true, url: "data:image/png;base64,aGk="}

	art := testChain(primary, secondary).Produce(context.Background(), debate.ArtifactRequest{
		RoleKind: "design",
		Idea:     "meal planner",
	})

	assert.Equal(t, ProviderSecondary, art.Provider)
	assert.Equal(t, "data:image/png;base64,aGk=", art.URL)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestChainAllProvidersFailYieldsPlaceholder(t *testing.T) {
	primary := &stubGenerator{id: "replicate", available: true, err: errors.New("down")}
	secondary := &stubGenerator{id: "huggingface", available: true, err: errors.New("also down")}

	art := testChain(primary, secondary).Produce(context.Background(), debate.ArtifactRequest{
		RoleKind: "business",
		Idea:     "meal planner",
	})

	assert.Equal(t, ProviderPlaceholder, art.Provider)
	assert.Equal(t, PlaceholderURL("business"), art.URL)
}

func TestChainSkipsUnconfiguredProviders(t *testing.T) {
	primary := &stubGenerator{id: "replicate", available: false}
	secondary := &stubGenerator{id: "huggingface", available: true, url: "https://img.example/hf.png"}

	art := testChain(primary, secondary).Produce(context.Background(), debate.ArtifactRequest{
		RoleKind: "product",
		Idea:     "meal planner",
	})

	assert.Equal(t, ProviderSecondary, art.Provider)
	assert.Equal(t, 0, primary.calls, "unconfigured provider must not be called")
}

func TestChainNoProvidersConfigured(t *testing.T) {
	art := testChain(
		&stubGenerator{id: "replicate"},
		&stubGenerator{id: "huggingface"},
	).Produce(context.Background(), debate.ArtifactRequest{RoleKind: "planning", Idea: "x"})

	assert.Equal(t, ProviderPlaceholder, art.Provider)
	assert.Contains(t, art.URL, "via.placeholder.com")
}

func TestChainPanicYieldsErrorPlaceholder(t *testing.T) {
	primary := &stubGenerator{id: "replicate", available: true, panicMsg: "boom"}

	var art debate.Artifact
	require.NotPanics(t, func() {
		art = testChain(primary).Produce(context.Background(), debate.ArtifactRequest{
			RoleKind: "frontend",
			Idea:     "meal planner",
		})
	})

	assert.Equal(t, ProviderError, art.Provider)
	assert.Equal(t, errorPlaceholderURL("dev"), art.URL)
}

func TestPlaceholderURLEncoding(t *testing.T) {
	u := PlaceholderURL("design")
	assert.Contains(t, u, "f0f0f0")
	assert.Contains(t, u, "DESIGN+Mockup")

	e := errorPlaceholderURL("dev")
	assert.Contains(t, e, "ffebee")
	assert.Contains(t, e, "Error+DEV")
}

func TestDimensionsFor(t *testing.T) {
	tests := []struct {
		kind          string
		width, height int
	}{
		{"design", 400, 600},
		{"dev", 600, 400},
		{"pm", 600, 400},
		{"business", 600, 400},
		{"product", 600, 400},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			w, h := dimensionsFor(tt.kind)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestChainOutcomeIsTotal(t *testing.T) {
	// Every failure mode still yields a usable artifact URL.
	cases := []*Chain{
		testChain(&stubGenerator{id: "a", available: true, err: fmt.Errorf("fail")}),
		testChain(&stubGenerator{id: "a", available: true, panicMsg: "boom"}),
		testChain(),
	}
	for i, c := range cases {
		art := c.Produce(context.Background(), debate.ArtifactRequest{RoleKind: "design", Idea: "x"})
		assert.NotEmpty(t, art.URL, "case %d", i)
		assert.NotEmpty(t, art.Provider, "case %d", i)
	}
}
