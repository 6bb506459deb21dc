package debate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTestPayload(t *testing.T, raw string) *Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"architecture", KindArchitecture},
		{"frontend", KindFrontend},
		{"backend", KindBackend},
		{"design", KindDesign},
		{"figma", KindFigma},
		{"wireframe", KindWireframe},
		{"planning", KindPlanning},
		{"product", KindProduct},
		{"business", KindBusiness},
		{"summary", KindSummary},
		{"question", KindQuestion},
		{"website", KindDesign},
		{"mobile", KindDesign},
		{"desktop", KindDesign},
		{"pm", KindPlanning},
		{"dev", KindArchitecture},
		{"", KindUnknown},
		{"bogus", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeKind(tt.in))
		})
	}
}

func TestDecodeArchitecturePayload(t *testing.T) {
	p := decodeTestPayload(t, `{
		"type": "architecture",
		"technologies": ["Go", "Postgres", "Redis"],
		"timeline": "3 months",
		"complexity": "medium"
	}`)

	assert.Equal(t, KindArchitecture, p.Kind)
	assert.Equal(t, []string{"Go", "Postgres", "Redis"}, p.Technologies)
	assert.Equal(t, "3 months", p.Timeline)
	assert.Equal(t, "medium", p.Complexity)
}

func TestDecodeDesignPayloadScreenShapes(t *testing.T) {
	// screens arrives as strings or as records depending on the model's mood
	p := decodeTestPayload(t, `{
		"type": "figma",
		"screens": ["Home", {"name": "Detail", "components": ["header", "list"]}],
		"style": "minimal"
	}`)

	assert.Equal(t, KindFigma, p.Kind)
	require.Len(t, p.Screens, 2)
	assert.Equal(t, "Home", p.Screens[0].Name)
	assert.Empty(t, p.Screens[0].Components)
	assert.Equal(t, "Detail", p.Screens[1].Name)
	assert.Equal(t, []string{"header", "list"}, p.Screens[1].Components)
	assert.Equal(t, "minimal", p.Style)
}

func TestDecodePlanningPayload(t *testing.T) {
	p := decodeTestPayload(t, `{
		"type": "planning",
		"phases": [
			{"name": "Discovery", "duration": "2 weeks", "resources": "1 PM"},
			"Build"
		],
		"timeline": "Q3",
		"budget": "50k"
	}`)

	assert.Equal(t, KindPlanning, p.Kind)
	require.Len(t, p.Phases, 2)
	assert.Equal(t, "Discovery", p.Phases[0].Name)
	assert.Equal(t, "2 weeks", p.Phases[0].Duration)
	assert.Equal(t, "Build", p.Phases[1].Name)
	assert.Equal(t, "50k", p.Budget)
}

func TestDecodeFieldAliases(t *testing.T) {
	p := decodeTestPayload(t, `{
		"type": "product",
		"success_metrics": ["retention", "DAU"]
	}`)
	assert.Equal(t, []string{"retention", "DAU"}, p.KPIs)

	p = decodeTestPayload(t, `{"type": "business", "model": "subscription"}`)
	assert.Equal(t, "subscription", p.RevenueModel)

	p = decodeTestPayload(t, `{"type": "summary", "next_steps": ["ship"]}`)
	assert.Equal(t, []string{"ship"}, p.NextSteps)

	p = decodeTestPayload(t, `{"kind": "backend"}`)
	assert.Equal(t, KindBackend, p.Kind)
}

func TestDecodeUnknownKindPreservesRaw(t *testing.T) {
	p := decodeTestPayload(t, `{"type": "hologram", "projection": "3d", "layers": ["base", "glow"]}`)

	assert.Equal(t, KindUnknown, p.Kind)
	assert.Equal(t, "hologram", p.Raw["type"])
	assert.Equal(t, "3d", p.Raw["projection"])

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "hologram", "projection": "3d", "layers": ["base", "glow"]}`, string(out))
}

func TestIsQuestion(t *testing.T) {
	q := decodeTestPayload(t, `{"type": "question", "question": "Who is the target user?"}`)
	assert.True(t, q.IsQuestion())

	// kind question without question text is not actionable
	empty := decodeTestPayload(t, `{"type": "question"}`)
	assert.False(t, empty.IsQuestion())

	arch := decodeTestPayload(t, `{"type": "architecture", "question": "hm?"}`)
	assert.False(t, arch.IsQuestion())
}

func TestDetailsPerKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "architecture",
			raw:  `{"type": "architecture", "technologies": ["Go", "NATS"], "timeline": "6 weeks"}`,
			want: []string{"Go", "NATS", "6 weeks"},
		},
		{
			name: "design",
			raw:  `{"type": "design", "screens": [{"name": "Home", "components": ["nav"]}], "style": "flat"}`,
			want: []string{"Home", "nav", "flat"},
		},
		{
			name: "planning",
			raw:  `{"type": "planning", "phases": [{"name": "MVP"}], "budget": "20k"}`,
			want: []string{"MVP", "20k"},
		},
		{
			name: "product",
			raw:  `{"type": "product", "features": ["search"], "kpis": ["DAU"]}`,
			want: []string{"search", "DAU"},
		},
		{
			name: "business",
			raw:  `{"type": "business", "revenue_model": "freemium", "market_size": "large"}`,
			want: []string{"freemium", "large"},
		},
		{
			name: "summary",
			raw:  `{"type": "summary", "decisions": ["go native"], "nextSteps": ["hire"]}`,
			want: []string{"go native", "hire"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decodeTestPayload(t, tt.raw)
			assert.Equal(t, tt.want, p.Details())
		})
	}
}

func TestDetailsUnknownKindFallsBackToRawStrings(t *testing.T) {
	p := decodeTestPayload(t, `{"type": "hologram", "b": "second", "a": "first", "list": ["x"]}`)

	// stable key order, discriminator excluded
	assert.Equal(t, []string{"first", "second", "x"}, p.Details())
}

func TestMarshalNilRaw(t *testing.T) {
	out, err := json.Marshal(&Payload{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
