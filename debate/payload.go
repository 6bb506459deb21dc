package debate

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the structured payload variants agents emit. Unknown
// kinds are preserved, not rejected; the raw mapping always survives.
type Kind string

const (
	KindArchitecture Kind = "architecture"
	KindFrontend     Kind = "frontend"
	KindBackend      Kind = "backend"
	KindDesign       Kind = "design"
	KindFigma        Kind = "figma"
	KindWireframe    Kind = "wireframe"
	KindPlanning     Kind = "planning"
	KindProduct      Kind = "product"
	KindBusiness     Kind = "business"
	KindSummary      Kind = "summary"
	KindQuestion     Kind = "question"
	KindUnknown      Kind = "unknown"
)

// Screen is one screen in a design payload.
type Screen struct {
	Name       string   `json:"name"`
	Components []string `json:"components,omitempty"`
}

// Phase is one phase in a planning payload.
type Phase struct {
	Name      string `json:"name"`
	Duration  string `json:"duration,omitempty"`
	Resources string `json:"resources,omitempty"`
}

// Payload is the tagged union over the structured blocks agents append to
// their replies. Fields are optional per kind; consumers read defensively.
// Raw preserves the full original mapping, including fields the typed view
// doesn't know about.
type Payload struct {
	Kind Kind

	// Development kinds
	Technologies []string
	Timeline     string
	Complexity   string

	// Design kinds
	Screens []Screen
	Style   string

	// Planning
	Phases []Phase
	Budget string

	// Product
	Features []string
	KPIs     []string

	// Business
	RevenueModel string

	// Summary (moderator)
	Decisions []string
	Team      string
	Risks     []string
	NextSteps []string

	// Clarifying question
	Question string

	// Raw is the original mapping as decoded.
	Raw map[string]any
}

// MarshalJSON emits the original mapping so the wire shape round-trips even
// for fields the typed view doesn't model.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p.Raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Raw)
}

// UnmarshalJSON decodes a payload from its raw object form.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := decodePayload(raw)
	*p = *decoded
	return nil
}

// decodePayload builds the typed view over a raw mapping. It never fails:
// fields that don't fit are simply left zero, and the raw mapping is kept.
func decodePayload(raw map[string]any) *Payload {
	p := &Payload{
		Kind: normalizeKind(stringField(raw, "type", "kind")),
		Raw:  raw,
	}

	p.Technologies = stringList(raw, "technologies")
	p.Timeline = stringField(raw, "timeline")
	p.Complexity = stringField(raw, "complexity")
	p.Style = stringField(raw, "style")
	p.Budget = stringField(raw, "budget")
	p.Features = stringList(raw, "features")
	p.KPIs = stringList(raw, "kpis", "success_metrics")
	p.RevenueModel = stringField(raw, "revenue_model", "model")
	p.Decisions = stringList(raw, "decisions")
	p.Team = stringField(raw, "team")
	p.Risks = stringList(raw, "risks")
	p.NextSteps = stringList(raw, "nextSteps", "next_steps")
	p.Question = stringField(raw, "question")
	p.Screens = screenList(raw["screens"])
	p.Phases = phaseList(raw["phases"])

	return p
}

// normalizeKind maps the free-form discriminator onto a known Kind.
func normalizeKind(s string) Kind {
	switch Kind(s) {
	case KindArchitecture, KindFrontend, KindBackend, KindDesign, KindFigma,
		KindWireframe, KindPlanning, KindProduct, KindBusiness, KindSummary,
		KindQuestion:
		return Kind(s)
	case "website", "mobile", "desktop":
		return KindDesign
	case "pm":
		return KindPlanning
	case "dev":
		return KindArchitecture
	default:
		return KindUnknown
	}
}

// IsQuestion reports whether the payload is a clarifying question rather than
// artifact material.
func (p *Payload) IsQuestion() bool {
	return p.Kind == KindQuestion && p.Question != ""
}

// Details flattens the payload's primitive and sequence values into prompt
// fragments for artifact generation, most relevant fields first.
func (p *Payload) Details() []string {
	var out []string
	add := func(values ...string) {
		for _, v := range values {
			if v != "" {
				out = append(out, v)
			}
		}
	}

	switch p.Kind {
	case KindArchitecture, KindFrontend, KindBackend:
		add(p.Technologies...)
		add(p.Timeline, p.Complexity)
	case KindDesign, KindFigma, KindWireframe:
		for _, s := range p.Screens {
			add(s.Name)
			add(s.Components...)
		}
		add(p.Style)
	case KindPlanning:
		for _, ph := range p.Phases {
			add(ph.Name)
		}
		add(p.Timeline, p.Budget)
	case KindProduct:
		add(p.Features...)
		add(p.KPIs...)
	case KindBusiness:
		add(p.RevenueModel)
		add(stringField(p.Raw, "market_size"), stringField(p.Raw, "roi"))
	case KindSummary:
		add(p.Decisions...)
		add(p.NextSteps...)
	}

	if len(out) > 0 {
		return out
	}

	// Unknown kind: collect whatever scalar strings the mapping holds, in a
	// stable order.
	keys := make([]string, 0, len(p.Raw))
	for k := range p.Raw {
		if k == "type" || k == "kind" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := p.Raw[k].(type) {
		case string:
			add(v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}
	return out
}

// stringField returns the first present string value among the given keys.
func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			return s
		}
	}
	return ""
}

// stringList reads a field that may be a string, a list of strings, or
// absent. A bare string becomes a one-element list.
func stringList(raw map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			return []string{v}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				switch s := item.(type) {
				case string:
					out = append(out, s)
				default:
					out = append(out, fmt.Sprintf("%v", s))
				}
			}
			return out
		}
	}
	return nil
}

// screenList reads the screens field, which may be a string, a list of
// strings, or a list of {name, components} records.
func screenList(v any) []Screen {
	switch screens := v.(type) {
	case string:
		return []Screen{{Name: screens}}
	case []any:
		out := make([]Screen, 0, len(screens))
		for _, item := range screens {
			switch s := item.(type) {
			case string:
				out = append(out, Screen{Name: s})
			case map[string]any:
				out = append(out, Screen{
					Name:       stringField(s, "name"),
					Components: stringList(s, "components"),
				})
			}
		}
		return out
	}
	return nil
}

// phaseList reads the phases field: a list of {name, duration, resources}.
func phaseList(v any) []Phase {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Phase, 0, len(items))
	for _, item := range items {
		switch ph := item.(type) {
		case string:
			out = append(out, Phase{Name: ph})
		case map[string]any:
			out = append(out, Phase{
				Name:      stringField(ph, "name"),
				Duration:  stringField(ph, "duration"),
				Resources: stringField(ph, "resources"),
			})
		}
	}
	return out
}
