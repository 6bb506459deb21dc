package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/moot/agent"
	"github.com/c360studio/moot/llm"
)

// Generation parameters. Agent turns stay short and lively; the moderator
// gets room and determinism for the synthesis.
const (
	agentTemperature     = 0.7
	agentMaxTokens       = 300
	moderatorTemperature = 0.2
	moderatorMaxTokens   = 1000

	// DefaultContextWindow is how many trailing utterances an agent turn
	// sees. Bounding the window keeps prompt size and cost predictable.
	DefaultContextWindow = 8
)

// Completer is the text-generation capability the invoker delegates to.
// Implemented by *llm.Client; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Invoker issues one model call per turn and parses the reply. Transport and
// provider errors surface to the caller untouched; retry policy lives in the
// LLM client, abort policy in the engine.
type Invoker struct {
	completer      Completer
	agentModel     string
	moderatorModel string
	contextWindow  int
	logger         *slog.Logger
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithContextWindow overrides the agent context window.
func WithContextWindow(n int) InvokerOption {
	return func(inv *Invoker) {
		if n > 0 {
			inv.contextWindow = n
		}
	}
}

// WithInvokerLogger sets the logger.
func WithInvokerLogger(logger *slog.Logger) InvokerOption {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// NewInvoker creates an Invoker over the given completion capability.
// moderatorModel may equal agentModel.
func NewInvoker(completer Completer, agentModel, moderatorModel string, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		completer:      completer,
		agentModel:     agentModel,
		moderatorModel: moderatorModel,
		contextWindow:  DefaultContextWindow,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs one agent turn. The agent sees only the trailing context
// window of the transcript.
func (inv *Invoker) Invoke(ctx context.Context, spec agent.Spec, idea string, transcript []Utterance) (Utterance, error) {
	window := transcript
	if len(window) > inv.contextWindow {
		window = window[len(window)-inv.contextWindow:]
	}

	prompt := fmt.Sprintf(`Debate context so far (you may respectfully disagree and contribute new value):

%s

Idea under consideration: %q

Give your perspective from your role (%s). Be brief, concrete, and add distinct value.`,
		renderTranscript(window), idea, spec.DisplayName)

	resp, err := inv.completer.Complete(ctx, llm.Request{
		Model: inv.agentModel,
		Messages: []llm.Message{
			{Role: "system", Content: spec.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: ptr(agentTemperature),
		MaxTokens:   agentMaxTokens,
	})
	if err != nil {
		return Utterance{}, fmt.Errorf("agent %s turn: %w", spec.ID, err)
	}

	parsed := ParseReply(resp.Content, inv.logger)
	inv.logger.Debug("Agent turn completed",
		"role", spec.ID,
		"request_id", resp.RequestID,
		"tokens", resp.Usage.TotalTokens,
		"has_payload", parsed.Payload != nil)

	return Utterance{Speaker: spec.ID, Text: parsed.Text, Payload: parsed.Payload}, nil
}

// InvokeModerator runs the synthesis step over the ENTIRE transcript.
func (inv *Invoker) InvokeModerator(ctx context.Context, idea string, transcript []Utterance) (Utterance, error) {
	mod := agent.Moderator()

	prompt := fmt.Sprintf(`Complete debate about the idea: %q

%s

Synthesize the whole debate into a clear, actionable plan, following your role as Moderator.`,
		idea, renderTranscript(transcript))

	resp, err := inv.completer.Complete(ctx, llm.Request{
		Model: inv.moderatorModel,
		Messages: []llm.Message{
			{Role: "system", Content: mod.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: ptr(moderatorTemperature),
		MaxTokens:   moderatorMaxTokens,
	})
	if err != nil {
		return Utterance{}, fmt.Errorf("moderator turn: %w", err)
	}

	parsed := ParseReply(resp.Content, inv.logger)
	return Utterance{Speaker: mod.ID, Text: parsed.Text, Payload: parsed.Payload}, nil
}

// renderTranscript flattens utterances into "Name: text" lines.
func renderTranscript(transcript []Utterance) string {
	if len(transcript) == 0 {
		return "(no contributions yet)"
	}
	lines := make([]string, 0, len(transcript))
	for _, u := range transcript {
		name := u.Speaker
		if spec, ok := agent.ByID(u.Speaker); ok {
			name = spec.DisplayName
		}
		lines = append(lines, name+": "+u.Text)
	}
	return strings.Join(lines, "\n")
}

func ptr(f float64) *float64 {
	return &f
}
