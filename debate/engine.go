package debate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/c360studio/moot/agent"
	"github.com/c360studio/moot/metric"
	"github.com/google/uuid"
)

// streamBuffer bounds the event channel so a slow consumer backpressures the
// scheduler instead of growing an unbounded queue.
const streamBuffer = 16

// ArtifactRequest asks the artifact producer for a visual for one payload.
type ArtifactRequest struct {
	// RoleKind is the payload kind driving prompt template and aspect ratio.
	RoleKind string
	// Idea is the debate's base idea.
	Idea string
	// Context is the narrative text of the turn that carried the payload.
	Context string
	// Details are flattened payload fields for the prompt.
	Details []string
}

// Artifact is the outcome of an artifact attempt. Producers never fail; the
// worst case is a placeholder variant.
type Artifact struct {
	URL string
	// Provider tags which rung of the fallback chain served the artifact
	// (primary, secondary, placeholder, error).
	Provider string
}

// ArtifactProducer turns a structured payload into a visual artifact.
// Implementations must be total: always return a usable Artifact.
type ArtifactProducer interface {
	Produce(ctx context.Context, req ArtifactRequest) Artifact
}

// Engine drives debate runs: rounds x registry roles, then the moderator.
// A single goroutine owns each run's transcript and is the sole event
// emitter; artifact workers report back over a channel so event order stays
// the scheduler's execution order.
type Engine struct {
	invoker   *Invoker
	artifacts ArtifactProducer
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithArtifactProducer enables artifact generation for payload-bearing turns.
func WithArtifactProducer(p ArtifactProducer) EngineOption {
	return func(e *Engine) {
		e.artifacts = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine.
func NewEngine(invoker *Invoker, opts ...EngineOption) *Engine {
	e := &Engine{
		invoker: invoker,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes a debate to completion with no intermediate observation.
// On failure the returned Result still carries the partial transcript of
// every turn that completed before the error.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	// Batch mode discards intermediate events.
	return e.run(ctx, req, func(Event) bool { return true })
}

// Stream executes a debate, delivering one Event per state transition over a
// bounded channel. The channel closes after the terminal done/error event, or
// without one when ctx is cancelled. Cancellation lets the in-flight external
// call finish but schedules no further turns.
func (e *Engine) Stream(ctx context.Context, req Request) (<-chan Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ch := make(chan Event, streamBuffer)
	emit := func(ev Event) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)
		_, err := e.run(ctx, req, emit)
		switch {
		case err == nil:
			emit(Event{Type: EventDone})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Closed without a terminal event.
		default:
			emit(Event{Type: EventError, Error: err.Error()})
		}
	}()

	return ch, nil
}

// artifactResult travels from a mockup worker back to the run goroutine.
type artifactResult struct {
	role     string
	artifact Artifact
}

// run is the state machine shared by both modes. emit reports false when the
// consumer is gone; the run stops scheduling further turns.
func (e *Engine) run(ctx context.Context, req Request, emit func(Event) bool) (result *Result, err error) {
	runID := uuid.New().String()
	started := time.Now()
	roles := agent.Roles()

	result = &Result{RunID: runID}

	defer func() {
		status := "completed"
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = "cancelled"
		default:
			status = "failed"
		}
		metric.DebateRuns.WithLabelValues(status).Inc()
		metric.DebateDuration.Observe(time.Since(started).Seconds())
		e.logger.Info("Debate run finished",
			"run_id", runID,
			"status", status,
			"utterances", len(result.Transcript),
			"duration", time.Since(started))
	}()

	e.logger.Info("Debate run started",
		"run_id", runID,
		"rounds", req.Rounds,
		"roles", len(roles))

	// Artifact workers report here. The buffer covers every possible turn so
	// a worker never blocks on a cancelled consumer.
	artifactCh := make(chan artifactResult, req.Rounds*len(roles))
	pending := 0

	for round := 0; round < req.Rounds; round++ {
		if !emit(Event{Type: EventRoundStarted, Round: round + 1}) {
			return result, ctx.Err()
		}

		for _, spec := range roles {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			// Deliver any artifacts that finished while earlier turns ran.
			pending -= e.drainArtifacts(artifactCh, result, emit)

			if !emit(Event{Type: EventAgentTurnStarted, Role: spec.ID}) {
				return result, ctx.Err()
			}

			utt, turnErr := e.invoker.Invoke(ctx, spec, req.Idea, result.Transcript)
			if turnErr != nil {
				// Later turns depend on earlier transcript content, so a
				// failed speaker aborts the remainder instead of being
				// skipped.
				return result, turnErr
			}
			result.Transcript = append(result.Transcript, utt)
			metric.AgentTurns.Inc()

			if !emit(Event{Type: EventAgentTurnCompleted, Role: utt.Speaker, Text: utt.Text, Payload: utt.Payload}) {
				return result, ctx.Err()
			}

			if utt.Payload == nil {
				continue
			}
			if utt.Payload.IsQuestion() {
				if !emit(Event{Type: EventClarifyingQuestion, Role: utt.Speaker, Question: utt.Payload.Question}) {
					return result, ctx.Err()
				}
				continue
			}
			if e.artifacts != nil {
				pending++
				go e.produceArtifact(ctx, artifactCh, utt, req.Idea)
			}
		}
	}

	// All artifacts land before the moderator phase so the stream never
	// interleaves artifact updates with the summary.
	n, waitErr := e.awaitArtifacts(ctx, artifactCh, pending, result, emit)
	pending -= n
	if waitErr != nil {
		return result, waitErr
	}

	if !emit(Event{Type: EventModeratorStarted}) {
		return result, ctx.Err()
	}

	modUtt, modErr := e.invoker.InvokeModerator(ctx, req.Idea, result.Transcript)
	if modErr != nil {
		return result, modErr
	}
	result.Transcript = append(result.Transcript, modUtt)
	result.Summary = modUtt.Text

	if !emit(Event{Type: EventModeratorCompleted, Role: modUtt.Speaker, Text: modUtt.Text, Payload: modUtt.Payload}) {
		return result, ctx.Err()
	}

	return result, nil
}

// produceArtifact runs one mockup chain attempt off the run goroutine.
// The channel is buffered for the worst case, so the send never blocks.
func (e *Engine) produceArtifact(ctx context.Context, out chan<- artifactResult, utt Utterance, idea string) {
	art := e.artifacts.Produce(ctx, ArtifactRequest{
		RoleKind: string(utt.Payload.Kind),
		Idea:     idea,
		Context:  utt.Text,
		Details:  utt.Payload.Details(),
	})
	out <- artifactResult{role: utt.Speaker, artifact: art}
}

// drainArtifacts applies every already-finished artifact without blocking.
// Returns how many were applied.
func (e *Engine) drainArtifacts(ch <-chan artifactResult, result *Result, emit func(Event) bool) int {
	applied := 0
	for {
		select {
		case res := <-ch:
			e.applyArtifact(res, result, emit)
			applied++
		default:
			return applied
		}
	}
}

// awaitArtifacts blocks until all pending artifacts have landed or ctx ends.
func (e *Engine) awaitArtifacts(ctx context.Context, ch <-chan artifactResult, pending int, result *Result, emit func(Event) bool) (int, error) {
	applied := 0
	for applied < pending {
		select {
		case <-ctx.Done():
			return applied, ctx.Err()
		case res := <-ch:
			e.applyArtifact(res, result, emit)
			applied++
		}
	}
	return applied, nil
}

// applyArtifact backfills the artifact URL onto the most recent utterance of
// the speaking role (a role may speak again in a later round) and emits the
// artifact event. A URL is set at most once.
func (e *Engine) applyArtifact(res artifactResult, result *Result, emit func(Event) bool) {
	for i := len(result.Transcript) - 1; i >= 0; i-- {
		u := &result.Transcript[i]
		if u.Speaker != res.role {
			continue
		}
		if u.ArtifactURL != "" {
			e.logger.Warn("Artifact already set, ignoring", "role", res.role)
			return
		}
		u.ArtifactURL = res.artifact.URL
		emit(Event{
			Type:     EventArtifactReady,
			Role:     res.role,
			URL:      res.artifact.URL,
			Provider: res.artifact.Provider,
		})
		return
	}
	e.logger.Warn("No utterance found for artifact", "role", res.role)
}

// ApplyDefaults fills a fallback round count into a request that omitted it.
func (r *Request) ApplyDefaults(defaultRounds int) {
	if r.Rounds == 0 {
		r.Rounds = defaultRounds
	}
}
