package debate

// EventType tags the stream event variants.
type EventType string

const (
	EventRoundStarted       EventType = "round_started"
	EventAgentTurnStarted   EventType = "agent_turn_started"
	EventAgentTurnCompleted EventType = "agent_turn_completed"
	EventArtifactReady      EventType = "artifact_ready"
	EventClarifyingQuestion EventType = "clarifying_question"
	EventModeratorStarted   EventType = "moderator_started"
	EventModeratorCompleted EventType = "moderator_completed"
	EventDone               EventType = "done"
	EventError              EventType = "error"
)

// Event is one progress update of a run. Events are produced in strict
// chronological order matching execution order; consumers render a running
// transcript, so no reordering or coalescing is permitted. Exactly one
// terminal event (done or error) is emitted per run, except on cancellation,
// where the stream closes without one.
type Event struct {
	Type EventType `json:"type"`
	// Round is the 1-based round number (round_started only).
	Round int `json:"round,omitempty"`
	// Role identifies the speaking agent for turn-scoped events.
	Role string `json:"role,omitempty"`
	// Text carries the narrative reply (agent_turn_completed,
	// moderator_completed).
	Text string `json:"text,omitempty"`
	// Payload carries the structured block, when present.
	Payload *Payload `json:"payload,omitempty"`
	// URL and Provider describe a ready artifact (artifact_ready).
	URL      string `json:"url,omitempty"`
	Provider string `json:"provider,omitempty"`
	// Question carries a clarifying question (clarifying_question).
	Question string `json:"question,omitempty"`
	// Error carries the failure message (error).
	Error string `json:"error,omitempty"`
}
