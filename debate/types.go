// Package debate implements the orchestration engine: a fixed registry of
// role-specialized agents takes turns across rounds reacting to a shared
// transcript, structured payloads embedded in replies are turned into visual
// artifacts, and a final moderator step synthesizes an action plan. Runs are
// ephemeral; nothing is persisted across requests.
package debate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input bounds. Validation happens before any external call is made.
const (
	MinIdeaLength = 10
	MinRounds     = 1
	MaxRounds     = 5
)

// Utterance is one completed turn in the transcript. The transcript is
// append-only; the sole later mutation is the one-time artifact URL backfill.
type Utterance struct {
	// Speaker is the role identifier of the agent that produced the turn.
	Speaker string `json:"role"`
	// Text is the narrative part of the reply, with the structured block
	// already stripped.
	Text string `json:"text"`
	// Payload is the structured block, when the reply carried a parseable one.
	Payload *Payload `json:"payload,omitempty"`
	// ArtifactURL is filled in after the turn completes, if the payload
	// produced an artifact. Set at most once.
	ArtifactURL string `json:"artifact_url,omitempty"`
}

// Request describes one debate run.
type Request struct {
	// Idea is the product idea under discussion.
	Idea string `json:"idea"`
	// Rounds is how many full passes over the registry to run (1-5).
	Rounds int `json:"rounds"`
}

// Validate rejects malformed input. Errors are ValidationError so transport
// layers can distinguish client mistakes from run-time failures.
func (r *Request) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Idea)) < MinIdeaLength {
		return &ValidationError{msg: fmt.Sprintf("idea must be at least %d characters", MinIdeaLength)}
	}
	if r.Rounds < MinRounds || r.Rounds > MaxRounds {
		return &ValidationError{msg: fmt.Sprintf("rounds must be between %d and %d", MinRounds, MaxRounds)}
	}
	return nil
}

// Result is the outcome of a completed (or partially completed) run.
// On failure the transcript holds whatever turns finished before the error.
type Result struct {
	RunID      string      `json:"run_id"`
	Transcript []Utterance `json:"transcript"`
	// Summary is the moderator's synthesized action plan. Empty if the run
	// failed before the moderator phase.
	Summary string `json:"summary"`
}

// ValidationError marks client-input problems, reported before any external
// call is made.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidationError reports whether err is a client-input error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
