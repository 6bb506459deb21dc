package debate

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// PayloadMarker separates narrative prose from the appended structured block.
// Agents are instructed to emit prose, then the marker, then a JSON object;
// this is the full extent of the protocol over the unstructured channel, and
// all marker-sensitive logic lives here.
const PayloadMarker = "MOCKUP_DATA:"

// ParsedReply is a raw model reply split into narrative text and an optional
// structured payload.
type ParsedReply struct {
	Text    string
	Payload *Payload
}

// ParseReply splits a raw reply at the FIRST marker occurrence. A missing
// marker is the normal payload-less case, not an error. A malformed payload
// is repaired once (models truncate output at token limits, leaving an
// unterminated object) and abandoned if the repair fails; a parse failure
// never propagates to the caller.
func ParseReply(raw string, logger *slog.Logger) ParsedReply {
	if logger == nil {
		logger = slog.Default()
	}

	idx := strings.Index(raw, PayloadMarker)
	if idx < 0 {
		return ParsedReply{Text: strings.TrimSpace(raw)}
	}

	text := strings.TrimSpace(raw[:idx])
	candidate := strings.TrimSpace(raw[idx+len(PayloadMarker):])

	if payload := parsePayload(candidate); payload != nil {
		return ParsedReply{Text: text, Payload: payload}
	}

	// Repair heuristic: truncate at the last closing brace and retry once.
	// This recovers the common case of one trailing field getting cut off,
	// without attempting a full JSON-repair parser.
	if last := strings.LastIndexByte(candidate, '}'); last >= 0 {
		if payload := parsePayload(candidate[:last+1]); payload != nil {
			logger.Debug("Recovered truncated payload", "kind", payload.Kind)
			return ParsedReply{Text: text, Payload: payload}
		}
	}

	logger.Warn("Discarding unparseable payload", "candidate_len", len(candidate))
	return ParsedReply{Text: text}
}

// parsePayload attempts a strict JSON-object parse of the candidate.
func parsePayload(candidate string) *Payload {
	var raw map[string]any
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil
	}
	if raw == nil {
		// "null" parses but is not an object
		return nil
	}
	return decodePayload(raw)
}
