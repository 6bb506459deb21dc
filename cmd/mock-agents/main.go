// Package main implements a mock agent server for offline debate runs.
// It serves OpenAI-compatible /v1/chat/completions responses with canned,
// role-flavored replies, routing by matching the request's system prompt
// against the agent registry. Replies carry MOCKUP_DATA payloads so the full
// pipeline (parser, artifact chain, moderator) is exercised without a real
// LLM or API keys.
//
// Usage:
//
//	mock-agents -port 11434
//	moot run "a meal planning app" --config mock.yaml   # provider: ollama
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/c360studio/moot/agent"
)

// cannedReplies maps role ID to the scripted reply for that role's turns.
// Each carries a payload of the role's kind so mockup generation is covered.
var cannedReplies = map[string]string{
	"frontend": `From the frontend side this is very buildable: a component-driven UI with ` +
		`optimistic updates keeps it responsive. MOCKUP_DATA: {"type": "frontend", ` +
		`"technologies": ["React", "TypeScript", "Tailwind"], "timeline": "6 weeks", "complexity": "medium"}`,
	"backend": `The data model is small, so I would keep the backend boring: one service, one ` +
		`relational store, background jobs for anything slow. MOCKUP_DATA: {"type": "backend", ` +
		`"technologies": ["Go", "PostgreSQL", "NATS"], "timeline": "5 weeks", "complexity": "medium"}`,
	"design": `Two screens carry the whole experience; everything else is secondary navigation. ` +
		`MOCKUP_DATA: {"type": "design", "screens": [{"name": "Home", "components": ["header", ` +
		`"plan list", "add button"]}, {"name": "Detail", "components": ["summary", "actions"]}], "style": "minimal"}`,
	"pm": `I would cut this into three phases with a demo at each boundary. MOCKUP_DATA: ` +
		`{"type": "planning", "phases": [{"name": "Discovery", "duration": "1 week"}, ` +
		`{"name": "MVP build", "duration": "4 weeks"}, {"name": "Beta", "duration": "2 weeks"}], "budget": "modest"}`,
	"product": `The wedge feature is the weekly ritual; measure whether people come back for it. ` +
		`MOCKUP_DATA: {"type": "product", "features": ["weekly plan", "shared lists", "reminders"], ` +
		`"kpis": ["weekly retention", "plans completed"]}`,
	"business": `Freemium with a family tier is the obvious model; the free tier must stay genuinely useful. ` +
		`MOCKUP_DATA: {"type": "business", "revenue_model": "freemium", "market_size": "large", "roi": "18 months"}`,
	"moderator": `The debate converged: build a focused MVP around the weekly ritual, boring backend, ` +
		`two-screen UI, freemium later. MOCKUP_DATA: {"type": "summary", "decisions": ["MVP first", ` +
		`"Go backend", "two core screens"], "team": "3 engineers, 1 designer", ` +
		`"risks": ["retention unproven"], "nextSteps": ["prototype", "10 user interviews"]}`,
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type server struct {
	mu          sync.Mutex
	callsByRole map[string]int
	totalCalls  int
}

func newServer() *server {
	return &server{callsByRole: make(map[string]int)}
}

func main() {
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	s := newServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock agent server listening on %s (%d scripted roles)", addr, len(cannedReplies))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	role := roleForRequest(req)
	content, ok := cannedReplies[role]
	if !ok {
		content = "I have nothing scripted for this role, but the idea sounds workable."
	}

	s.mu.Lock()
	s.totalCalls++
	s.callsByRole[role]++
	call := s.totalCalls
	s.mu.Unlock()

	log.Printf("[call %d] role=%s model=%s messages=%d", call, role, req.Model, len(req.Messages))

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Message:      chatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// roleForRequest matches the system message against the registry's prompts.
func roleForRequest(req chatRequest) string {
	var system string
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			break
		}
	}
	if system == "" {
		return "unknown"
	}

	for _, spec := range agent.Roles() {
		if spec.SystemPrompt == system {
			return spec.ID
		}
	}
	if agent.Moderator().SystemPrompt == system {
		return agent.Moderator().ID
	}
	return "unknown"
}

// handleStats returns call counts for assertions in wiring tests.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	byRole := make(map[string]int, len(s.callsByRole))
	for role, n := range s.callsByRole {
		byRole[role] = n
	}
	total := s.totalCalls
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":   total,
		"calls_by_role": byRole,
	})
}
