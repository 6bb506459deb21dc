// Package server exposes the debate engine over HTTP: a batch/streaming
// debate endpoint, a provider diagnostics report, health, and metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/moot/config"
	"github.com/c360studio/moot/debate"
	"github.com/c360studio/moot/feed"
	"github.com/c360studio/moot/metric"
)

// maxRequestBody bounds the debate request body.
const maxRequestBody = 64 * 1024

// Server wires HTTP handlers over the engine. The feed mirror may be nil.
type Server struct {
	cfg    *config.Config
	engine *debate.Engine
	mirror *feed.Mirror
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMirror tees stream events onto the NATS feed.
func WithMirror(m *feed.Mirror) Option {
	return func(s *Server) {
		s.mirror = m
	}
}

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server.
func New(cfg *config.Config, engine *debate.Engine, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debates", s.handleDebates)
	mux.HandleFunc("/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metric.Handler())
	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then drains with a
// short grace period.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// debateRequest is the POST /debates body.
type debateRequest struct {
	Idea   string `json:"idea"`
	Rounds int    `json:"rounds"`
	Stream bool   `json:"stream"`
}

func (s *Server) handleDebates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body debateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	req := debate.Request{Idea: body.Idea, Rounds: body.Rounds}
	req.ApplyDefaults(s.cfg.Debate.DefaultRounds)
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body.Stream {
		s.streamDebate(w, r, req)
		return
	}
	s.runDebate(w, r, req)
}

func (s *Server) runDebate(w http.ResponseWriter, r *http.Request, req debate.Request) {
	result, err := s.engine.Run(r.Context(), req)
	if err != nil {
		var transcript []debate.Utterance
		if result != nil {
			transcript = result.Transcript
		}
		s.logger.Error("Debate run failed", "error", err)
		s.writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":      err.Error(),
			"transcript": transcript,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// streamDebate delivers run events as SSE: one "data: <json>" frame per
// event, a literal "data: [DONE]" sentinel after the terminal done event,
// and closure without sentinel after an error frame or cancellation.
func (s *Server) streamDebate(w http.ResponseWriter, r *http.Request, req debate.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, err := s.engine.Stream(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	metric.StreamClients.Inc()
	defer metric.StreamClients.Dec()

	// One feed subject tags the whole connection; events themselves don't
	// carry a run ID.
	runID := uuid.New().String()
	finished := false

	for ev := range events {
		s.mirror.Publish(runID, ev)

		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Warn("Dropping unmarshalable event", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			s.logger.Debug("Stream client disconnected", "error", err)
			return
		}
		flusher.Flush()

		if ev.Type == debate.EventDone {
			finished = true
		}
	}

	if finished {
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}

// Diagnostics reports which external providers are usable without leaking
// credentials.
type Diagnostics struct {
	LLM struct {
		Provider   string `json:"provider"`
		Endpoint   string `json:"endpoint,omitempty"`
		KeyPreview string `json:"key_preview"`
		AgentModel string `json:"agent_model"`
	} `json:"llm"`
	Replicate struct {
		Configured   bool   `json:"configured"`
		TokenPreview string `json:"token_preview,omitempty"`
		Version      string `json:"version,omitempty"`
	} `json:"replicate"`
	HuggingFace struct {
		Configured   bool   `json:"configured"`
		TokenPreview string `json:"token_preview,omitempty"`
		Model        string `json:"model,omitempty"`
	} `json:"huggingface"`
	Feed struct {
		Enabled bool   `json:"enabled"`
		URL     string `json:"url,omitempty"`
	} `json:"feed"`
}

// BuildDiagnostics assembles the provider report for a config. Shared with
// the diagnose CLI command.
func BuildDiagnostics(cfg *config.Config) Diagnostics {
	var d Diagnostics

	d.LLM.Provider = cfg.LLM.Provider
	d.LLM.Endpoint = cfg.LLM.Endpoint
	d.LLM.KeyPreview = previewSecret(cfg.LLM.APIKey)
	d.LLM.AgentModel = cfg.LLM.AgentModel

	d.Replicate.Configured = cfg.Mockup.Replicate.Token != "" && cfg.Mockup.Replicate.Version != ""
	d.Replicate.TokenPreview = previewSecret(cfg.Mockup.Replicate.Token)
	d.Replicate.Version = cfg.Mockup.Replicate.Version

	d.HuggingFace.Configured = cfg.Mockup.HuggingFace.Token != "" && cfg.Mockup.HuggingFace.Model != ""
	d.HuggingFace.TokenPreview = previewSecret(cfg.Mockup.HuggingFace.Token)
	d.HuggingFace.Model = cfg.Mockup.HuggingFace.Model

	d.Feed.Enabled = cfg.NATS.URL != ""
	d.Feed.URL = cfg.NATS.URL

	return d
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, BuildDiagnostics(s.cfg))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// previewSecret shows enough of a credential to confirm which one is loaded.
func previewSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-2:]
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Failed to write JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
