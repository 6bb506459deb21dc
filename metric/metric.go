// Package metric holds the Prometheus collectors for the debate engine.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DebateRuns counts finished runs by terminal status
	// (completed, failed, cancelled).
	DebateRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moot_debate_runs_total",
		Help: "Debate runs by terminal status.",
	}, []string{"status"})

	// DebateDuration observes full-run wall time.
	DebateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "moot_debate_duration_seconds",
		Help:    "Wall time of a full debate run.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// AgentTurns counts completed agent turns across all runs.
	AgentTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moot_agent_turns_total",
		Help: "Completed agent turns.",
	})

	// LLMCalls counts completion requests by provider and outcome
	// (success, transient_error, fatal_error).
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moot_llm_calls_total",
		Help: "Completion requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	// MockupAttempts counts image-provider attempts by provider and outcome.
	MockupAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moot_mockup_attempts_total",
		Help: "Mockup provider attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	// StreamClients tracks currently connected streaming consumers.
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moot_stream_clients",
		Help: "Currently connected streaming consumers.",
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
