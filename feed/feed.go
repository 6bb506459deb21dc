// Package feed mirrors debate run events onto NATS so external consumers
// (dashboards, recorders) can follow runs without holding an HTTP stream
// open. The mirror is best effort: publish failures are logged and never
// affect the run.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/moot/debate"
)

// Mirror publishes run events to per-run subjects. A nil *Mirror is a valid
// no-op, so callers don't branch on whether NATS is configured.
type Mirror struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

// Connect dials NATS and returns a Mirror publishing under
// <prefix>.<run_id>.events.
func Connect(url, prefix string, logger *slog.Logger) (*Mirror, error) {
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(url,
		nats.Name("moot-feed"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	logger.Info("Event feed connected", "url", url, "prefix", prefix)
	return &Mirror{nc: nc, prefix: prefix, logger: logger}, nil
}

// Publish mirrors one event. Failures are logged, not returned: the feed
// never gates the run or the HTTP stream.
func (m *Mirror) Publish(runID string, ev debate.Event) {
	if m == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		m.logger.Warn("Dropping unmarshalable event", "run_id", runID, "error", err)
		return
	}

	subject := fmt.Sprintf("%s.%s.events", m.prefix, runID)
	if err := m.nc.Publish(subject, data); err != nil {
		m.logger.Warn("Event feed publish failed", "subject", subject, "error", err)
	}
}

// Close drains and closes the connection.
func (m *Mirror) Close() {
	if m == nil || m.nc == nil {
		return
	}
	if err := m.nc.Drain(); err != nil {
		m.nc.Close()
	}
}
