// File: internal/stats/publisher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stats

import (
	"context"
	"time"

	"github.com/momentics/hioload-fix/api"
	"github.com/rs/zerolog"
)

// Publisher samples a StatsSource on a ticker and records each snapshot.
type Publisher struct {
	node     string
	src      api.StatsSource
	store    Store
	interval time.Duration
	log      zerolog.Logger
}

// NewPublisher creates a publisher. interval <= 0 means one second.
func NewPublisher(node string, src api.StatsSource, store Store, interval time.Duration, log zerolog.Logger) *Publisher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Publisher{node: node, src: src, store: store, interval: interval, log: log}
}

// Run publishes until ctx is cancelled, then records a final snapshot.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), p.interval)
			p.Publish(final)
			cancel()
			return nil
		case <-ticker.C:
			p.Publish(ctx)
		}
	}
}

// Publish records one snapshot now. Errors are logged and returned.
func (p *Publisher) Publish(ctx context.Context) error {
	snap := Snapshot{Node: p.node, At: time.Now(), Stats: p.src.Stats()}
	if err := p.store.Record(ctx, snap); err != nil {
		p.log.Warn().Err(err).Str("node", p.node).Msg("stats publish failed")
		return err
	}
	return nil
}
