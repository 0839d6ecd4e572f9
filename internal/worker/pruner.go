package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/bizsite-bff/internal/domains/deliveries"
	"github.com/sangkips/bizsite-bff/internal/metrics"
)

const (
	pruneTimeout         = 30 * time.Second
	defaultPruneInterval = time.Hour
)

// Pruner periodically deletes delivery records older than the retention window
type Pruner struct {
	repo      deliveries.Repository
	retention time.Duration
	interval  time.Duration
	stopChan  chan struct{}
	now       func() time.Time
}

// NewPruner falls back to an hourly interval when interval is not positive.
func NewPruner(repo deliveries.Repository, retention, interval time.Duration) *Pruner {
	if interval <= 0 {
		interval = defaultPruneInterval
	}
	return &Pruner{
		repo:      repo,
		retention: retention,
		interval:  interval,
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

// Start blocks until Stop is called
func (p *Pruner) Start() {
	log.Info().Msgf("starting delivery pruner with interval %v, retention %v", p.interval, p.retention)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.prune()
		case <-p.stopChan:
			log.Info().Msg("stopping delivery pruner")
			return
		}
	}
}

func (p *Pruner) Stop() {
	close(p.stopChan)
}

func (p *Pruner) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	cutoff := p.now().Add(-p.retention).UTC()
	n, err := p.repo.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("failed to prune deliveries")
		return
	}

	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("pruned old deliveries")
		metrics.DeliveriesPruned.Add(float64(n))
	}
}
