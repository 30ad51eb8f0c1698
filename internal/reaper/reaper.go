// internal/reaper/reaper.go
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github-app-ingestor/internal/database"
)

// Reaper periodically fails ingestions nobody will finish and prunes the webhook delivery log.
// Cutoffs are computed by the database against the same clock that stamps the rows.
type Reaper struct {
	store             database.Querier
	logger            *slog.Logger
	interval          time.Duration
	staleAfter        time.Duration
	deliveryRetention time.Duration
}

// NewReaper creates a Reaper. A processing row is stale once it has been running longer
// than ingestionTimeout plus grace.
func NewReaper(store database.Querier, logger *slog.Logger, interval, ingestionTimeout, grace, deliveryRetention time.Duration) *Reaper {
	return &Reaper{
		store:             store,
		logger:            logger,
		interval:          interval,
		staleAfter:        ingestionTimeout + grace,
		deliveryRetention: deliveryRetention,
	}
}

// Start runs sweeps until ctx is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	r.logger.Info("Starting reaper", "interval", r.interval.String(), "stale_after", r.staleAfter.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runSweep(ctx) // Initial sweep

	for {
		select {
		case <-ticker.C:
			r.runSweep(ctx)
		case <-ctx.Done():
			r.logger.Info("Reaper shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (r *Reaper) runSweep(ctx context.Context) {
	if err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
		r.logger.Error("Reaper sweep failed", "error", err)
	}
}

// Sweep runs both cleanup passes once.
func (r *Reaper) Sweep(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.failStaleIngestions(gCtx) })
	g.Go(func() error { return r.pruneDeliveries(gCtx) })
	return g.Wait()
}

// AbandonedMessage is the error recorded on an ingestion the reaper gives up on.
func (r *Reaper) AbandonedMessage() string {
	return fmt.Sprintf("ingestion abandoned: no result recorded within %s", r.staleAfter)
}

func (r *Reaper) failStaleIngestions(ctx context.Context) error {
	ids, err := r.store.FailStaleRepositoryIngestions(ctx, database.FailStaleRepositoryIngestionsParams{
		IngestionError:    r.AbandonedMessage(),
		StaleAfterSeconds: r.staleAfter.Seconds(),
	})
	if err != nil {
		return fmt.Errorf("failing stale ingestions: %w", err)
	}
	for _, id := range ids {
		r.logger.Warn("Marked abandoned ingestion as failed", "repo_id", id)
	}
	return nil
}

func (r *Reaper) pruneDeliveries(ctx context.Context) error {
	n, err := r.store.DeleteWebhookDeliveriesOlderThan(ctx, r.deliveryRetention.Seconds())
	if err != nil {
		return fmt.Errorf("pruning webhook deliveries: %w", err)
	}
	if n > 0 {
		r.logger.Debug("Pruned webhook deliveries", "count", n)
	}
	return nil
}
