// Package ingest orchestrates the poll cycle: fetch feed items, decode
// them, suppress records the sink already holds, enrich the remainder and
// hand them to the sink. Every failure is contained at the record or
// sub-step that produced it; nothing below the loop terminates it.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/zimpower/trade-logger/internal/enrich"
	"github.com/zimpower/trade-logger/internal/extract"
	"github.com/zimpower/trade-logger/internal/feed"
	"github.com/zimpower/trade-logger/internal/models"
	"github.com/zimpower/trade-logger/internal/storage"
)

// DefaultPollInterval matches the feed's publication cadence.
const DefaultPollInterval = 30 * time.Second

// Publisher forwards newly ingested records downstream. Optional.
type Publisher interface {
	Publish(ctx context.Context, rec *models.TradeRecord) error
}

// Config holds loop settings.
type Config struct {
	// PollInterval is the idle time between cycles.
	PollInterval time.Duration
}

// Stats tallies one poll cycle.
type Stats struct {
	Fetched   int
	New       int
	Duplicate int
	Failed    int
}

// Loop runs the ingestion pipeline. Cycles are independent; a total feed
// failure yields zero items for that cycle and the loop continues on its
// next tick.
type Loop struct {
	feed      feed.Fetcher
	extractor *extract.Extractor
	enricher  *enrich.Enricher
	store     storage.TradeStore
	publisher Publisher
	cfg       Config
	logger    *slog.Logger
}

// NewLoop creates an ingestion loop. publisher may be nil to disable
// downstream publishing.
func NewLoop(
	f feed.Fetcher,
	extractor *extract.Extractor,
	enricher *enrich.Enricher,
	store storage.TradeStore,
	publisher Publisher,
	cfg Config,
	logger *slog.Logger,
) *Loop {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		feed:      f,
		extractor: extractor,
		enricher:  enricher,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run polls until the context is cancelled. The first cycle starts
// immediately.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("Starting ingestion loop", "pollInterval", l.cfg.PollInterval)

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()

	for {
		l.RunOnce(ctx)

		select {
		case <-ctx.Done():
			l.logger.Info("Ingestion loop stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes one poll cycle and returns its tally.
func (l *Loop) RunOnce(ctx context.Context) Stats {
	var stats Stats

	items, err := l.feed.Fetch(ctx)
	if err != nil {
		l.logger.Error("Feed fetch failed, skipping cycle", "error", err)
		return stats
	}
	stats.Fetched = len(items)
	if len(items) == 0 {
		l.logger.Info("No feed items this cycle")
		return stats
	}

	for _, item := range items {
		rec, err := l.extractor.Extract(item)
		if err != nil {
			stats.Failed++
			l.logger.Warn("Skipping undecodable item", "guid", item.GUID, "error", err)
			continue
		}

		exists, err := l.store.Exists(ctx, rec.DisseminationID)
		if err != nil {
			stats.Failed++
			l.logger.Error("Existence check failed, skipping record",
				"id", rec.DisseminationID, "error", err)
			continue
		}
		if exists {
			stats.Duplicate++
			l.logger.Debug("Ignoring trade already in store", "id", rec.DisseminationID)
			continue
		}

		l.enricher.Enrich(ctx, rec)

		if err := l.store.Insert(ctx, rec); err != nil {
			stats.Failed++
			l.logger.Error("Insert failed, skipping record",
				"id", rec.DisseminationID, "error", err)
			continue
		}
		stats.New++

		if l.publisher != nil {
			if err := l.publisher.Publish(ctx, rec); err != nil {
				l.logger.Warn("Publish failed", "id", rec.DisseminationID, "error", err)
			}
		}
	}

	l.logger.Info("Cycle complete",
		"fetched", stats.Fetched,
		"new", stats.New,
		"duplicate", stats.Duplicate,
		"failed", stats.Failed)
	return stats
}
