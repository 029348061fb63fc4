package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store is the subset of a cache backend the pruner maintains.
type Store interface {
	// Prune deletes entries created before cutoff, returning how many
	// were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// PruneOldest deletes the n oldest entries.
	PruneOldest(ctx context.Context, n int64) (int64, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}

// Config contains configuration for the retention pruner.
type Config struct {
	// MaxAge is how old an entry may grow before pruning removes it.
	// 0 means entries are never pruned by age.
	MaxAge time.Duration

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// MaxEntries is the maximum number of entries to keep.
	// 0 means unlimited.
	MaxEntries int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAge:        24 * time.Hour,
		PruneSchedule: "0 3 * * *",
		MaxEntries:    0,
	}
}

// Pruner enforces retention limits on a cache store.
type Pruner struct {
	store     Store
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a retention pruner over the given store.
func NewPruner(store Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "cache.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune runs one retention cycle in two phases:
//  1. Age-based: delete entries older than MaxAge
//  2. Count-based: if total entries > MaxEntries, delete oldest
//
// Both can apply in one cycle. Returns the total number of entries
// deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.MaxAge > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned cache entries by age",
			"deleted_count", deleted,
			"max_age", p.config.MaxAge,
		)
	}

	if p.config.MaxEntries > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned cache entries by count",
			"deleted_count", deleted,
			"max_entries", p.config.MaxEntries,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no cache entries pruned",
			"max_age", p.config.MaxAge,
			"max_entries", p.config.MaxEntries,
		)
	} else {
		p.logger.Info("cache pruning completed",
			"total_deleted", totalDeleted,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes entries older than MaxAge.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-p.config.MaxAge)

	p.logger.Debug("pruning by age", "cutoff_time", cutoff)

	return p.store.Prune(ctx, cutoff)
}

// pruneByCount deletes the oldest entries when the total exceeds
// MaxEntries.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if count <= p.config.MaxEntries {
		p.logger.Debug("entry count within limit",
			"current", count,
			"max", p.config.MaxEntries,
		)
		return 0, nil
	}

	toDelete := count - p.config.MaxEntries
	p.logger.Info("entry count exceeds limit, pruning oldest",
		"current_count", count,
		"max_entries", p.config.MaxEntries,
		"to_delete", toDelete,
	)

	return p.store.PruneOldest(ctx, toDelete)
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
