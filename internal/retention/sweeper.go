package retention

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"video-splitter/internal/metrics"
)

// Sweeper reclaims job output independent of any specific job: every
// top-level entry in the managed storage area older than the retention
// window is deleted, downloaded or not. Sweeps are idempotent; a pass
// over an already-clean area removes nothing. The sweeper shares only
// the filesystem with orchestrator runs, so the window must be chosen
// safely larger than any realistic job duration.
type Sweeper struct {
	root     string
	maxAge   time.Duration
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper constructs a sweeper over the given storage root.
// Non-positive window or interval fall back to one hour and thirty
// minutes respectively.
func NewSweeper(root string, maxAge, interval time.Duration, log zerolog.Logger) *Sweeper {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Sweeper{
		root:     root,
		maxAge:   maxAge,
		interval: interval,
		log:      log,
	}
}

// Sweep removes expired entries and reports how many were deleted.
// Individual removal failures are logged and skipped; a missing root
// means there is nothing to do.
func (s *Sweeper) Sweep(now time.Time) int {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("root", s.root).Msg("cannot scan storage area")
		}
		return 0
	}

	cutoff := now.Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("could not remove expired entry")
			continue
		}
		removed++
		s.log.Debug().Str("path", path).Msg("removed expired entry")
	}

	metrics.RecordSweep(removed)
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("retention sweep completed")
	}
	return removed
}

// Start runs periodic sweeps in a background goroutine until ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(time.Now())
			}
		}
	}()
}
