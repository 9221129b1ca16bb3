// Package publisher watches a directory of run logs and periodically
// republishes the combined analytics document, so a dashboard polling
// analytics.json sees a running experiment update in near-real-time instead
// of only after every scenario finishes. Grounded on
// original_source/simulation/live_analytics.py's run_live loop, reworked
// around this module's runlog/metrics/experiment packages instead of
// replaying decisions.jsonl with synthetic random outcomes.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"github.com/nyxgrid/cityflux/internal/experiment"
	"github.com/nyxgrid/cityflux/internal/metrics"
	"github.com/nyxgrid/cityflux/internal/runlog"
)

// ScenarioRef is the authoritative identity+order for a scenario whose run
// log the Watcher replays. The Runner assigns env slots by input order, not
// by directory listing order, so the Watcher needs the same ordering it was
// given at experiment start.
type ScenarioRef struct {
	ID         string
	IsBaseline bool
}

// Watcher rebuilds the analytics document from the run logs under RunLogDir
// on a fixed tick, plus whenever fsnotify reports the directory changed.
type Watcher struct {
	RunLogDir    string
	OutPath      string
	Scenarios    []ScenarioRef
	Bins         int
	DurationS    float64
	AgentCount   int
	PollInterval time.Duration

	Logger *slog.Logger
}

const debounceDelay = 200 * time.Millisecond

// Run rebuilds and publishes analytics.json until ctx is canceled. A file
// watcher on RunLogDir triggers an extra rebuild on write events (debounced);
// a ticker provides a fallback so the publisher still advances if the
// watcher cannot be created (degraded to tick-only, matching the teacher's
// config-watcher fallback in cmd/gc).
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := w.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	if err := os.MkdirAll(w.RunLogDir, 0o755); err != nil {
		return fmt.Errorf("publisher: mkdir %s: %w", w.RunLogDir, err)
	}

	lockPath := w.OutPath + ".lock"
	fl := flock.New(lockPath)

	changed := make(chan struct{}, 1)
	cleanup := w.watchDir(logger, changed)
	defer cleanup()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := w.publishOnce(ctx, fl); err != nil {
		logger.Warn("publisher: initial publish failed", "err", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := w.publishOnce(ctx, fl); err != nil {
				logger.Warn("publisher: publish failed", "err", err)
			}
		case <-changed:
			if err := w.publishOnce(ctx, fl); err != nil {
				logger.Warn("publisher: publish failed", "err", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// watchDir starts an fsnotify watcher on RunLogDir and sends on changed after
// a debounce window on any event. Returns a cleanup func; if the watcher
// cannot be created, returns a no-op cleanup and logs the degradation —
// Run still advances on its ticker alone.
func (w *Watcher) watchDir(logger *slog.Logger, changed chan<- struct{}) func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("publisher: file watcher unavailable, falling back to tick-only", "err", err)
		return func() {}
	}
	if err := watcher.Add(w.RunLogDir); err != nil {
		logger.Warn("publisher: cannot watch run log dir", "dir", w.RunLogDir, "err", err)
	}
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	go func() {
		var debounce *time.Timer
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, notify)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return func() { _ = watcher.Close() }
}

// publishOnce replays every known scenario's run log into a fresh
// aggregator, composes the analytics document, and writes it atomically
// under an exclusive cross-process lock so a concurrent writer (another
// publisher writing to the same path) never interleaves. An experiment
// run's own WriteAtomic call does not take this lock.
func (w *Watcher) publishOnce(ctx context.Context, fl *flock.Flock) error {
	results := make([]experiment.Result, 0, len(w.Scenarios))
	for _, sc := range w.Scenarios {
		path := filepath.Join(w.RunLogDir, sc.ID+".jsonl")
		events, err := runlog.ReadAll(path)
		if err != nil {
			// Scenario hasn't started writing yet; skip it this round.
			continue
		}
		results = append(results, experiment.Result{
			ScenarioID: sc.ID,
			IsBaseline: sc.IsBaseline,
			Aggregator: w.replay(sc.ID, events),
		})
	}
	if len(results) == 0 {
		return nil
	}

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("publisher: acquire lock: %w", err)
	}
	if !locked {
		return nil // another publisher/writer holds it; try again next tick
	}
	defer fl.Unlock() //nolint:errcheck // best-effort unlock

	analytics := experiment.BuildAnalytics(results)
	if err := experiment.WriteAtomic(w.OutPath, analytics); err != nil {
		return fmt.Errorf("publisher: write analytics: %w", err)
	}
	return nil
}

// replay rebuilds an Aggregator by feeding it every event from a scenario's
// run log in order, mirroring what the live simulation would have recorded
// directly had the publisher observed it in-process.
func (w *Watcher) replay(scenarioID string, events []runlog.Event) *metrics.Aggregator {
	agg := metrics.New(scenarioID, scenarioID, w.Bins, w.DurationS)
	agg.StartRun(w.AgentCount)
	for _, ev := range events {
		switch ev.Kind {
		case runlog.EventDecision:
			agg.RecordDecision(ev.TS)
		case runlog.EventArrival:
			agg.RecordArrival(ev.Category, ev.PathLen, ev.TravelTime, ev.TS)
		case runlog.EventPurchase:
			agg.RecordPurchase(ev.Amount, ev.TS)
		}
	}
	return agg
}
