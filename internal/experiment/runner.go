// Package experiment orchestrates a set of scenarios — one baseline plus
// zero or more variants — runs them concurrently, and composes the final
// analytics document. See design doc Section 4.9.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nyxgrid/cityflux/internal/config"
	"github.com/nyxgrid/cityflux/internal/decider"
	"github.com/nyxgrid/cityflux/internal/entropy"
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/materializer"
	"github.com/nyxgrid/cityflux/internal/metrics"
	"github.com/nyxgrid/cityflux/internal/needs"
	"github.com/nyxgrid/cityflux/internal/runlog"
	"github.com/nyxgrid/cityflux/internal/scenario"
	"github.com/nyxgrid/cityflux/internal/simulation"
)

// ScenarioSpec pairs a scenario diff with the flag marking the baseline.
type ScenarioSpec struct {
	Scenario   *scenario.Scenario
	IsBaseline bool
}

// Runner orchestrates a full experiment: one run per ScenarioSpec.
type Runner struct {
	Baseline *gridasset.Grid
	Specs    []ScenarioSpec
	Config   config.Experiment
	Decider  decider.Decider
	Purchase *entropy.Client
	RunLogDir string // directory to write per-scenario run logs into; empty disables logging
}

// Result is one scenario's outcome: its aggregator plus enough identity to
// assign it an env slot. internal/publisher reuses this type when it
// rebuilds ephemeral aggregators from run logs.
type Result struct {
	ScenarioID string
	IsBaseline bool
	Aggregator *metrics.Aggregator
	RunID      string
}

// Run materializes, simulates, and summarizes every scenario, then composes
// the final analytics document.
func (r *Runner) Run(ctx context.Context) (*Analytics, error) {
	results := make([]Result, len(r.Specs))

	workerLimit := r.Config.WorkerLimit
	if workerLimit <= 0 {
		workerLimit = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit)

	slog.Info("experiment: starting run",
		"scenarios", len(r.Specs),
		"agents_per_scenario", humanize.Comma(int64(r.Config.AgentCount)),
		"worker_limit", workerLimit,
	)

	for i, spec := range r.Specs {
		i, spec := i, spec
		g.Go(func() error {
			res, err := r.runOne(gctx, spec)
			if err != nil {
				return fmt.Errorf("experiment: scenario %q: %w", spec.Scenario.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("experiment: run complete", "scenarios", len(results))
	return BuildAnalytics(results), nil
}

func (r *Runner) runOne(ctx context.Context, spec ScenarioSpec) (Result, error) {
	grid, err := materializer.Materialize(r.Baseline, spec.Scenario)
	if err != nil {
		return Result{}, fmt.Errorf("materialize: %w", err)
	}

	biases := needs.BuildBiasesForScenario(spec.Scenario)
	agg := metrics.New(spec.Scenario.ID, spec.Scenario.ID, r.Config.Bins, r.Config.DurationS)

	var log *runlog.Writer
	if r.RunLogDir != "" {
		w, err := runlog.NewWriter(fmt.Sprintf("%s/%s.jsonl", r.RunLogDir, spec.Scenario.ID))
		if err != nil {
			return Result{}, err
		}
		log = w
		defer log.Close()
	}

	sim := simulation.New(simulation.Params{
		Grid:            grid,
		Scenario:        spec.Scenario,
		Biases:          biases,
		AgentCount:      r.Config.AgentCount,
		Seed:            r.Config.Seed,
		DurationS:       r.Config.DurationS,
		TickSeconds:     0.5,
		OracleBatchSize: r.Config.OracleBatchSize,
		Decider:         r.Decider,
		Aggregator:      agg,
		Log:             log,
		PurchaseSource:  r.Purchase,
	})

	if err := sim.Run(ctx); err != nil {
		return Result{}, fmt.Errorf("simulate: %w", err)
	}

	return Result{
		ScenarioID: spec.Scenario.ID,
		IsBaseline: spec.IsBaseline,
		Aggregator: agg,
		RunID:      "run_" + uuid.NewString(),
	}, nil
}
