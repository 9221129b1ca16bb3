package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nyxgrid/cityflux/internal/config"
	"github.com/nyxgrid/cityflux/internal/publisher"
)

// newLiveCmd creates the "cityflux live" subcommand: it watches a run-log
// directory a concurrently running "cityflux run" is writing to, and keeps
// republishing analytics.json as new events land.
func newLiveCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath, runLogDir, outPath string
	var scenarioIDs []string
	var baselineID string

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Continuously republish analytics.json from a run-log directory until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			if cmdLive(configPath, runLogDir, outPath, baselineID, scenarioIDs, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to experiment.toml (defaults applied if omitted)")
	cmd.Flags().StringVar(&runLogDir, "run-log-dir", "", "directory containing per-scenario run logs (required)")
	cmd.Flags().StringVar(&outPath, "out", "analytics.json", "path to write the analytics document")
	cmd.Flags().StringVar(&baselineID, "baseline-id", "baseline", "scenario id of the baseline run")
	cmd.Flags().StringSliceVar(&scenarioIDs, "scenario-id", nil, "scenario ids to watch, in env2/env3/env4 order")
	_ = cmd.MarkFlagRequired("run-log-dir")
	return cmd
}

func cmdLive(configPath, runLogDir, outPath, baselineID string, scenarioIDs []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cityflux live: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	refs := []publisher.ScenarioRef{{ID: baselineID, IsBaseline: true}}
	for _, id := range scenarioIDs {
		refs = append(refs, publisher.ScenarioRef{ID: id})
	}

	w := &publisher.Watcher{
		RunLogDir:    runLogDir,
		OutPath:      outPath,
		Scenarios:    refs,
		Bins:         cfg.Bins,
		DurationS:    cfg.DurationS,
		AgentCount:   cfg.AgentCount,
		PollInterval: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(stdout, "cityflux live: shutting down...") //nolint:errcheck // best-effort stdout
		cancel()
	}()

	fmt.Fprintf(stdout, "cityflux live: watching %s, publishing to %s\n", runLogDir, outPath) //nolint:errcheck // best-effort stdout
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "cityflux live: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	return 0
}
