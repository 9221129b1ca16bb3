package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nyxgrid/cityflux/internal/config"
	"github.com/nyxgrid/cityflux/internal/decider"
	"github.com/nyxgrid/cityflux/internal/entropy"
	"github.com/nyxgrid/cityflux/internal/experiment"
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/oracle"
	"github.com/nyxgrid/cityflux/internal/scenario"
)

// newRunCmd creates the "cityflux run" subcommand.
func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath, scenariosDir, outPath, runLogDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the baseline and every scenario under --scenarios, then publish analytics.json",
		RunE: func(_ *cobra.Command, _ []string) error {
			if cmdRun(configPath, scenariosDir, outPath, runLogDir, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to experiment.toml (defaults applied if omitted)")
	cmd.Flags().StringVar(&scenariosDir, "scenarios", "", "directory of scenario diff JSON files (optional)")
	cmd.Flags().StringVar(&outPath, "out", "analytics.json", "path to write the analytics document")
	cmd.Flags().StringVar(&runLogDir, "run-log-dir", "", "directory to write per-scenario run logs (optional)")
	return cmd
}

func cmdRun(configPath, scenariosDir, outPath, runLogDir string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cityflux run: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	baseline, err := gridasset.Load(cfg.BaselineDir)
	if err != nil {
		fmt.Fprintf(stderr, "cityflux run: loading baseline grid: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	specs := []experiment.ScenarioSpec{
		{Scenario: &scenario.Scenario{ID: "baseline", Title: "Baseline"}, IsBaseline: true},
	}
	if scenariosDir != "" {
		scenarios, err := loadScenarios(scenariosDir)
		if err != nil {
			fmt.Fprintf(stderr, "cityflux run: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		for _, sc := range scenarios {
			specs = append(specs, experiment.ScenarioSpec{Scenario: sc})
		}
	}

	oracleClient := oracle.NewClient(oracle.Config{
		Endpoint:  cfg.OracleEndpoint,
		APIKey:    cfg.OracleAPIKey(),
		Timeout:   time.Duration(cfg.OracleTimeoutS * float64(time.Second)),
		MaxPerMin: 20,
	})
	dec := decider.Decider(decider.DeterministicDecider{})
	if oracleClient.Enabled() {
		dec = decider.OracleDecider{
			Client:   oracleClient,
			Timeout:  time.Duration(cfg.OracleTimeoutS * float64(time.Second)),
			Fallback: decider.DeterministicDecider{},
		}
	}

	runner := &experiment.Runner{
		Baseline:  baseline,
		Specs:     specs,
		Config:    cfg,
		Decider:   dec,
		Purchase:  entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY")),
		RunLogDir: runLogDir,
	}

	fmt.Fprintf(stdout, "cityflux: running %s scenario(s), %s agents each...\n", //nolint:errcheck // best-effort stdout
		humanize.Comma(int64(len(specs))), humanize.Comma(int64(cfg.AgentCount)))

	analytics, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "cityflux run: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	if err := experiment.WriteAtomic(outPath, analytics); err != nil {
		fmt.Fprintf(stderr, "cityflux run: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	fmt.Fprintf(stdout, "cityflux: wrote %s\n", outPath) //nolint:errcheck // best-effort stdout
	return 0
}

// loadScenarios parses every *.json file in dir as a scenario diff.
func loadScenarios(dir string) ([]*scenario.Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}
	scenarios := make([]*scenario.Scenario, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sc, err := scenario.ParseAndValidate(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
