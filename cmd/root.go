package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reachset/occucheck/app"
	"github.com/reachset/occucheck/config"
	"github.com/reachset/occucheck/core/report"
	"github.com/reachset/occucheck/infra/logger"
)

var (
	cfgPath  string
	suppress bool
)

var rootCmd = &cobra.Command{
	Use:   "occucheck [occupancy-csv]",
	Short: "Check reachable-set occupancy solutions for collisions",
	Long: `Check reachable-set solution files (whole car occupancy polygons) against
their scenarios for collisions with obstacles and the road boundary.

With a source argument a single solution is checked and optionally rendered.
Without one, every *_occupancies.csv in the results directory is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().BoolVarP(&suppress, "suppress", "s", false, "suppress plot and animation output")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.StartMetrics(ctx)

	if len(args) == 1 {
		return runSingle(ctx, cmd, svc, cfg, args[0])
	}
	return runBatch(ctx, cmd, svc)
}

// loadConfig falls back to defaults when the default config file is absent;
// an explicitly given path must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(cfgPath)
}

func runSingle(ctx context.Context, cmd *cobra.Command, svc *app.Service, cfg *config.Config, src string) error {
	// A bare scenario name resolves to its solution in the results dir.
	if filepath.Ext(src) != ".csv" && filepath.Dir(src) == "." {
		src = filepath.Join(cfg.Paths.ResultsDir, src+"_occupancies.csv")
	}
	res := svc.CheckSource(ctx, src, !suppress)
	if res.Failed() {
		return fmt.Errorf("check %s: %s", res.Source, res.Error)
	}
	printResult(cmd, res)
	return nil
}

func runBatch(ctx context.Context, cmd *cobra.Command, svc *app.Service) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Collision Checker ------------------------------------------------")
	sum, err := svc.RunBatch(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd, sum)
	return nil
}

func printResult(cmd *cobra.Command, res report.Result) {
	out := cmd.OutOrStdout()
	if res.Collision() {
		fmt.Fprintf(out, "%s: collision (obstacles=%t boundary=%t)\n", res.ScenarioID, res.Obstacles, res.Boundary)
	} else {
		fmt.Fprintf(out, "%s: no collision detected\n", res.ScenarioID)
	}
}

func printSummary(cmd *cobra.Command, sum report.Summary) {
	out := cmd.OutOrStdout()
	first := true
	for _, r := range sum.Results {
		if r.Failed() || !r.Collision() {
			continue
		}
		if first {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Collisions occured in:")
			first = false
		}
		name := strings.TrimSuffix(filepath.Base(r.Source), "_occupancies.csv")
		fmt.Fprintf(out, "    %s\n", name)
	}
	if sum.Failures() > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Failed to check:")
		for _, r := range sum.Results {
			if r.Failed() {
				fmt.Fprintf(out, "    %s: %s\n", filepath.Base(r.Source), r.Error)
			}
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Number of collisions: %d of %d scenarios\n", sum.Collisions(), len(sum.Results))
}
