// =============================================================================
// Retail Analytics - Root Command
// =============================================================================
//
// The root command carries the global flags shared by every subcommand:
//
//   rootCmd (retail-analytics)
//   ├── analyzeCmd (retail-analytics analyze)
//   └── versionCmd (retail-analytics version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/retail-analytics/internal/config"
)

// cfgFile holds the path to the configuration file, overridable with --config.
var cfgFile string

// verbose enables debug logging when set.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "retail-analytics",
	Short: "Retail Analytics - clean and summarize retail transaction data",
	Long: `Retail Analytics is a batch CLI that cleans a raw retail transaction
dataset and produces derived metrics, aggregate summary tables, and charts.

The pipeline runs in four stages: load the raw file (.csv or .xlsx), clean it
(drop rows with missing critical values, cancelled invoices, and non-positive
quantities or prices, then derive total price and year-month), aggregate
revenue by month, country, and product, and write the results as CSV tables
plus PNG charts.

Example Usage:
  retail-analytics analyze --input data/online_retail_II.csv
  retail-analytics analyze --input data.xlsx --out ./reports --top 5
  retail-analytics analyze --config ./my.yaml --dry-run`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// newLogger builds the run logger from the configured level; --verbose
// forces debug regardless of configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
