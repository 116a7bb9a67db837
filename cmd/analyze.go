// =============================================================================
// Retail Analytics - Analyze Command
// =============================================================================
//
// The 'analyze' command runs the full pipeline for one input file.
//
// COMMAND USAGE:
//   retail-analytics analyze [flags]
//
// FLAGS:
//   --input      : Path to the raw transaction file (.csv or .xlsx)
//   --out        : Output directory for tables and the summary log
//   --figures    : Directory for chart images (default <out>/figures)
//   --top        : Ranking depth for the top-N summaries
//   --no-charts  : Skip chart rendering
//   --dry-run    : Compute everything, write nothing
//
// Flags override the corresponding config-file values. A fatal error exits
// non-zero with a message naming the failing stage and file path.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/retail-analytics/internal/analyzer"
	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/types"
)

var (
	inputPath  string
	outputDir  string
	figuresDir string
	topN       int
	noCharts   bool
	dryRun     bool
)

// analyzeCmd represents the 'analyze' command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Clean the transaction data and write summary tables and charts",
	Long: `The analyze command loads the raw transaction file, cleans it, aggregates
revenue by month, country, and product, and writes the results.

Outputs (overwritten each run):
  cleaned_transactions.csv     the cleaned table
  monthly_revenue.csv          revenue per calendar month, chronological
  top_countries.csv            top-N countries by revenue
  top_products.csv             top-N products by revenue
  figures/*.png                one chart per summary table
  analysis_summary_<id>.log    row counts and drop accounting

Dropped rows are never an error: each exclusion is counted by reason
(missing critical value, cancelled invoice, non-positive quantity/price)
and reported in the run summary. Chart failures are logged and do not
fail the run; the tables are the primary artifact.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&inputPath, "input", "", "Path to the raw transaction file (.csv or .xlsx)")
	analyzeCmd.Flags().StringVar(&outputDir, "out", "", "Output directory for tables and the summary log")
	analyzeCmd.Flags().StringVar(&figuresDir, "figures", "", "Directory for chart images (default <out>/figures)")
	analyzeCmd.Flags().IntVar(&topN, "top", 0, "Ranking depth for the top-N summaries (default 10)")
	analyzeCmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip chart rendering")
	analyzeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute everything, write nothing")
}

// runAnalyze loads the configuration, applies flag overrides, and executes
// one pipeline run.
func runAnalyze() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Flag overrides.
	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
		if figuresDir == "" {
			cfg.FiguresDir = outputDir + "/figures"
		}
	}
	if figuresDir != "" {
		cfg.FiguresDir = figuresDir
	}
	if topN > 0 {
		cfg.TopN = topN
	}
	if noCharts {
		disabled := false
		cfg.ChartsEnabled = &disabled
	}

	if cfg.InputPath == "" {
		return fmt.Errorf("no input file: set input_path in %s or pass --input", cfgFile)
	}

	a := analyzer.New(cfg, newLogger(cfg))
	a.DryRun = dryRun

	result := a.Run()
	if result.Error != nil {
		return fmt.Errorf("%s", result.FormatStage())
	}

	printRunSummary(result)
	return nil
}

// printRunSummary prints the operator-facing summary: row accounting and the
// head of each summary table.
func printRunSummary(result analyzer.Result) {
	fmt.Println("=== Analysis Complete ===")
	fmt.Printf("Run ID:        %s\n", result.RunID)
	fmt.Printf("Rows (raw):    %d\n", result.Stats.RowsLoaded)
	fmt.Printf("Rows (clean):  %d\n", result.Stats.RowsCleaned)
	fmt.Printf("Rows dropped:  %d (missing: %d, cancelled: %d, non-positive: %d)\n",
		result.Stats.Drops.Total(),
		result.Stats.Drops.MissingCritical,
		result.Stats.Drops.Cancelled,
		result.Stats.Drops.NonPositive)
	fmt.Printf("Elapsed:       %s\n", result.Stats.Elapsed)

	printSummaryHead("Monthly revenue", result.Monthly, 5)
	printSummaryHead("Top countries", result.Countries, len(result.Countries.Rows))
	printSummaryHead("Top products", result.Products, len(result.Products.Rows))

	if len(result.Stats.ChartErrors) > 0 {
		fmt.Printf("\n%d chart(s) failed to render (see log); data files were written.\n",
			len(result.Stats.ChartErrors))
	}
}

// printSummaryHead prints the first n rows of a summary table.
func printSummaryHead(title string, summary types.Summary, n int) {
	fmt.Printf("\n%s:\n", title)
	if len(summary.Rows) == 0 {
		fmt.Println("  (empty)")
		return
	}
	if n > len(summary.Rows) {
		n = len(summary.Rows)
	}
	width := len(summary.KeyName)
	for _, row := range summary.Rows[:n] {
		if len(row.Key) > width {
			width = len(row.Key)
		}
	}
	for _, row := range summary.Rows[:n] {
		fmt.Printf("  %s  %12.2f\n", pad(row.Key, width), row.Revenue)
	}
	if n < len(summary.Rows) {
		fmt.Printf("  ... %d more\n", len(summary.Rows)-n)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
