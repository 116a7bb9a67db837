// =============================================================================
// Retail Analytics - Analyzer Module
// =============================================================================
//
// This module orchestrates the full pipeline for one input file:
//
//   1. Ensure the output and figures directories exist and are writable
//   2. Load the raw transaction table
//   3. Clean it (filters, derivations, drop accounting)
//   4. Aggregate into the three summary tables
//   5. Persist the cleaned table and summaries as CSV
//   6. Render the charts (best-effort)
//   7. Write the run summary log
//
// Each run is an atomic, non-interleaved transformation of one input into
// one set of outputs; no state survives between runs except the output files
// themselves, which are overwritten. Fatal errors carry the failing stage so
// the CLI can report it; chart failures never fail the run.
//
// =============================================================================

package analyzer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/retail-analytics/internal/aggregator"
	"github.com/ginjaninja78/retail-analytics/internal/cleaner"
	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/loader"
	"github.com/ginjaninja78/retail-analytics/internal/reporter"
	"github.com/ginjaninja78/retail-analytics/internal/types"
	"github.com/ginjaninja78/retail-analytics/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and the summary log name.
	RunID string

	// InputFile is the raw file that was processed.
	InputFile string

	// Success indicates the data files were all written (chart failures do
	// not clear it).
	Success bool

	// Stage names the pipeline stage that failed, when Error is set.
	Stage string

	// Error is the fatal error, nil on success.
	Error error

	// Stats contains the run's row and artifact accounting.
	Stats Stats

	// Monthly, Countries, Products are the computed summary tables, kept on
	// the result so the CLI can print their heads.
	Monthly   types.Summary
	Countries types.Summary
	Products  types.Summary
}

// Stats contains processing statistics for one run.
type Stats struct {
	// RowsLoaded is the number of data rows read from the input file.
	RowsLoaded int

	// RowsCleaned is the number of rows that survived every filter.
	RowsCleaned int

	// Drops tallies excluded rows by reason.
	Drops cleaner.DropStats

	// OutputFiles are the CSV artifacts written, in write order.
	OutputFiles []string

	// ChartFiles are the chart images written.
	ChartFiles []string

	// ChartErrors are the non-fatal chart render failures.
	ChartErrors []string

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer runs the cleaning and aggregation pipeline for one input file.
type Analyzer struct {
	cfg    *config.Config
	logger *slog.Logger

	// DryRun computes everything but writes no files.
	DryRun bool
}

// New creates an Analyzer for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Run executes the pipeline and returns the Result. Fatal errors are carried
// on the result rather than panicking so the CLI owns process exit.
func (a *Analyzer) Run() Result {
	start := time.Now()
	result := Result{
		RunID:     uuid.New().String()[:8],
		InputFile: a.cfg.InputPath,
	}
	log := a.logger.With("run_id", result.RunID)

	fail := func(stage string, err error) Result {
		result.Stage = stage
		result.Error = err
		result.Stats.Elapsed = time.Since(start)
		return result
	}

	// =========================================================================
	// STEP 1: DESTINATION SETUP
	// =========================================================================

	if !a.DryRun {
		fm := utils.NewFileManager(a.cfg.OutputDir, a.cfg.FiguresDir)
		if err := fm.EnsureDirectories(); err != nil {
			return fail("reporter", &reporter.ReportWriteError{
				Artifact: "output directories", Path: a.cfg.OutputDir, Err: err,
			})
		}
		if err := utils.CheckWritable(a.cfg.OutputDir); err != nil {
			return fail("reporter", &reporter.ReportWriteError{
				Artifact: "output directory", Path: a.cfg.OutputDir, Err: err,
			})
		}
	}

	// =========================================================================
	// STEP 2: LOAD
	// =========================================================================

	log.Info("loading transactions", "path", a.cfg.InputPath)

	raw, err := loader.Load(a.cfg.InputPath, a.cfg.CSV)
	if err != nil {
		return fail("loader", err)
	}
	result.Stats.RowsLoaded = len(raw.Records)
	log.Info("loaded raw table", "rows", len(raw.Records))

	// =========================================================================
	// STEP 3: CLEAN
	// =========================================================================

	cl := cleaner.New(a.cfg.CriticalFields)
	records, drops := cl.Clean(raw)
	result.Stats.RowsCleaned = len(records)
	result.Stats.Drops = drops
	log.Info("cleaned table",
		"rows", len(records),
		"dropped_missing", drops.MissingCritical,
		"dropped_cancelled", drops.Cancelled,
		"dropped_non_positive", drops.NonPositive)

	// =========================================================================
	// STEP 4: AGGREGATE
	// =========================================================================

	result.Monthly = aggregator.MonthlyRevenue(records)
	result.Countries = aggregator.TopCountries(records, a.cfg.TopN)
	result.Products = aggregator.TopProducts(records, a.cfg.TopN)
	log.Info("aggregated summaries",
		"months", len(result.Monthly.Rows),
		"countries", len(result.Countries.Rows),
		"products", len(result.Products.Rows))

	if a.DryRun {
		log.Info("dry run: skipping output")
		result.Success = true
		result.Stats.Elapsed = time.Since(start)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE TABLES
	// =========================================================================

	path, err := reporter.WriteCleaned(records, a.cfg.OutputDir)
	if err != nil {
		return fail("reporter", err)
	}
	result.Stats.OutputFiles = append(result.Stats.OutputFiles, path)

	summaries := []struct {
		summary types.Summary
		file    string
	}{
		{result.Monthly, reporter.MonthlyFile},
		{result.Countries, reporter.CountriesFile},
		{result.Products, reporter.ProductsFile},
	}
	for _, s := range summaries {
		path, err := reporter.WriteSummary(s.summary, a.cfg.OutputDir, s.file)
		if err != nil {
			return fail("reporter", err)
		}
		result.Stats.OutputFiles = append(result.Stats.OutputFiles, path)
	}
	log.Info("wrote data files", "count", len(result.Stats.OutputFiles), "dir", a.cfg.OutputDir)

	// =========================================================================
	// STEP 6: RENDER CHARTS (BEST-EFFORT)
	// =========================================================================

	if a.cfg.Charts() {
		charts, chartErrs := reporter.RenderCharts(
			result.Monthly, result.Countries, result.Products, a.cfg.FiguresDir)
		result.Stats.ChartFiles = charts
		for _, ce := range chartErrs {
			result.Stats.ChartErrors = append(result.Stats.ChartErrors, ce.Error())
			log.Warn("chart render failed", "chart", ce.Chart, "error", ce.Err)
		}
		log.Info("rendered charts", "count", len(charts), "failed", len(chartErrs))
	}

	// =========================================================================
	// STEP 7: RUN SUMMARY LOG
	// =========================================================================

	summaryPath, err := utils.WriteSummaryLog(utils.RunSummary{
		RunID:                  result.RunID,
		InputFile:              a.cfg.InputPath,
		StartTime:              start,
		Duration:               time.Since(start),
		RowsLoaded:             result.Stats.RowsLoaded,
		RowsCleaned:            result.Stats.RowsCleaned,
		DroppedMissingCritical: drops.MissingCritical,
		DroppedCancelled:       drops.Cancelled,
		DroppedNonPositive:     drops.NonPositive,
		OutputFiles:            result.Stats.OutputFiles,
		ChartFiles:             result.Stats.ChartFiles,
		ChartErrors:            result.Stats.ChartErrors,
	}, a.cfg.OutputDir)
	if err != nil {
		// The summary log is an audit convenience, not a primary artifact.
		log.Warn("could not write summary log", "error", err)
	} else {
		result.Stats.OutputFiles = append(result.Stats.OutputFiles, summaryPath)
	}

	result.Success = true
	result.Stats.Elapsed = time.Since(start)
	return result
}

// FormatStage renders a fatal result as the human-readable message the CLI
// prints before exiting non-zero.
func (r Result) FormatStage() string {
	if r.Error == nil {
		return ""
	}
	return fmt.Sprintf("%s stage failed for %s: %v", r.Stage, r.InputFile, r.Error)
}
