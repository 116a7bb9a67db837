// =============================================================================
// Retail Analytics - File Manager
// =============================================================================
//
// Utilities for managing the output side of a run: creating the output and
// figures directories, probing writability before any work is done, and
// writing the per-run summary log used for drop-accounting audits.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileManager handles directory setup for a run.
type FileManager struct {
	outputDir  string
	figuresDir string
}

// NewFileManager creates a FileManager for the given destination directories.
func NewFileManager(outputDir, figuresDir string) *FileManager {
	return &FileManager{
		outputDir:  outputDir,
		figuresDir: figuresDir,
	}
}

// EnsureDirectories creates the output and figures directories if they do
// not already exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.outputDir, fm.figuresDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CheckWritable probes a directory by creating and removing a marker file.
// Used before the pipeline starts so a read-only destination fails fast
// instead of after the data has been cleaned.
func CheckWritable(dir string) error {
	probe := filepath.Join(dir, ".write_probe")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// =============================================================================
// RUN SUMMARY LOG
// =============================================================================

// RunSummary captures the auditable outcome of one pipeline run: row counts,
// per-reason drop accounting, and the artifacts written.
type RunSummary struct {
	RunID     string
	InputFile string
	StartTime time.Time
	Duration  time.Duration

	RowsLoaded  int
	RowsCleaned int

	DroppedMissingCritical int
	DroppedCancelled       int
	DroppedNonPositive     int

	OutputFiles []string
	ChartFiles  []string
	ChartErrors []string
}

// WriteSummaryLog writes the run summary as a plain-text log named
// analysis_summary_<runid>.log in outputDir and returns the written path.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	path := filepath.Join(outputDir, fmt.Sprintf("analysis_summary_%s.log", summary.RunID))

	var b strings.Builder
	b.WriteString("=== Retail Analytics Run Summary ===\n")
	fmt.Fprintf(&b, "Run ID:      %s\n", summary.RunID)
	fmt.Fprintf(&b, "Input:       %s\n", summary.InputFile)
	fmt.Fprintf(&b, "Started:     %s\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:    %s\n", summary.Duration)
	b.WriteString("\n--- Rows ---\n")
	fmt.Fprintf(&b, "Loaded:      %d\n", summary.RowsLoaded)
	fmt.Fprintf(&b, "Cleaned:     %d\n", summary.RowsCleaned)
	fmt.Fprintf(&b, "Dropped:     %d\n",
		summary.DroppedMissingCritical+summary.DroppedCancelled+summary.DroppedNonPositive)
	fmt.Fprintf(&b, "  missing critical value: %d\n", summary.DroppedMissingCritical)
	fmt.Fprintf(&b, "  cancelled invoice:      %d\n", summary.DroppedCancelled)
	fmt.Fprintf(&b, "  non-positive qty/price: %d\n", summary.DroppedNonPositive)

	b.WriteString("\n--- Artifacts ---\n")
	for _, f := range summary.OutputFiles {
		fmt.Fprintf(&b, "table: %s\n", f)
	}
	for _, f := range summary.ChartFiles {
		fmt.Fprintf(&b, "chart: %s\n", f)
	}
	if len(summary.ChartErrors) > 0 {
		b.WriteString("\n--- Chart Errors (non-fatal) ---\n")
		for _, e := range summary.ChartErrors {
			fmt.Fprintf(&b, "%s\n", e)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write summary log: %w", err)
	}
	return path, nil
}
