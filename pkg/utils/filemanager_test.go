package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "out")
	figs := filepath.Join(out, "figures")

	fm := NewFileManager(out, figs)
	require.NoError(t, fm.EnsureDirectories())

	assert.DirExists(t, out)
	assert.DirExists(t, figs)

	// Idempotent on existing directories.
	require.NoError(t, fm.EnsureDirectories())
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckWritable(dir))

	// The probe file is removed again.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, CheckWritable(filepath.Join(dir, "missing")))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	summary := RunSummary{
		RunID:                  "ab12cd34",
		InputFile:              "transactions.csv",
		StartTime:              time.Date(2011, 12, 9, 12, 0, 0, 0, time.UTC),
		Duration:               3 * time.Second,
		RowsLoaded:             100,
		RowsCleaned:            90,
		DroppedMissingCritical: 4,
		DroppedCancelled:       5,
		DroppedNonPositive:     1,
		OutputFiles:            []string{"out/cleaned_transactions.csv"},
		ChartFiles:             []string{"out/figures/monthly_revenue_trend.png"},
		ChartErrors:            []string{"render chart top products: boom"},
	}

	path, err := WriteSummaryLog(summary, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis_summary_ab12cd34.log"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Loaded:      100")
	assert.Contains(t, content, "Cleaned:     90")
	assert.Contains(t, content, "Dropped:     10")
	assert.Contains(t, content, "missing critical value: 4")
	assert.Contains(t, content, "cancelled invoice:      5")
	assert.Contains(t, content, "non-positive qty/price: 1")
	assert.Contains(t, content, "table: out/cleaned_transactions.csv")
	assert.Contains(t, content, "Chart Errors")
}
