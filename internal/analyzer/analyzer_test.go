package analyzer

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/reporter"
)

const sampleCSV = `Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2.55,2010-12-01 08:26,17850,United Kingdom
536366,71053,WHITE METAL LANTERN,8,3.39,2010-12-01 08:28,17850,united kingdom
536370,22728,ALARM CLOCK BAKELIKE PINK,24,3.75,2011-01-03 10:15,12583,France
C536379,D,Discount,-1,27.50,2010-12-01 09:41,14527,United Kingdom
536381,22139,RETROSPOT TEA SET,0,4.25,2010-12-01 09:41,15311,United Kingdom
536382,21730,GLASS STAR FROSTED T-LIGHT HOLDER,6,4.25,,17850,United Kingdom
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	inputDir := t.TempDir()
	inputPath := filepath.Join(inputDir, "transactions.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(sampleCSV), 0644))

	outDir := filepath.Join(t.TempDir(), "out")
	cfg := config.Default()
	cfg.InputPath = inputPath
	cfg.OutputDir = outDir
	cfg.FiguresDir = filepath.Join(outDir, "figures")
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)

	result := New(cfg, quietLogger()).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 6, result.Stats.RowsLoaded)
	assert.Equal(t, 3, result.Stats.RowsCleaned)
	assert.Equal(t, 1, result.Stats.Drops.Cancelled)
	assert.Equal(t, 1, result.Stats.Drops.NonPositive)
	assert.Equal(t, 1, result.Stats.Drops.MissingCritical)

	// All four data files exist with their documented names.
	for _, name := range []string{
		reporter.CleanedFile, reporter.MonthlyFile,
		reporter.CountriesFile, reporter.ProductsFile,
	} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}

	// Charts were rendered for every non-empty summary.
	assert.FileExists(t, filepath.Join(cfg.FiguresDir, reporter.MonthlyChartFile))
	assert.FileExists(t, filepath.Join(cfg.FiguresDir, reporter.CountriesChartFile))
	assert.FileExists(t, filepath.Join(cfg.FiguresDir, reporter.ProductsChartFile))
	assert.Empty(t, result.Stats.ChartErrors)

	// Run summary log exists for auditing.
	matches, err := filepath.Glob(filepath.Join(cfg.OutputDir, "analysis_summary_*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// Case-standardization merged "United Kingdom" and "united kingdom"
	// into one group; France's single large row outranks it.
	require.Len(t, result.Countries.Rows, 2)
	assert.Equal(t, "FRANCE", result.Countries.Rows[0].Key)
	assert.Equal(t, "UNITED KINGDOM", result.Countries.Rows[1].Key)
	assert.InDelta(t, 42.42, result.Countries.Rows[1].Revenue, 1e-9)

	// Sum preservation between the cleaned table and the monthly summary.
	sumCleaned := readTotalPriceSum(t, filepath.Join(cfg.OutputDir, reporter.CleanedFile))
	assert.InDelta(t, sumCleaned, result.Monthly.Total(), 1e-6)
}

func TestRunDryRun(t *testing.T) {
	cfg := testConfig(t)

	a := New(cfg, quietLogger())
	a.DryRun = true
	result := a.Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Stats.RowsCleaned)
	assert.Empty(t, result.Stats.OutputFiles)

	// Nothing was written.
	_, err := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunChartsDisabled(t *testing.T) {
	cfg := testConfig(t)
	disabled := false
	cfg.ChartsEnabled = &disabled

	result := New(cfg, quietLogger()).Run()

	require.NoError(t, result.Error)
	assert.Empty(t, result.Stats.ChartFiles)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, reporter.MonthlyFile))
	assert.NoFileExists(t, filepath.Join(cfg.FiguresDir, reporter.MonthlyChartFile))
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputPath = filepath.Join(t.TempDir(), "nope.csv")

	result := New(cfg, quietLogger()).Run()

	require.Error(t, result.Error)
	assert.False(t, result.Success)
	assert.Equal(t, "loader", result.Stage)
	assert.Contains(t, result.FormatStage(), "loader stage failed")
	assert.Contains(t, result.FormatStage(), cfg.InputPath)
}

// A header-only input produces empty-but-valid outputs, not a crash.
func TestRunHeaderOnlyInput(t *testing.T) {
	cfg := testConfig(t)
	header := "Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n"
	require.NoError(t, os.WriteFile(cfg.InputPath, []byte(header), 0644))

	result := New(cfg, quietLogger()).Run()

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Stats.RowsLoaded)
	assert.Equal(t, 0, result.Stats.RowsCleaned)
	assert.Empty(t, result.Monthly.Rows)

	// Summary files still exist, header-only.
	assert.FileExists(t, filepath.Join(cfg.OutputDir, reporter.MonthlyFile))
	assert.Empty(t, result.Stats.ChartFiles)
}

// readTotalPriceSum sums the total_price column of the cleaned CSV.
func readTotalPriceSum(t *testing.T, path string) float64 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	col := -1
	for i, name := range rows[0] {
		if name == "total_price" {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0)

	var sum float64
	for _, row := range rows[1:] {
		v, err := strconv.ParseFloat(row[col], 64)
		require.NoError(t, err)
		sum += v
	}
	return sum
}
