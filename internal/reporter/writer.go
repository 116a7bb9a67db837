// =============================================================================
// Retail Analytics - Reporter Module
// =============================================================================
//
// This module persists the pipeline's artifacts:
//   - the cleaned table and the three summary tables as CSV files
//   - one chart image per summary table (see charts.go)
//
// Tables are the primary artifact. A table write failure is a
// ReportWriteError and fatal for the run; previously written files are not
// rolled back. Charts are secondary: a render failure is collected as a
// ChartRenderError and reported without aborting the run.
//
// Output file names are stable across runs and overwritten each run:
//
//   cleaned_transactions.csv
//   monthly_revenue.csv
//   top_countries.csv
//   top_products.csv
//
// =============================================================================

package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// Stable output file names, overwritten on every run.
const (
	CleanedFile   = "cleaned_transactions.csv"
	MonthlyFile   = "monthly_revenue.csv"
	CountriesFile = "top_countries.csv"
	ProductsFile  = "top_products.csv"
)

// invoiceDateLayout is the timestamp format used in the cleaned CSV.
const invoiceDateLayout = "2006-01-02 15:04:05"

// =============================================================================
// ERRORS
// =============================================================================

// ReportWriteError indicates a data file could not be written, typically
// because the destination directory is missing or not writable. It is fatal
// for the affected artifact; files written earlier in the run stay in place.
type ReportWriteError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("write %s to %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error { return e.Err }

// =============================================================================
// TABLE WRITERS
// =============================================================================

// WriteCleaned writes the cleaned table to CleanedFile in outputDir and
// returns the written path.
func WriteCleaned(records []types.CleanRecord, outputDir string) (string, error) {
	path := filepath.Join(outputDir, CleanedFile)

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"invoice_id", "stock_code", "description", "quantity", "unit_price",
		"invoice_date", "customer_id", "country", "total_price", "year_month",
	})
	for _, r := range records {
		rows = append(rows, []string{
			r.InvoiceID,
			r.StockCode,
			r.Description,
			strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.UnitPrice, 'f', 2, 64),
			r.InvoiceDate.Format(invoiceDateLayout),
			r.CustomerID,
			r.Country,
			strconv.FormatFloat(r.TotalPrice, 'f', 2, 64),
			r.YearMonth,
		})
	}

	if err := writeCSV(path, rows); err != nil {
		return "", &ReportWriteError{Artifact: "cleaned table", Path: path, Err: err}
	}
	return path, nil
}

// WriteSummary writes a summary table to fileName in outputDir with a
// (key, revenue) header row and returns the written path. An empty summary
// produces a header-only file.
func WriteSummary(summary types.Summary, outputDir, fileName string) (string, error) {
	path := filepath.Join(outputDir, fileName)

	rows := make([][]string, 0, len(summary.Rows)+1)
	rows = append(rows, []string{summary.KeyName, "revenue"})
	for _, r := range summary.Rows {
		rows = append(rows, []string{r.Key, strconv.FormatFloat(r.Revenue, 'f', 2, 64)})
	}

	if err := writeCSV(path, rows); err != nil {
		return "", &ReportWriteError{Artifact: summary.KeyName + " summary", Path: path, Err: err}
	}
	return path, nil
}

// writeCSV creates (or truncates) path and writes all rows through a CSV
// writer, surfacing the first error from either the writer or the file.
func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			file.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
