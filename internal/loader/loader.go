// =============================================================================
// Retail Analytics - Loader Module
// =============================================================================
//
// This module reads raw transaction files into memory. Two input formats are
// supported, routed by file extension:
//   - Delimited text (.csv and friends), parsed with encoding/csv
//   - Excel workbooks (.xlsx), parsed with excelize
//
// The loader performs NO row-level validation. Malformed values (unparseable
// dates, negative quantities, empty fields) are passed through as-is so the
// cleaner can handle them uniformly and account for every dropped row. The
// loader only fails on problems that make the whole file unusable: missing
// file, unreadable content, or required columns absent from the header.
//
// =============================================================================

package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// DataSourceError indicates the input file is missing, unreadable, or
// structurally unusable (no header, required columns absent). It is fatal:
// the run aborts before any output is written.
type DataSourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("data source %s: %s", e.Path, e.Reason)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// =============================================================================
// COLUMN MAPPING
// =============================================================================

// columnIndexes holds the resolved header position of each known column.
// A value of -1 means the column is absent.
type columnIndexes struct {
	invoiceID   int
	stockCode   int
	description int
	quantity    int
	unitPrice   int
	invoiceDate int
	customerID  int
	country     int
}

// resolveColumns maps header names to column positions. Both the Online
// Retail II naming ("Invoice", "Price", "Customer ID") and the older export
// naming ("InvoiceNo", "UnitPrice", "CustomerID") are accepted.
func resolveColumns(header []string) columnIndexes {
	cols := columnIndexes{
		invoiceID:   -1,
		stockCode:   -1,
		description: -1,
		quantity:    -1,
		unitPrice:   -1,
		invoiceDate: -1,
		customerID:  -1,
		country:     -1,
	}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Invoice", "InvoiceNo", "Invoice No":
			cols.invoiceID = i
		case "StockCode", "Stock Code":
			cols.stockCode = i
		case "Description":
			cols.description = i
		case "Quantity":
			cols.quantity = i
		case "Price", "UnitPrice", "Unit Price":
			cols.unitPrice = i
		case "InvoiceDate", "Invoice Date":
			cols.invoiceDate = i
		case "Customer ID", "CustomerID":
			cols.customerID = i
		case "Country":
			cols.country = i
		}
	}

	return cols
}

// missingRequired lists the required columns absent from the header.
// CustomerID is optional in the source data; everything else is required.
func (c columnIndexes) missingRequired() []string {
	var missing []string
	if c.invoiceID < 0 {
		missing = append(missing, "Invoice")
	}
	if c.stockCode < 0 {
		missing = append(missing, "StockCode")
	}
	if c.description < 0 {
		missing = append(missing, "Description")
	}
	if c.quantity < 0 {
		missing = append(missing, "Quantity")
	}
	if c.unitPrice < 0 {
		missing = append(missing, "Price")
	}
	if c.invoiceDate < 0 {
		missing = append(missing, "InvoiceDate")
	}
	if c.country < 0 {
		missing = append(missing, "Country")
	}
	return missing
}

// cell returns the value at the given column index, or "" when the row is
// shorter than the header (xlsx rows drop trailing empty cells).
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// buildRecord converts one positional row into a RawRecord.
func buildRecord(row []string, cols columnIndexes, sourceRow int) types.RawRecord {
	return types.RawRecord{
		InvoiceID:   cell(row, cols.invoiceID),
		StockCode:   cell(row, cols.stockCode),
		Description: cell(row, cols.description),
		Quantity:    cell(row, cols.quantity),
		UnitPrice:   cell(row, cols.unitPrice),
		InvoiceDate: cell(row, cols.invoiceDate),
		CustomerID:  cell(row, cols.customerID),
		Country:     cell(row, cols.country),
		SourceRow:   sourceRow,
	}
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Load reads a raw transaction file into memory, routing by extension.
func Load(path string, settings config.CSVSettings) (*types.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, settings)
	default:
		return LoadCSV(path, settings)
	}
}

// tableFromRows applies the shared header/data-row handling to positional
// rows from either parser.
func tableFromRows(path string, allRows [][]string, settings config.CSVSettings) (*types.RawTable, error) {
	if len(allRows) == 0 {
		return nil, &DataSourceError{Path: path, Reason: "file is empty"}
	}
	if len(allRows) < settings.HeaderRows {
		return nil, &DataSourceError{Path: path, Reason: "file has fewer rows than header_rows"}
	}

	cols := resolveColumns(allRows[0])
	if missing := cols.missingRequired(); len(missing) > 0 {
		return nil, &DataSourceError{
			Path:   path,
			Reason: fmt.Sprintf("required columns missing from header: %s", strings.Join(missing, ", ")),
		}
	}

	start := settings.DataStartRow - 1
	if start < settings.HeaderRows {
		start = settings.HeaderRows
	}

	table := &types.RawTable{SourceFile: path}
	if start >= len(allRows) {
		// Header-only file: an empty table, not an error.
		return table, nil
	}

	table.Records = make([]types.RawRecord, 0, len(allRows)-start)
	for i := start; i < len(allRows); i++ {
		if isRowEmpty(allRows[i]) {
			continue
		}
		table.Records = append(table.Records, buildRecord(allRows[i], cols, i+1))
	}

	return table, nil
}
