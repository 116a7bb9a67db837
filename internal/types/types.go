// =============================================================================
// Retail Analytics - Shared Types
// =============================================================================
//
// This package contains the record and table types shared across the pipeline
// stages to avoid import cycles. Types defined here are used by:
//   - loader
//   - cleaner
//   - aggregator
//   - reporter
//
// =============================================================================

package types

import "time"

// =============================================================================
// RAW RECORDS
// =============================================================================

// RawRecord is a single transaction row exactly as it appears in the input
// file. No validation has been applied: the quantity may be negative, the
// price non-positive, the date unparseable, and any field may be empty. The
// cleaner is the single place where these problems are handled.
type RawRecord struct {
	// InvoiceID is the invoice identifier. A leading "C" marks a
	// cancellation.
	InvoiceID string

	// StockCode is the product code.
	StockCode string

	// Description is the free-text product description.
	Description string

	// Quantity is the raw quantity text (unparsed).
	Quantity string

	// UnitPrice is the raw unit-price text (unparsed).
	UnitPrice string

	// InvoiceDate is the raw timestamp text (unparsed).
	InvoiceDate string

	// CustomerID is the customer identifier; optional in the source data.
	CustomerID string

	// Country is the customer country.
	Country string

	// SourceRow is the 1-indexed row number in the input file, kept for
	// error reporting.
	SourceRow int
}

// RawTable is the loader's output: the parsed rows plus provenance.
type RawTable struct {
	Records    []RawRecord
	SourceFile string
}

// =============================================================================
// CLEAN RECORDS
// =============================================================================

// CleanRecord is a transaction row that survived every cleaning filter.
// All fields are typed, and the derived columns are populated.
//
// Invariants: Quantity > 0, UnitPrice > 0, TotalPrice == Quantity*UnitPrice,
// InvoiceID non-empty and not starting with "C", InvoiceDate valid.
type CleanRecord struct {
	InvoiceID   string
	StockCode   string
	Description string // trimmed, uppercased
	Quantity    int
	UnitPrice   float64
	InvoiceDate time.Time
	CustomerID  string
	Country     string // trimmed, uppercased

	// TotalPrice is Quantity * UnitPrice, derived after filtering.
	TotalPrice float64

	// YearMonth is the invoice timestamp truncated to calendar-month
	// granularity, formatted "2006-01" so lexical order is chronological.
	YearMonth string
}

// =============================================================================
// SUMMARY TABLES
// =============================================================================

// SummaryRow is one (key, revenue) pair in a summary table.
type SummaryRow struct {
	Key     string
	Revenue float64
}

// Summary is an ordered sequence of unique-key rows produced by one of the
// aggregation functions. Monthly summaries are sorted ascending by key,
// top-N summaries descending by revenue.
type Summary struct {
	// KeyName is the column name used when the table is persisted,
	// e.g. "year_month", "country", "product".
	KeyName string

	Rows []SummaryRow
}

// Total returns the sum of revenue across all rows.
func (s Summary) Total() float64 {
	var total float64
	for _, r := range s.Rows {
		total += r.Revenue
	}
	return total
}
