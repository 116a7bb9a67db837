// =============================================================================
// Retail Analytics - Cleaner Module
// =============================================================================
//
// This module transforms the raw table into the cleaned table through a
// fixed, ordered sequence of filters and derivations:
//
//   1. Parse the invoice timestamp (failures count as a missing critical value)
//   2. Drop rows missing any configured critical field
//   3. Drop cancelled invoices (invoice ID starting with "C", case-sensitive)
//   4. Drop rows with quantity <= 0 or unit price <= 0
//   5. Derive TotalPrice = Quantity * UnitPrice
//   6. Derive YearMonth (calendar-month truncation of the timestamp)
//   7. Standardize text fields (trim + uppercase description and country)
//
// A row either survives every filter or is excluded entirely; there is no
// repair or imputation. Derived columns are computed only on surviving rows.
// Every exclusion is tallied by reason in DropStats so the run summary can
// account for the difference between raw and clean row counts.
//
// The cleaner is a pure function over its input: it never mutates the raw
// table, and running it on its own output drops nothing further.
//
// =============================================================================

package cleaner

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// CancellationPrefix marks cancelled invoices in the source data.
const CancellationPrefix = "C"

// dateLayouts are the timestamp formats accepted for the invoice date, tried
// in order. The Online Retail II exports use the first two; the remainder
// cover spreadsheet re-saves of the same data.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

// =============================================================================
// DROP ACCOUNTING
// =============================================================================

// DropStats tallies excluded rows by reason. Drops are not errors: they are
// counted silently during cleaning and reported once at the end of the run.
type DropStats struct {
	// MissingCritical counts rows with an empty or unparseable value in a
	// critical field (including unparseable invoice timestamps).
	MissingCritical int

	// Cancelled counts rows whose invoice ID carries the cancellation prefix.
	Cancelled int

	// NonPositive counts rows with quantity <= 0 or unit price <= 0.
	NonPositive int
}

// Total returns the number of dropped rows across all reasons.
func (s DropStats) Total() int {
	return s.MissingCritical + s.Cancelled + s.NonPositive
}

// =============================================================================
// CLEANER
// =============================================================================

// Cleaner applies the cleaning pipeline. The zero value is not usable;
// construct with New.
type Cleaner struct {
	critical map[string]bool
}

// New creates a Cleaner that treats the given fields as critical. Field
// names use the configuration vocabulary: invoice_id, stock_code,
// description, quantity, unit_price, invoice_date, customer_id, country.
func New(criticalFields []string) *Cleaner {
	critical := make(map[string]bool, len(criticalFields))
	for _, f := range criticalFields {
		critical[f] = true
	}
	return &Cleaner{critical: critical}
}

// Clean runs the full filter-and-derive sequence over the raw table and
// returns the cleaned records together with the drop accounting.
func (c *Cleaner) Clean(raw *types.RawTable) ([]types.CleanRecord, DropStats) {
	var stats DropStats

	clean := make([]types.CleanRecord, 0, len(raw.Records))
	for _, rec := range raw.Records {
		out, reason := c.cleanRow(rec)
		switch reason {
		case dropNone:
			clean = append(clean, out)
		case dropMissingCritical:
			stats.MissingCritical++
		case dropCancelled:
			stats.Cancelled++
		case dropNonPositive:
			stats.NonPositive++
		}
	}

	return clean, stats
}

type dropReason int

const (
	dropNone dropReason = iota
	dropMissingCritical
	dropCancelled
	dropNonPositive
)

// cleanRow applies the filters in their required order to a single row and
// either produces the cleaned record or names the first reason to drop it.
func (c *Cleaner) cleanRow(rec types.RawRecord) (types.CleanRecord, dropReason) {
	// Step 1: parse the timestamp. A failure is a missing critical value.
	invoiceDate, dateOK := parseInvoiceDate(rec.InvoiceDate)

	// Quantity and unit price must be numeric to be usable at all; an
	// unparseable value counts as a missing critical value.
	quantity, qtyErr := strconv.Atoi(strings.TrimSpace(rec.Quantity))
	unitPrice, priceErr := strconv.ParseFloat(strings.TrimSpace(rec.UnitPrice), 64)

	// Step 2: missing critical fields.
	if c.critical["invoice_id"] && rec.InvoiceID == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["invoice_date"] && !dateOK {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["quantity"] && rec.Quantity == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["unit_price"] && rec.UnitPrice == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["stock_code"] && rec.StockCode == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["description"] && rec.Description == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["customer_id"] && rec.CustomerID == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if c.critical["country"] && rec.Country == "" {
		return types.CleanRecord{}, dropMissingCritical
	}
	if qtyErr != nil || priceErr != nil || !dateOK {
		return types.CleanRecord{}, dropMissingCritical
	}

	// Step 3: cancelled invoices.
	if strings.HasPrefix(rec.InvoiceID, CancellationPrefix) {
		return types.CleanRecord{}, dropCancelled
	}

	// Step 4: non-positive quantity or price.
	if quantity <= 0 || unitPrice <= 0 {
		return types.CleanRecord{}, dropNonPositive
	}

	// Steps 5-7: derivations and text standardization, on survivors only.
	return types.CleanRecord{
		InvoiceID:   rec.InvoiceID,
		StockCode:   strings.TrimSpace(rec.StockCode),
		Description: standardizeText(rec.Description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		InvoiceDate: invoiceDate,
		CustomerID:  strings.TrimSpace(rec.CustomerID),
		Country:     standardizeText(rec.Country),
		TotalPrice:  float64(quantity) * unitPrice,
		YearMonth:   invoiceDate.Format("2006-01"),
	}, dropNone
}

// parseInvoiceDate tries each accepted layout in order.
func parseInvoiceDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// standardizeText trims whitespace and uppercases, so "uk" and " UK " form
// one grouping key downstream.
func standardizeText(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
