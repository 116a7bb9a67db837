// =============================================================================
// Retail Analytics - Aggregator Module
// =============================================================================
//
// Three independent, stateless aggregation functions over the cleaned table:
//
//   MonthlyRevenue - revenue per calendar month, ascending by month
//   TopCountries   - the N highest-revenue countries, descending
//   TopProducts    - the N highest-revenue products, descending
//
// Each function groups rows by a key, sums TotalPrice per group, sorts, and
// (for the top-N variants) truncates. Grouping partitions the cleaned table,
// so the monthly summary's total always equals the table's TotalPrice sum.
//
// Tie-break policy: groups with equal revenue keep their first-seen order
// from the cleaned table. The sorts are stable and group ordinals are
// assigned on first encounter, so the ranking is deterministic for a given
// input.
//
// =============================================================================

package aggregator

import (
	"sort"

	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// DefaultTopN is the ranking depth used when the configuration does not
// supply one.
const DefaultTopN = 10

// group accumulates one key's revenue along with its first-seen ordinal.
type group struct {
	key     string
	revenue float64
	seen    int
}

// groupBy sums TotalPrice per key, preserving first-encounter order in the
// returned slice. An empty input yields an empty slice, never an error.
func groupBy(records []types.CleanRecord, keyFn func(types.CleanRecord) string) []group {
	index := make(map[string]int)
	groups := make([]group, 0)

	for _, rec := range records {
		key := keyFn(rec)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key, seen: i})
		}
		groups[i].revenue += rec.TotalPrice
	}

	return groups
}

// toSummary converts groups into a summary table with the given key column
// name, optionally truncating to the first n rows.
func toSummary(keyName string, groups []group, n int) types.Summary {
	rows := make([]types.SummaryRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, types.SummaryRow{Key: g.key, Revenue: g.revenue})
	}
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return types.Summary{KeyName: keyName, Rows: rows}
}

// MonthlyRevenue groups the cleaned table by YearMonth and reports every
// month's revenue in chronological order. No truncation is applied.
func MonthlyRevenue(records []types.CleanRecord) types.Summary {
	groups := groupBy(records, func(r types.CleanRecord) string { return r.YearMonth })

	// YearMonth is "2006-01", so lexical order is chronological order.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].key < groups[j].key
	})

	return toSummary("year_month", groups, -1)
}

// TopCountries reports the n highest-revenue countries, descending by
// revenue, ties kept in first-seen order.
func TopCountries(records []types.CleanRecord, n int) types.Summary {
	groups := groupBy(records, func(r types.CleanRecord) string { return r.Country })
	sortByRevenueDesc(groups)
	return toSummary("country", groups, n)
}

// TopProducts reports the n highest-revenue products, descending by revenue,
// ties kept in first-seen order. Grouping is by the standardized description
// rather than the stock code: in this dataset codes are reused across
// variants while the description is the stable product identity.
func TopProducts(records []types.CleanRecord, n int) types.Summary {
	groups := groupBy(records, func(r types.CleanRecord) string { return r.Description })
	sortByRevenueDesc(groups)
	return toSummary("product", groups, n)
}

// sortByRevenueDesc orders groups by revenue, highest first. The sort is
// stable and groups enter in first-seen order, which is the documented
// tie-break rule.
func sortByRevenueDesc(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].revenue > groups[j].revenue
	})
}
