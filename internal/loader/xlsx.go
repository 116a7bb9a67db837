package loader

import (
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// LoadXLSX reads a transaction workbook into a raw table. The Online Retail
// II dataset is distributed as a workbook, so this is a first-class input
// format rather than a convenience.
//
// Only the first sheet is read. All cell values arrive as strings, matching
// the delimited path, so downstream stages see one shape regardless of the
// input format.
func LoadXLSX(path string, settings config.CSVSettings) (*types.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DataSourceError{Path: path, Reason: "workbook has no sheets"}
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot read sheet " + sheets[0], Err: err}
	}

	return tableFromRows(path, allRows, settings)
}
