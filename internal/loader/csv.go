package loader

import (
	"bufio"
	"encoding/csv"
	"os"

	"github.com/ginjaninja78/retail-analytics/internal/config"
	"github.com/ginjaninja78/retail-analytics/internal/types"
)

// LoadCSV reads a delimited transaction file into a raw table.
//
// The reader is deliberately permissive: variable field counts and lazy
// quotes are allowed, since malformed rows are the cleaner's problem, not
// the loader's. Only file-level failures become a DataSourceError.
func LoadCSV(path string, settings config.CSVSettings) (*types.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = settings.DelimiterRune()
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, &DataSourceError{Path: path, Reason: "cannot parse delimited content", Err: err}
	}

	return tableFromRows(path, allRows, settings)
}
