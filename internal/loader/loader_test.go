package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/retail-analytics/internal/config"
)

func defaultSettings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2}
}

// writeTempCSV writes content to a temp file and returns its path.
func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t,
		"Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n"+
			"536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,2.55,2010-12-01 08:26,17850,United Kingdom\n"+
			"C536379,D,Discount,-1,27.50,2010-12-01 09:41,14527,United Kingdom\n")

	table, err := LoadCSV(path, defaultSettings())
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, path, table.SourceFile)

	first := table.Records[0]
	assert.Equal(t, "536365", first.InvoiceID)
	assert.Equal(t, "85123A", first.StockCode)
	assert.Equal(t, "WHITE HANGING HEART T-LIGHT HOLDER", first.Description)
	assert.Equal(t, "6", first.Quantity)
	assert.Equal(t, "2.55", first.UnitPrice)
	assert.Equal(t, "2010-12-01 08:26", first.InvoiceDate)
	assert.Equal(t, "17850", first.CustomerID)
	assert.Equal(t, "United Kingdom", first.Country)
	assert.Equal(t, 2, first.SourceRow)

	// Malformed rows pass through untouched; the cleaner owns validation.
	second := table.Records[1]
	assert.Equal(t, "C536379", second.InvoiceID)
	assert.Equal(t, "-1", second.Quantity)
}

// Both the Online Retail II headers and the older export naming resolve to
// the same columns.
func TestLoadCSVHeaderAliases(t *testing.T) {
	path := writeTempCSV(t,
		"InvoiceNo,StockCode,Description,Quantity,UnitPrice,InvoiceDate,CustomerID,Country\n"+
			"536365,85123A,HOLDER,6,2.55,2010-12-01 08:26,17850,United Kingdom\n")

	table, err := LoadCSV(path, defaultSettings())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "536365", table.Records[0].InvoiceID)
	assert.Equal(t, "2.55", table.Records[0].UnitPrice)
	assert.Equal(t, "17850", table.Records[0].CustomerID)
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantMsg string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			wantMsg: "cannot open file",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeTempCSV(t, "") },
			wantMsg: "file is empty",
		},
		{
			name: "missing required columns",
			path: func(t *testing.T) string {
				return writeTempCSV(t, "Invoice,Description,Country\n536365,HOLDER,UK\n")
			},
			wantMsg: "required columns missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(tt.path(t), defaultSettings())
			require.Error(t, err)

			var dsErr *DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.Contains(t, dsErr.Error(), tt.wantMsg)
		})
	}
}

// A header-only file is an empty table, not an error.
func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeTempCSV(t,
		"Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n")

	table, err := LoadCSV(path, defaultSettings())
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

func TestLoadCSVSkipsBlankRows(t *testing.T) {
	path := writeTempCSV(t,
		"Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n"+
			"536365,85123A,HOLDER,6,2.55,2010-12-01 08:26,17850,UK\n"+
			",,,,,,,\n"+
			"536366,71053,LANTERN,8,3.39,2010-12-01 08:28,17850,UK\n")

	table, err := LoadCSV(path, defaultSettings())
	require.NoError(t, err)
	assert.Len(t, table.Records, 2)
}

func TestLoadCSVSemicolonDelimiter(t *testing.T) {
	path := writeTempCSV(t,
		"Invoice;StockCode;Description;Quantity;Price;InvoiceDate;Customer ID;Country\n"+
			"536365;85123A;HOLDER;6;2.55;2010-12-01 08:26;17850;UK\n")

	settings := defaultSettings()
	settings.Delimiter = "semicolon"

	table, err := LoadCSV(path, settings)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "536365", table.Records[0].InvoiceID)
}

// Rows shorter than the header (trailing fields absent) yield empty values,
// left for the cleaner to judge.
func TestLoadCSVShortRow(t *testing.T) {
	path := writeTempCSV(t,
		"Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n"+
			"536365,85123A,HOLDER,6\n")

	table, err := LoadCSV(path, defaultSettings())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "536365", table.Records[0].InvoiceID)
	assert.Equal(t, "", table.Records[0].Country)
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Invoice", "StockCode", "Description", "Quantity", "Price", "InvoiceDate", "Customer ID", "Country"},
		{"536365", "85123A", "HOLDER", "6", "2.55", "2010-12-01 08:26", "17850", "United Kingdom"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Load(path, defaultSettings())
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "536365", table.Records[0].InvoiceID)
	assert.Equal(t, "United Kingdom", table.Records[0].Country)
}

func TestLoadXLSXMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), defaultSettings())

	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
}

func TestLoadRoutesByExtension(t *testing.T) {
	// .csv goes through the delimited parser even if the content is odd.
	path := writeTempCSV(t,
		"Invoice,StockCode,Description,Quantity,Price,InvoiceDate,Customer ID,Country\n")
	table, err := Load(path, defaultSettings())
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}
