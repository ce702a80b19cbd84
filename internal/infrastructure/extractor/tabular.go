package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxTabularRows bounds how many data rows feed the classifier. Spreadsheet
// structure is what matters for routing, not the full dataset.
const maxTabularRows = 20

func extractExcel(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		writeTable(&b, rows)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("spreadsheet contains no rows")
	}
	return b.String(), nil
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for len(rows) <= maxTabularRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("csv contains no rows")
	}

	var b strings.Builder
	writeTable(&b, rows)
	return b.String(), nil
}

// writeTable renders header plus a bounded sample of rows, one line each.
func writeTable(b *strings.Builder, rows [][]string) {
	fmt.Fprintf(b, "Columns: %s\n\n", strings.Join(rows[0], ", "))
	limit := len(rows)
	if limit > maxTabularRows+1 {
		limit = maxTabularRows + 1
	}
	for _, row := range rows[1:limit] {
		b.WriteString(strings.Join(row, ", "))
		b.WriteString("\n")
	}
}
