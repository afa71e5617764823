package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel file-level failures. Messages are user-facing.
var (
	ErrEmptyFile         = errors.New("Arquivo vazio")
	ErrUnsupportedFormat = errors.New("Formato não suportado (use CSV ou XLSX)")
)

// ParseFile reads a spreadsheet into raw rows. The format is picked from
// the file name extension: .csv, or .xlsx/.xls. Header names are trimmed
// and uppercased; cell values are trimmed. Rows whose cells are all empty
// are dropped.
func ParseFile(fileName string, data []byte) ([]RawRow, error) {
	name := strings.ToLower(strings.TrimSpace(fileName))
	switch {
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return parseXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseCSV(data []byte) ([]RawRow, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("CSV inválido: %w", err)
	}
	columns := normalizeHeader(header)

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV inválido: %w", err)
		}
		if row, ok := buildRow(columns, record); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func parseXLSX(data []byte) ([]RawRow, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("XLSX inválido: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("XLSX inválido: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	columns := normalizeHeader(records[0])
	var rows []RawRow
	for _, record := range records[1:] {
		if row, ok := buildRow(columns, record); ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToUpper(strings.TrimSpace(name))
	}
	return columns
}

// buildRow zips a record against the header. Short records are padded
// with empty cells; extra cells beyond the header are dropped.
func buildRow(columns []string, record []string) (RawRow, bool) {
	row := make(RawRow, len(columns))
	empty := true
	for i, col := range columns {
		if col == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		if value != "" {
			empty = false
		}
		row[col] = value
	}
	if empty {
		return nil, false
	}
	return row, true
}
