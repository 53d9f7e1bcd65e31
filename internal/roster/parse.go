package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nominadocs/payslip-server/internal/model"
)

// Column headers recognized in roster files, matched case-insensitively.
const (
	colCedula    = "cedula"
	colFirstName = "firstname"
	colLastName  = "lastname"
	colEmail     = "email"
	colIsActive  = "isactive"
)

// Parse reads a roster file into rows, dispatching on the file extension.
// Supported formats are .csv and .xlsx.
func Parse(fileName string, r io.Reader) ([]model.RosterRow, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported roster format %q", filepath.Ext(fileName))
	}
}

// ParseCSV reads a header-keyed CSV roster. Rows shorter than the header
// are padded with blanks; empty lines are skipped.
func ParseCSV(r io.Reader) ([]model.RosterRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty roster: no header row")
		}
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	cols := indexColumns(header)
	var rows []model.RosterRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, rowFromRecord(record, cols))
	}
	return rows, nil
}

// ParseXLSX reads the first sheet of an XLSX workbook with the same
// header-keyed layout as the CSV form.
func ParseXLSX(r io.Reader) ([]model.RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty workbook: no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty roster: no header row")
	}

	cols := indexColumns(records[0])
	var rows []model.RosterRow
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, rowFromRecord(record, cols))
	}
	return rows, nil
}

// indexColumns maps known header names to their position.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func rowFromRecord(record []string, cols map[string]int) model.RosterRow {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return model.RosterRow{
		Cedula:    cell(colCedula),
		FirstName: cell(colFirstName),
		LastName:  cell(colLastName),
		Email:     cell(colEmail),
		IsActive:  cell(colIsActive),
	}
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
