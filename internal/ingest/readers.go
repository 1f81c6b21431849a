package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadCSV reads a CSV export whose first line is the header.
// Rows may be ragged; short rows are dropped later by Ingest.
func ReadCSV(r io.Reader) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return RawTable{Header: []string{}}, nil
	}
	if err != nil {
		return RawTable{}, fmt.Errorf("read csv header: %w", err)
	}

	t := RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("read csv: %w", err)
		}
		t.Rows = append(t.Rows, stringsToCells(rec))
	}
	return t, nil
}

// ReadXLSX reads one worksheet of a workbook; the first row is the header.
// An empty sheet name selects the first worksheet.
func ReadXLSX(r io.Reader, sheet string) (RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RawTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return RawTable{Header: []string{}}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return RawTable{Header: []string{}}, nil
	}

	t := RawTable{Header: rows[0]}
	for _, row := range rows[1:] {
		t.Rows = append(t.Rows, stringsToCells(row))
	}
	return t, nil
}

// FromValues converts a header-first grid of loosely typed values (as returned by the
// Sheets API) into a RawTable.
func FromValues(values [][]any) RawTable {
	if len(values) == 0 {
		return RawTable{Header: []string{}}
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = fmt.Sprint(v)
	}
	t := RawTable{Header: header}
	for _, row := range values[1:] {
		cells := make([]Cell, len(row))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func stringsToCells(rec []string) []Cell {
	cells := make([]Cell, len(rec))
	for i, s := range rec {
		cells[i] = s
	}
	return cells
}
