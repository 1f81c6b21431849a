package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-hero-metrics/internal/model"
)

// Rows encodes records back into the ten-column log layout, header first.
// Starting turn and outcome are written as 1/0 codes so the output re-ingests unchanged.
func Rows(records []model.MatchRecord) [][]any {
	out := make([][]any, 0, len(records)+1)
	header := make([]any, len(ColumnNames))
	for i, n := range ColumnNames {
		header[i] = n
	}
	out = append(out, header)
	for _, r := range records {
		first := 0
		if r.StartingTurn == model.TurnFirst {
			first = 1
		}
		won := 0
		if r.Won {
			won = 1
		}
		out = append(out, []any{
			r.OpponentName, r.OpponentClass, r.OpponentLevel, r.OpponentHP,
			r.SelfClass, r.SelfLevel, r.SelfHP, first, r.Turns, won,
		})
	}
	return out
}

// WriteCSV writes records as CSV readable by ReadCSV.
func WriteCSV(w io.Writer, records []model.MatchRecord) error {
	cw := csv.NewWriter(w)
	for _, row := range Rows(records) {
		rec := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case string:
				rec[i] = x
			case int:
				rec[i] = strconv.Itoa(x)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records to a single-sheet workbook readable by ReadXLSX.
func WriteXLSX(w io.Writer, records []model.MatchRecord, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Game Records"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, row := range Rows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
