// Package ingest binds raw tabular match logs to typed, validated match records.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pable/go-hero-metrics/internal/model"
)

// RequiredColumns is the number of leading columns bound to a MatchRecord.
const RequiredColumns = 10

// Column positions in the record log.
const (
	colOpponentName = iota
	colOpponentClass
	colOpponentLevel
	colOpponentHP
	colSelfClass
	colSelfLevel
	colSelfHP
	colStartingTurn
	colTurns
	colWon
)

// ColumnNames are the schema names bound to the first ten columns, in order.
var ColumnNames = [RequiredColumns]string{
	"opponent_name", "opponent_class", "opponent_level", "opponent_hp",
	"self_class", "self_level", "self_hp", "starting_turn", "turns", "won",
}

// Cell is a single raw value: nil, string, bool, int, int64 or float64.
type Cell = any

// RawTable is the untyped input handed over by a source.
// Header may be nil when the source carries no header line.
type RawTable struct {
	Header []string
	Rows   [][]Cell
}

// Width is the column count of the table: the header length, or the widest row without one.
func (t RawTable) Width() int {
	if t.Header != nil {
		return len(t.Header)
	}
	w := 0
	for _, r := range t.Rows {
		w = max(w, len(r))
	}
	return w
}

// SchemaError reports a structural mismatch that makes the whole input unusable.
type SchemaError struct {
	Columns  int
	Required int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: input has %d columns, need at least %d", e.Columns, e.Required)
}

// DroppedRow describes a row excluded from the result.
type DroppedRow struct {
	Index  int // zero-based index into RawTable.Rows
	Reason string
}

// Result is the outcome of an ingestion pass.
type Result struct {
	Records []model.MatchRecord
	Dropped []DroppedRow
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Ingest returns the valid records of t in input order. Malformed rows are dropped.
// An empty result is not an error.
func Ingest(t RawTable) ([]model.MatchRecord, error) {
	res, err := IngestWithReport(t)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// IngestWithReport is Ingest plus the list of dropped rows and why.
func IngestWithReport(t RawTable) (Result, error) {
	if w := t.Width(); w < RequiredColumns {
		return Result{}, &SchemaError{Columns: w, Required: RequiredColumns}
	}

	var res Result
	for i, row := range t.Rows {
		rec, err := parseRow(row)
		if err == nil {
			err = validate.Struct(rec)
		}
		if err != nil {
			res.Dropped = append(res.Dropped, DroppedRow{Index: i, Reason: err.Error()})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// parseRow binds the first ten cells of row to a MatchRecord.
func parseRow(row []Cell) (model.MatchRecord, error) {
	if len(row) < RequiredColumns {
		return model.MatchRecord{}, fmt.Errorf("row has %d cells", len(row))
	}
	var (
		rec  model.MatchRecord
		errs []error
	)
	field := func(col int, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ColumnNames[col], err))
		}
	}

	var err error
	rec.OpponentName, err = stringCell(row[colOpponentName])
	field(colOpponentName, err)
	rec.OpponentClass, err = stringCell(row[colOpponentClass])
	field(colOpponentClass, err)
	rec.OpponentLevel, err = intCell(row[colOpponentLevel])
	field(colOpponentLevel, err)
	rec.OpponentHP, err = intCell(row[colOpponentHP])
	field(colOpponentHP, err)
	rec.SelfClass, err = stringCell(row[colSelfClass])
	field(colSelfClass, err)
	rec.SelfLevel, err = intCell(row[colSelfLevel])
	field(colSelfLevel, err)
	rec.SelfHP, err = intCell(row[colSelfHP])
	field(colSelfHP, err)
	rec.StartingTurn, err = turnCell(row[colStartingTurn])
	field(colStartingTurn, err)
	rec.Turns, err = intCell(row[colTurns])
	field(colTurns, err)
	rec.Won, err = DecodeWon(row[colWon])
	field(colWon, err)

	return rec, errors.Join(errs...)
}

var errNull = errors.New("missing value")

func stringCell(c Cell) (string, error) {
	switch v := c.(type) {
	case nil:
		return "", errNull
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", errNull
		}
		return s, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", c)
	}
}

func intCell(c Cell) (int, error) {
	switch v := c.(type) {
	case nil:
		return 0, errNull
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return integral(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, errNull
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		return integral(f)
	default:
		return 0, fmt.Errorf("unsupported cell type %T", c)
	}
}

// turnCell decodes the starting-turn column: code 1 (or a "first" label) went first,
// any other non-null value went second.
func turnCell(c Cell) (model.StartingTurn, error) {
	switch v := c.(type) {
	case nil:
		return "", errNull
	case int:
		return model.StartingTurnFromCode(v), nil
	case int64:
		return model.StartingTurnFromCode(int(v)), nil
	case float64:
		if math.IsNaN(v) {
			return "", errNull
		}
		return turnFromFloat(v), nil
	case bool:
		if v {
			return model.TurnFirst, nil
		}
		return model.TurnSecond, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", errNull
		}
		if t, err := model.ParseStartingTurn(s); err == nil {
			return t, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
			return turnFromFloat(f), nil
		}
		return model.TurnSecond, nil
	default:
		return "", fmt.Errorf("unsupported cell type %T", c)
	}
}

func turnFromFloat(f float64) model.StartingTurn {
	if f == 1 {
		return model.TurnFirst
	}
	return model.TurnSecond
}

func integral(f float64) (int, error) {
	if math.IsNaN(f) {
		return 0, errNull
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}

// DecodeWon decodes the outcome column. Only 0/1 numbers, booleans and a fixed set of
// string tokens are accepted; anything else is an error.
func DecodeWon(c Cell) (bool, error) {
	switch v := c.(type) {
	case nil:
		return false, errNull
	case bool:
		return v, nil
	case int:
		return bit(float64(v))
	case int64:
		return bit(float64(v))
	case float64:
		if math.IsNaN(v) {
			return false, errNull
		}
		return bit(v)
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "":
			return false, errNull
		case "1", "1.0", "true", "t", "yes", "y", "won", "win", "w":
			return true, nil
		case "0", "0.0", "false", "f", "no", "n", "lost", "loss", "l":
			return false, nil
		}
		return false, fmt.Errorf("unrecognized outcome %q", v)
	default:
		return false, fmt.Errorf("unsupported cell type %T", c)
	}
}

func bit(f float64) (bool, error) {
	switch f {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return false, fmt.Errorf("unrecognized outcome %v", f)
}
