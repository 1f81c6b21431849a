package storage

import (
	"fmt"
	"strconv"

	"github.com/pable/go-hero-metrics/internal/model"
)

// ReplaceRecords swaps the records table contents for records in a single transaction.
func (db *DB) ReplaceRecords(records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records(
			row_id, opponent_name, opponent_class, opponent_level, opponent_hp,
			self_class, self_level, self_hp, starting_turn, turns, won
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		_, err = stmt.Exec(
			i+1, r.OpponentName, r.OpponentClass, r.OpponentLevel, r.OpponentHP,
			r.SelfClass, r.SelfLevel, r.SelfHP, string(r.StartingTurn), r.Turns, boolInt(r.Won),
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// CountRecords returns the number of stored records.
func (db *DB) CountRecords() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM records").Scan(&n)
	return n, err
}

// ListRecords returns every stored record in load order.
func (db *DB) ListRecords() ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT opponent_name, opponent_class, opponent_level, opponent_hp,
		       self_class, self_level, self_hp, starting_turn, turns, won
		FROM records ORDER BY row_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var (
			r    model.MatchRecord
			turn string
			won  int
		)
		if err := rows.Scan(
			&r.OpponentName, &r.OpponentClass, &r.OpponentLevel, &r.OpponentHP,
			&r.SelfClass, &r.SelfLevel, &r.SelfHP, &turn, &r.Turns, &won,
		); err != nil {
			return nil, err
		}
		r.StartingTurn = model.StartingTurn(turn)
		r.Won = won != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
