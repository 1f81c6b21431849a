package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-hero-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintOverview prints the headline game count and overall win rate.
func PrintOverview(w io.Writer, o model.Overview) {
	fmt.Fprintf(w, "\nGames: %d  |  Won: %d  |  Win rate: %.1f%%\n\n", o.Games, o.Wins, o.WinPct)
}

// PrintMatchupTable prints the class-matchup win rates.
// Small samples are flagged in the SAMPLE column.
func PrintMatchupTable(w io.Writer, stats []model.ClassMatchupStat) {
	table := newTable(w)
	table.Header("CLASS", "VS", "GAMES", "WON", "WIN%", "SAMPLE")

	for _, s := range stats {
		table.Append(
			s.SelfClass,
			s.OpponentClass,
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.GamesWon),
			fmt.Sprintf("%.2f", s.WinPct),
			sampleFlag(s.GamesPlayed),
		)
	}
	table.Render()
}

// PrintTurnOrderTable prints the won/lost share per starting turn for one filter selection.
func PrintTurnOrderTable(w io.Writer, res model.TurnOrderResult) {
	fmt.Fprintf(w, "%s vs %s, levels %s: %d games, %d won\n\n",
		res.Filters.SelfClass, opponentLabel(res.Filters.OpponentClass), res.Filters.Levels, res.Games, res.Wins)

	table := newTable(w)
	table.Header("TURN", "RESULT", "GAMES", "SHARE")
	for _, s := range res.Stats {
		table.Append(
			s.StartingTurn.Label(),
			outcome(s.Won),
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.0f%%", s.Fraction*100),
		)
	}
	table.Render()
}

// PrintTurnCountTable prints the five-number summary of game length per starting turn.
func PrintTurnCountTable(w io.Writer, summaries []model.TurnCountSummary) {
	table := newTable(w)
	table.Header("TURN", "GAMES", "MIN", "Q1", "MEDIAN", "Q3", "MAX")
	for _, s := range summaries {
		table.Append(
			s.StartingTurn.Label(),
			strconv.Itoa(s.Games),
			fmtNum(s.Min),
			fmtNum(s.Q1),
			fmtNum(s.Median),
			fmtNum(s.Q3),
			fmtNum(s.Max),
		)
	}
	table.Render()
}

// PrintLevelCurveTable prints the win rate per self level and opponent class.
func PrintLevelCurveTable(w io.Writer, points []model.LevelWinPoint) {
	table := newTable(w)
	table.Header("VS", "LEVEL", "GAMES", "WON", "WIN%")
	for _, p := range points {
		table.Append(
			p.OpponentClass,
			strconv.Itoa(p.SelfLevel),
			strconv.Itoa(p.GamesPlayed),
			strconv.Itoa(p.GamesWon),
			fmt.Sprintf("%.1f%%", p.WinPct),
		)
	}
	table.Render()
}

// PrintUnivariateTable prints the group means of the breakdown; the selected metric
// column is marked with "*".
func PrintUnivariateTable(w io.Writer, tbl model.UnivariateTable) {
	headers := []any{"RESULT", "TURN", "CLASS", "VS", "GAMES"}
	for _, m := range model.Metrics {
		h := m.Title()
		if m == tbl.Metric {
			h += "*"
		}
		headers = append(headers, h)
	}

	table := newTable(w)
	table.Header(headers...)
	for i := range tbl.Rows {
		r := &tbl.Rows[i]
		row := []any{outcome(r.Won), r.StartingTurn.Label(), r.SelfClass, r.OpponentClass, strconv.Itoa(r.Games)}
		for _, m := range model.Metrics {
			row = append(row, fmt.Sprintf("%.1f", r.Mean(m)))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintRecordTable prints cleaned match records in load order.
func PrintRecordTable(w io.Writer, records []model.MatchRecord) {
	table := newTable(w)
	table.Header("#", "OPPONENT", "VS", "OPP_LVL", "OPP_HP", "CLASS", "LVL", "HP", "TURN", "TURNS", "RESULT")
	for i, r := range records {
		table.Append(
			strconv.Itoa(i+1),
			r.OpponentName,
			r.OpponentClass,
			strconv.Itoa(r.OpponentLevel),
			strconv.Itoa(r.OpponentHP),
			r.SelfClass,
			strconv.Itoa(r.SelfLevel),
			strconv.Itoa(r.SelfHP),
			string(r.StartingTurn),
			strconv.Itoa(r.Turns),
			outcome(r.Won),
		)
	}
	table.Render()
}

// PrintQueryResult prints the columns and rows of an ad-hoc query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func sampleFlag(n int) string {
	switch {
	case n >= 20:
		return "OK"
	case n >= 10:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

func outcome(won bool) string {
	if won {
		return "Won"
	}
	return "Lost"
}

func opponentLabel(class string) string {
	if class == "" {
		return "all"
	}
	return class
}

// fmtNum drops the fraction of whole numbers.
func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
