// Package chartspec turns aggregate tables into declarative chart descriptors.
//
// A Spec is plain data in the spirit of a vega-lite unit spec: a mark, positional
// encodings, optional color/size channels, tooltip fields, an optional facet and the
// rows to draw. Builders only reshape tables that are already aggregated.
package chartspec

import (
	"fmt"

	"github.com/pable/go-hero-metrics/internal/model"
)

// Mark is the geometric primitive of a chart.
type Mark string

const (
	MarkCircle  Mark = "circle"
	MarkBar     Mark = "bar"
	MarkBoxPlot Mark = "boxplot"
	MarkLine    Mark = "line"
)

// FieldType is the measurement type of an encoded field.
type FieldType string

const (
	Nominal      FieldType = "nominal"
	Ordinal      FieldType = "ordinal"
	Quantitative FieldType = "quantitative"
)

// Stack modes for bar charts.
const StackNormalize = "normalize"

// Encoding binds a data field to a visual channel.
type Encoding struct {
	Field  string    `json:"field"`
	Type   FieldType `json:"type"`
	Title  string    `json:"title,omitempty"`
	Format string    `json:"format,omitempty"`
	Stack  string    `json:"stack,omitempty"`
	Domain []any     `json:"domain,omitempty"`
	Range  []string  `json:"range,omitempty"`
	Legend *bool     `json:"legend,omitempty"`
}

// Facet splits a chart into small multiples.
type Facet struct {
	Column *Encoding `json:"column,omitempty"`
	Row    *Encoding `json:"row,omitempty"`
}

// Datum is one row of chart data keyed by field name.
type Datum map[string]any

// Spec is a renderer-agnostic chart descriptor.
type Spec struct {
	Name    string     `json:"name"`
	Title   string     `json:"title,omitempty"`
	Mark    Mark       `json:"mark"`
	Opacity float64    `json:"opacity,omitempty"`
	Height  int        `json:"height,omitempty"`
	Width   int        `json:"width,omitempty"`
	X       Encoding   `json:"x"`
	Y       Encoding   `json:"y"`
	Color   *Encoding  `json:"color,omitempty"`
	Size    *Encoding  `json:"size,omitempty"`
	Tooltip []Encoding `json:"tooltip,omitempty"`
	Facet   *Facet     `json:"facet,omitempty"`
	// BoxFields names the pre-aggregated five-number columns of a boxplot whose
	// rows are already summarized. Empty for raw-value boxplots.
	BoxFields []string `json:"box_fields,omitempty"`
	Data      []Datum  `json:"data"`
}

// Empty reports whether the spec has nothing to draw.
func (s Spec) Empty() bool { return len(s.Data) == 0 }

// Field names shared by the builders and the renderer.
const (
	FieldSelfClass     = "self_class"
	FieldOpponentClass = "opponent_class"
	FieldGamesPlayed   = "games_played"
	FieldGamesWon      = "games_won"
	FieldWinPct        = "win_pct"
	FieldStartingTurn  = "starting_turn"
	FieldWon           = "won"
	FieldCount         = "count"
	FieldFraction      = "fraction"
	FieldTurns         = "turns"
	FieldSelfLevel     = "self_level"
	FieldGames         = "games"
)

// Five-number summary columns of a pre-aggregated boxplot.
var fiveNumberFields = []string{"min", "q1", "median", "q3", "max"}

// Names of the specs produced per pipeline run.
const (
	NameClassMatchup  = "classMatchup"
	NameTurnOrder     = "turnOrder"
	NameTurnCounts    = "turnCounts"
	NameTurnOrderVs   = "turnOrderVs"
	NameTurnCountsVs  = "turnCountsVs"
	NameLevelWinCurve = "levelWinCurve"
	NameUnivariate    = "univariate"
)

// MatchupBubble draws one circle per matchup: games played along x, own class along y,
// colored by opponent and sized by win percentage.
func MatchupBubble(stats []model.ClassMatchupStat) Spec {
	s := Spec{
		Name:    NameClassMatchup,
		Title:   "Class Matchups",
		Mark:    MarkCircle,
		Opacity: 0.5,
		Height:  250,
		X:       Encoding{Field: FieldGamesPlayed, Type: Quantitative, Title: "Games Played"},
		Y:       Encoding{Field: FieldSelfClass, Type: Nominal, Title: "My Hero"},
		Color:   &Encoding{Field: FieldOpponentClass, Type: Nominal, Title: "Opponent"},
		Size:    &Encoding{Field: FieldWinPct, Type: Quantitative, Title: "Win Percentage"},
		Tooltip: []Encoding{
			{Field: FieldSelfClass, Type: Nominal, Title: "My Hero"},
			{Field: FieldOpponentClass, Type: Nominal, Title: "Opponent"},
			{Field: FieldWinPct, Type: Quantitative, Title: "Win Percentage"},
			{Field: FieldGamesPlayed, Type: Quantitative, Title: "Games Played"},
		},
		Data: make([]Datum, 0, len(stats)),
	}
	for _, st := range stats {
		s.Data = append(s.Data, Datum{
			FieldSelfClass:     st.SelfClass,
			FieldOpponentClass: st.OpponentClass,
			FieldGamesPlayed:   st.GamesPlayed,
			FieldGamesWon:      st.GamesWon,
			FieldWinPct:        st.WinPct,
		})
	}
	return s
}

// TurnOrderBar draws a normalized stacked bar per starting turn split by outcome.
func TurnOrderBar(stats []model.TurnOrderStat) Spec {
	theme := Theme()
	s := Spec{
		Name:  NameTurnOrder,
		Title: "Win Percentage by Starting Turn",
		Mark:  MarkBar,
		X:     Encoding{Field: FieldStartingTurn, Type: Nominal, Title: "Starting Turn"},
		Y: Encoding{
			Field: FieldCount, Type: Quantitative, Title: "Percentage",
			Format: "%", Stack: StackNormalize,
		},
		Color: &Encoding{
			Field: FieldWon, Type: Nominal, Title: "I Won",
			Domain: []any{true, false},
			Range:  []string{theme.Category[0], theme.Category[1]},
		},
		Tooltip: []Encoding{
			{Field: FieldCount, Type: Quantitative, Title: "Games"},
			{Field: FieldFraction, Type: Quantitative, Title: "Percentage of Games", Format: ".0%"},
		},
		Data: make([]Datum, 0, len(stats)),
	}
	for _, st := range stats {
		s.Data = append(s.Data, Datum{
			FieldStartingTurn: st.StartingTurn.Label(),
			FieldWon:          st.Won,
			FieldCount:        st.Count,
			FieldFraction:     st.Fraction,
		})
	}
	return s
}

// Versus retitles a turn-order or turn-count spec as the panel restricted to one
// opponent class.
func Versus(s Spec, opponent string) Spec {
	switch s.Name {
	case NameTurnOrder:
		s.Name = NameTurnOrderVs
	case NameTurnCounts:
		s.Name = NameTurnCountsVs
	default:
		s.Name += "Vs"
	}
	s.Title = fmt.Sprintf("Vs %s: %s", opponent, s.Title)
	return s
}

// TurnCountBox draws the game-length distribution per starting turn.
func TurnCountBox(summaries []model.TurnCountSummary) Spec {
	hide := false
	s := Spec{
		Name:      NameTurnCounts,
		Title:     "Number of Turns by Starting Turn",
		Mark:      MarkBoxPlot,
		X:         Encoding{Field: FieldTurns, Type: Quantitative, Title: "Number of Turns"},
		Y:         Encoding{Field: FieldStartingTurn, Type: Nominal, Title: "Starting Turn"},
		Color:     &Encoding{Field: FieldStartingTurn, Type: Nominal, Title: "Starting Turn", Legend: &hide},
		BoxFields: fiveNumberFields,
		Data:      make([]Datum, 0, len(summaries)),
	}
	for _, d := range summaries {
		s.Data = append(s.Data, Datum{
			FieldStartingTurn: d.StartingTurn.Label(),
			FieldGames:        d.Games,
			"min":             d.Min,
			"q1":              d.Q1,
			"median":          d.Median,
			"q3":              d.Q3,
			"max":             d.Max,
		})
	}
	return s
}

// LevelWinLine draws win percentage against own level, one panel per opponent class.
func LevelWinLine(points []model.LevelWinPoint, selfClass string) Spec {
	title := "Win Rate by Level"
	if selfClass != "" {
		title = fmt.Sprintf("Win Rate by Level - %s", selfClass)
	}
	s := Spec{
		Name:  NameLevelWinCurve,
		Title: title,
		Mark:  MarkLine,
		X:     Encoding{Field: FieldSelfLevel, Type: Ordinal, Title: "My Level"},
		Y:     Encoding{Field: FieldWinPct, Type: Quantitative, Title: "Win Percentage", Format: ".1f"},
		Tooltip: []Encoding{
			{Field: FieldWinPct, Type: Quantitative, Title: "Win Percentage", Format: ".1f"},
			{Field: FieldGamesWon, Type: Quantitative, Title: "Games Won"},
		},
		Facet: &Facet{Column: &Encoding{Field: FieldOpponentClass, Type: Nominal, Title: "Opponent"}},
		Data:  make([]Datum, 0, len(points)),
	}
	for _, p := range points {
		s.Data = append(s.Data, Datum{
			FieldSelfLevel:     p.SelfLevel,
			FieldOpponentClass: p.OpponentClass,
			FieldGamesPlayed:   p.GamesPlayed,
			FieldGamesWon:      p.GamesWon,
			FieldWinPct:        p.WinPct,
		})
	}
	return s
}

// UnivariateBox draws the spread of per-group metric means by own class, faceted by
// opponent class (columns) and outcome (rows).
func UnivariateBox(tbl model.UnivariateTable) Spec {
	field := string(tbl.Metric)
	s := Spec{
		Name:  NameUnivariate + ":" + field,
		Title: tbl.Metric.Title(),
		Mark:  MarkBoxPlot,
		Width: 135,
		X:     Encoding{Field: field, Type: Quantitative, Title: tbl.Metric.Title()},
		Y:     Encoding{Field: FieldSelfClass, Type: Nominal, Title: "My Class"},
		Color: &Encoding{Field: FieldSelfClass, Type: Nominal, Title: "My Class"},
		Facet: &Facet{
			Column: &Encoding{Field: FieldOpponentClass, Type: Nominal, Title: "Opponent"},
			Row:    &Encoding{Field: FieldWon, Type: Nominal, Title: "Won"},
		},
		Data: make([]Datum, 0, len(tbl.Rows)),
	}
	for i := range tbl.Rows {
		r := &tbl.Rows[i]
		s.Data = append(s.Data, Datum{
			FieldWon:           r.Won,
			FieldStartingTurn:  r.StartingTurn.Label(),
			FieldSelfClass:     r.SelfClass,
			FieldOpponentClass: r.OpponentClass,
			FieldGames:         r.Games,
			field:              r.Mean(tbl.Metric),
		})
	}
	return s
}
