package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StartingTurn records whether the subject player acted first or second.
type StartingTurn string

const (
	TurnFirst  StartingTurn = "First"
	TurnSecond StartingTurn = "Second"
)

// StartingTurnFromCode maps the spreadsheet's integer code: 1 went first, anything else went second.
func StartingTurnFromCode(code int) StartingTurn {
	if code == 1 {
		return TurnFirst
	}
	return TurnSecond
}

// ParseStartingTurn accepts a canonical value, its display label or the raw integer code.
func ParseStartingTurn(s string) (StartingTurn, error) {
	v := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch v {
	case "first", "went first":
		return TurnFirst, nil
	case "second", "went second":
		return TurnSecond, nil
	}
	if code, err := strconv.Atoi(v); err == nil {
		return StartingTurnFromCode(code), nil
	}
	return "", fmt.Errorf("unknown starting turn %q", s)
}

// Label is the chart/table text for the starting turn.
func (t StartingTurn) Label() string {
	switch t {
	case TurnFirst:
		return "Went First"
	case TurnSecond:
		return "Went Second"
	default:
		return "?"
	}
}

// Order sorts First before Second.
func (t StartingTurn) Order() int {
	if t == TurnFirst {
		return 0
	}
	return 1
}

// ---- Records ----

// MatchRecord is one completed game from the record log.
type MatchRecord struct {
	OpponentName  string       `json:"opponent_name" validate:"required"`
	OpponentClass string       `json:"opponent_class" validate:"required"`
	OpponentLevel int          `json:"opponent_level" validate:"gt=0"`
	OpponentHP    int          `json:"opponent_hp" validate:"gte=0"`
	SelfClass     string       `json:"self_class" validate:"required"`
	SelfLevel     int          `json:"self_level" validate:"gt=0"`
	SelfHP        int          `json:"self_hp" validate:"gte=0"`
	StartingTurn  StartingTurn `json:"starting_turn" validate:"oneof=First Second"`
	Turns         int          `json:"turns" validate:"gt=0"`
	Won           bool         `json:"won"`
}

// ---- Filters ----

// LevelRange is an inclusive bound on SelfLevel.
type LevelRange struct {
	Low  int
	High int
}

// Contains reports whether level lies within the inclusive range.
func (r LevelRange) Contains(level int) bool {
	return r.Low <= level && level <= r.High
}

func (r LevelRange) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// ParseLevelRange parses "low-high" or a single level.
func ParseLevelRange(s string) (LevelRange, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return LevelRange{}, fmt.Errorf("invalid level range %q", s)
	}
	high := low
	if found {
		high, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return LevelRange{}, fmt.Errorf("invalid level range %q", s)
		}
	}
	if low > high {
		return LevelRange{}, fmt.Errorf("invalid level range %q: low exceeds high", s)
	}
	return LevelRange{Low: low, High: high}, nil
}

// Filters are the selections threaded into the turn-order summary.
type Filters struct {
	SelfClass     string
	OpponentClass string // empty matches every opponent
	Levels        LevelRange
}

// Match reports whether r passes every filter.
func (f Filters) Match(r MatchRecord) bool {
	if r.SelfClass != f.SelfClass {
		return false
	}
	if !f.Levels.Contains(r.SelfLevel) {
		return false
	}
	return f.OpponentClass == "" || r.OpponentClass == f.OpponentClass
}

// ---- Metrics ----

// Metric names a continuous per-game value for the univariate breakdown.
type Metric string

const (
	MetricOpponentHP    Metric = "opponent_hp"
	MetricTurns         Metric = "turns"
	MetricOpponentLevel Metric = "opponent_level"
	MetricSelfHP        Metric = "self_hp"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricOpponentHP, MetricTurns, MetricOpponentLevel, MetricSelfHP}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricOpponentHP, MetricTurns, MetricOpponentLevel, MetricSelfHP:
		return true
	}
	return false
}

// Title is the display name for the metric.
func (m Metric) Title() string {
	switch m {
	case MetricOpponentHP:
		return "Opponent Health"
	case MetricTurns:
		return "Num Turns"
	case MetricOpponentLevel:
		return "Opponent Level"
	case MetricSelfHP:
		return "My Health"
	default:
		return string(m)
	}
}

// Value extracts the metric from a record.
func (m Metric) Value(r MatchRecord) float64 {
	switch m {
	case MetricOpponentHP:
		return float64(r.OpponentHP)
	case MetricTurns:
		return float64(r.Turns)
	case MetricOpponentLevel:
		return float64(r.OpponentLevel)
	case MetricSelfHP:
		return float64(r.SelfHP)
	default:
		return 0
	}
}

// ---- Aggregated tables ----

// ClassMatchupStat is the win rate for one (self class, opponent class) pair.
type ClassMatchupStat struct {
	SelfClass     string  `json:"self_class"`
	OpponentClass string  `json:"opponent_class"`
	GamesPlayed   int     `json:"games_played"`
	GamesWon      int     `json:"games_won"`
	WinPct        float64 `json:"win_pct"`
}

// TurnOrderStat is the share of games with a given outcome for one starting turn.
type TurnOrderStat struct {
	StartingTurn StartingTurn `json:"starting_turn"`
	Won          bool         `json:"won"`
	Count        int          `json:"count"`
	Fraction     float64      `json:"fraction"`
}

// TurnCountSummary is the five-number summary of game length for one starting turn.
type TurnCountSummary struct {
	StartingTurn StartingTurn `json:"starting_turn"`
	Games        int          `json:"games"`
	Min          float64      `json:"min"`
	Q1           float64      `json:"q1"`
	Median       float64      `json:"median"`
	Q3           float64      `json:"q3"`
	Max          float64      `json:"max"`
}

// TurnOrderResult bundles both turn-order tables for one filter selection.
type TurnOrderResult struct {
	Filters    Filters
	Games      int
	Wins       int
	Stats      []TurnOrderStat
	TurnCounts []TurnCountSummary
}

// LevelWinPoint is the win rate at one self level against one opponent class.
type LevelWinPoint struct {
	SelfLevel     int     `json:"self_level"`
	OpponentClass string  `json:"opponent_class"`
	GamesPlayed   int     `json:"games_played"`
	GamesWon      int     `json:"games_won"`
	WinPct        float64 `json:"win_pct"`
}

// UnivariateRow holds metric means for one (won, starting turn, self class, opponent class) group.
type UnivariateRow struct {
	Won               bool         `json:"won"`
	StartingTurn      StartingTurn `json:"starting_turn"`
	SelfClass         string       `json:"self_class"`
	OpponentClass     string       `json:"opponent_class"`
	Games             int          `json:"games"`
	MeanOpponentHP    float64      `json:"opponent_hp"`
	MeanOpponentLevel float64      `json:"opponent_level"`
	MeanSelfHP        float64      `json:"self_hp"`
	MeanTurns         float64      `json:"turns"`
}

// Mean returns the group mean for the given metric.
func (r *UnivariateRow) Mean(m Metric) float64 {
	switch m {
	case MetricOpponentHP:
		return r.MeanOpponentHP
	case MetricTurns:
		return r.MeanTurns
	case MetricOpponentLevel:
		return r.MeanOpponentLevel
	case MetricSelfHP:
		return r.MeanSelfHP
	default:
		return 0
	}
}

// UnivariateTable is the breakdown requested for one metric.
type UnivariateTable struct {
	Metric Metric
	Rows   []UnivariateRow
}

// Overview is the headline count shown above the charts.
type Overview struct {
	Games  int
	Wins   int
	WinPct float64
}
