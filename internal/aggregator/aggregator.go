package aggregator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pable/go-hero-metrics/internal/model"
)

// ErrUnknownMetric is returned by UnivariateBreakdown for a metric it cannot aggregate.
var ErrUnknownMetric = errors.New("unknown metric")

// ClassMatchupSummary computes games played, games won and win percentage for every
// (self class, opponent class) pair present in records. Pairs without games are never emitted.
func ClassMatchupSummary(records []model.MatchRecord) []model.ClassMatchupStat {
	type pairKey struct{ self, opp string }
	type tally struct{ played, won int }

	tallies := make(map[pairKey]*tally)
	for _, r := range records {
		k := pairKey{r.SelfClass, r.OpponentClass}
		t := tallies[k]
		if t == nil {
			t = &tally{}
			tallies[k] = t
		}
		t.played++
		if r.Won {
			t.won++
		}
	}

	out := make([]model.ClassMatchupStat, 0, len(tallies))
	for k, t := range tallies {
		out = append(out, model.ClassMatchupStat{
			SelfClass:     k.self,
			OpponentClass: k.opp,
			GamesPlayed:   t.played,
			GamesWon:      t.won,
			WinPct:        roundedPct(t.won, t.played),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SelfClass != out[j].SelfClass {
			return out[i].SelfClass < out[j].SelfClass
		}
		return out[i].OpponentClass < out[j].OpponentClass
	})
	return out
}

// LevelWinCurve groups games by (self level, opponent class) and reports the win
// percentage and win count of each group. An empty selfClass keeps every class.
// Groups without a single win are emitted with WinPct 0.
func LevelWinCurve(records []model.MatchRecord, selfClass string) []model.LevelWinPoint {
	type levelKey struct {
		level int
		opp   string
	}
	type tally struct{ played, won int }

	tallies := make(map[levelKey]*tally)
	for _, r := range records {
		if selfClass != "" && r.SelfClass != selfClass {
			continue
		}
		k := levelKey{r.SelfLevel, r.OpponentClass}
		t := tallies[k]
		if t == nil {
			t = &tally{}
			tallies[k] = t
		}
		t.played++
		if r.Won {
			t.won++
		}
	}

	out := make([]model.LevelWinPoint, 0, len(tallies))
	for k, t := range tallies {
		out = append(out, model.LevelWinPoint{
			SelfLevel:     k.level,
			OpponentClass: k.opp,
			GamesPlayed:   t.played,
			GamesWon:      t.won,
			WinPct:        pct(t.won, t.played),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OpponentClass != out[j].OpponentClass {
			return out[i].OpponentClass < out[j].OpponentClass
		}
		return out[i].SelfLevel < out[j].SelfLevel
	})
	return out
}

// UnivariateBreakdown groups games by (won, starting turn, self class, opponent class)
// and averages the four continuous metrics in each group. metric selects the table's
// primary metric; every row carries all four means.
func UnivariateBreakdown(records []model.MatchRecord, metric model.Metric) (model.UnivariateTable, error) {
	if !metric.Valid() {
		return model.UnivariateTable{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	type groupKey struct {
		won  bool
		turn model.StartingTurn
		self string
		opp  string
	}
	type sums struct {
		n                            int
		oppHP, oppLevel, selfHP, trn float64
	}

	groups := make(map[groupKey]*sums)
	for _, r := range records {
		k := groupKey{r.Won, r.StartingTurn, r.SelfClass, r.OpponentClass}
		s := groups[k]
		if s == nil {
			s = &sums{}
			groups[k] = s
		}
		s.n++
		s.oppHP += float64(r.OpponentHP)
		s.oppLevel += float64(r.OpponentLevel)
		s.selfHP += float64(r.SelfHP)
		s.trn += float64(r.Turns)
	}

	rows := make([]model.UnivariateRow, 0, len(groups))
	for k, s := range groups {
		n := float64(s.n)
		rows = append(rows, model.UnivariateRow{
			Won:               k.won,
			StartingTurn:      k.turn,
			SelfClass:         k.self,
			OpponentClass:     k.opp,
			Games:             s.n,
			MeanOpponentHP:    s.oppHP / n,
			MeanOpponentLevel: s.oppLevel / n,
			MeanSelfHP:        s.selfHP / n,
			MeanTurns:         s.trn / n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Won != b.Won {
			return !a.Won
		}
		if a.StartingTurn != b.StartingTurn {
			return a.StartingTurn.Order() < b.StartingTurn.Order()
		}
		if a.SelfClass != b.SelfClass {
			return a.SelfClass < b.SelfClass
		}
		return a.OpponentClass < b.OpponentClass
	})
	return model.UnivariateTable{Metric: metric, Rows: rows}, nil
}

// Overview counts games and wins across records.
func Overview(records []model.MatchRecord) model.Overview {
	ov := model.Overview{Games: len(records)}
	for _, r := range records {
		if r.Won {
			ov.Wins++
		}
	}
	ov.WinPct = roundedPct(ov.Wins, ov.Games)
	return ov
}

// Classes returns the distinct self classes, sorted.
func Classes(records []model.MatchRecord) []string {
	return distinct(records, func(r model.MatchRecord) string { return r.SelfClass })
}

// OpponentClasses returns the distinct opponent classes, sorted.
func OpponentClasses(records []model.MatchRecord) []string {
	return distinct(records, func(r model.MatchRecord) string { return r.OpponentClass })
}

// MaxLevel returns the highest self level seen, or 0 for no records.
func MaxLevel(records []model.MatchRecord) int {
	m := 0
	for _, r := range records {
		m = max(m, r.SelfLevel)
	}
	return m
}

func distinct(records []model.MatchRecord, key func(model.MatchRecord) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// pct returns 100*num/den, or 0 when den is 0.
func pct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}

// roundedPct is pct rounded half away from zero to two decimal places.
func roundedPct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num) * 100).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		InexactFloat64()
}
