package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-hero-metrics/internal/model"
)

// game builds a record with fixed defaults; only the fields under test vary.
func game(self, opp string, level int, turn model.StartingTurn, won bool) model.MatchRecord {
	return model.MatchRecord{
		OpponentName:  "opp",
		OpponentClass: opp,
		OpponentLevel: 5,
		OpponentHP:    0,
		SelfClass:     self,
		SelfLevel:     level,
		SelfHP:        10,
		StartingTurn:  turn,
		Turns:         10,
		Won:           won,
	}
}

// Class names used across tests.
const (
	wizard  = "Wizard"
	thief   = "Thief"
	cleric  = "Cleric"
	rogue   = "Rogue"
	fighter = "Fighter"
)

func mixedRecords() []model.MatchRecord {
	return []model.MatchRecord{
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnSecond, false),
		game(wizard, cleric, 4, model.TurnFirst, true),
		game(thief, wizard, 1, model.TurnSecond, true),
		game(thief, wizard, 2, model.TurnSecond, true),
		game(cleric, fighter, 7, model.TurnFirst, false),
		game(wizard, thief, 5, model.TurnSecond, true),
	}
}

// ---- Class matchup ----

// TestClassMatchup_WizardScenario: two wins out of three → 66.67%.
func TestClassMatchup_WizardScenario(t *testing.T) {
	records := []model.MatchRecord{
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnFirst, false),
		game(wizard, thief, 3, model.TurnFirst, true),
	}

	stats := ClassMatchupSummary(records)
	if len(stats) != 1 {
		t.Fatalf("expected 1 matchup, got %d", len(stats))
	}
	s := stats[0]
	if s.GamesPlayed != 3 || s.GamesWon != 2 {
		t.Errorf("expected 3 played / 2 won, got %d / %d", s.GamesPlayed, s.GamesWon)
	}
	if s.WinPct != 66.67 {
		t.Errorf("expected WinPct 66.67, got %v", s.WinPct)
	}
}

// TestClassMatchup_Consistency: games add up, percentages bounded, wins never exceed games.
func TestClassMatchup_Consistency(t *testing.T) {
	records := mixedRecords()
	stats := ClassMatchupSummary(records)

	total := 0
	for _, s := range stats {
		total += s.GamesPlayed
		if s.GamesPlayed < 1 {
			t.Errorf("%s vs %s: emitted with %d games", s.SelfClass, s.OpponentClass, s.GamesPlayed)
		}
		if s.GamesWon > s.GamesPlayed {
			t.Errorf("%s vs %s: won %d of %d", s.SelfClass, s.OpponentClass, s.GamesWon, s.GamesPlayed)
		}
		if s.WinPct < 0 || s.WinPct > 100 {
			t.Errorf("%s vs %s: WinPct %v out of range", s.SelfClass, s.OpponentClass, s.WinPct)
		}
	}
	if total != len(records) {
		t.Errorf("sum of GamesPlayed = %d, want %d", total, len(records))
	}
}

func TestClassMatchup_SortedAndRounded(t *testing.T) {
	stats := ClassMatchupSummary(mixedRecords())

	want := []struct {
		self, opp string
		pct       float64
	}{
		{cleric, fighter, 0},
		{thief, wizard, 100},
		{wizard, cleric, 100},
		{wizard, thief, 66.67},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(stats))
	}
	for i, w := range want {
		if stats[i].SelfClass != w.self || stats[i].OpponentClass != w.opp || stats[i].WinPct != w.pct {
			t.Errorf("row %d: got %+v, want %s vs %s %.2f", i, stats[i], w.self, w.opp, w.pct)
		}
	}
}

func TestClassMatchup_Empty(t *testing.T) {
	if stats := ClassMatchupSummary(nil); len(stats) != 0 {
		t.Errorf("expected empty table, got %d rows", len(stats))
	}
}

func TestClassMatchup_DoesNotMutateInput(t *testing.T) {
	records := mixedRecords()
	before := append([]model.MatchRecord(nil), records...)
	ClassMatchupSummary(records)
	LevelWinCurve(records, "")
	TurnOrderSummary(records, model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 1, High: 10}})
	if _, err := UnivariateBreakdown(records, model.MetricTurns); err != nil {
		t.Fatal(err)
	}
	for i := range records {
		if records[i] != before[i] {
			t.Fatalf("record %d mutated", i)
		}
	}
}

// ---- Turn order ----

// TestTurnOrder_ThreeWinsOneLoss: 4 First-turn games, 3 won → 0.75 / 0.25.
func TestTurnOrder_ThreeWinsOneLoss(t *testing.T) {
	records := []model.MatchRecord{
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnFirst, false),
		game(wizard, thief, 3, model.TurnFirst, true),
	}
	res := TurnOrderSummary(records, model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 1, High: 5}})

	if len(res.Stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Stats))
	}
	var won, lost float64
	for _, s := range res.Stats {
		if s.StartingTurn != model.TurnFirst {
			t.Errorf("unexpected starting turn %s", s.StartingTurn)
		}
		if s.Won {
			won = s.Fraction
		} else {
			lost = s.Fraction
		}
	}
	if won != 0.75 || lost != 0.25 {
		t.Errorf("expected 0.75/0.25, got %v/%v", won, lost)
	}
	if math.Abs(won+lost-1) > 1e-9 {
		t.Errorf("fractions sum to %v", won+lost)
	}
	if res.Games != 4 || res.Wins != 3 {
		t.Errorf("headline: got %d games / %d wins", res.Games, res.Wins)
	}
}

// TestTurnOrder_MissingOutcomeIsZero: a turn with only wins still gets a loss row at 0.
func TestTurnOrder_MissingOutcomeIsZero(t *testing.T) {
	records := []model.MatchRecord{
		game(wizard, thief, 3, model.TurnSecond, true),
		game(wizard, thief, 3, model.TurnSecond, true),
	}
	res := TurnOrderSummary(records, model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 1, High: 5}})

	if len(res.Stats) != 2 {
		t.Fatalf("expected won and lost rows, got %+v", res.Stats)
	}
	if !res.Stats[0].Won || res.Stats[0].Fraction != 1 {
		t.Errorf("won row: %+v", res.Stats[0])
	}
	if res.Stats[1].Won || res.Stats[1].Count != 0 || res.Stats[1].Fraction != 0 {
		t.Errorf("lost row: %+v", res.Stats[1])
	}
}

func TestTurnOrder_Filters(t *testing.T) {
	records := mixedRecords()

	// Level range is inclusive on both ends: levels 3 and 4 only.
	res := TurnOrderSummary(records, model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 3, High: 4}})
	if res.Games != 3 {
		t.Errorf("level filter: expected 3 games, got %d", res.Games)
	}

	res = TurnOrderSummary(records, model.Filters{SelfClass: wizard, OpponentClass: cleric, Levels: model.LevelRange{Low: 1, High: 10}})
	if res.Games != 1 || res.Wins != 1 {
		t.Errorf("opponent filter: expected 1 game / 1 win, got %d / %d", res.Games, res.Wins)
	}

	res = TurnOrderSummary(records, model.Filters{SelfClass: rogue, Levels: model.LevelRange{Low: 1, High: 10}})
	if len(res.Stats) != 0 || len(res.TurnCounts) != 0 {
		t.Errorf("expected empty tables for unknown class, got %+v", res)
	}
}

func TestTurnOrder_FractionsSumToOne(t *testing.T) {
	res := TurnOrderSummary(mixedRecords(), model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 1, High: 10}})

	sums := make(map[model.StartingTurn]float64)
	for _, s := range res.Stats {
		sums[s.StartingTurn] += s.Fraction
	}
	if len(sums) != 2 {
		t.Fatalf("expected both starting turns, got %v", sums)
	}
	for turn, sum := range sums {
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s: fractions sum to %v", turn, sum)
		}
	}
	if res.Stats[0].StartingTurn != model.TurnFirst {
		t.Errorf("First should sort before Second")
	}
}

func TestTurnOrder_FiveNumberSummary(t *testing.T) {
	var records []model.MatchRecord
	for _, n := range []int{12, 4, 8, 6, 10} {
		r := game(wizard, thief, 3, model.TurnFirst, true)
		r.Turns = n
		records = append(records, r)
	}
	res := TurnOrderSummary(records, model.Filters{SelfClass: wizard, Levels: model.LevelRange{Low: 1, High: 5}})

	if len(res.TurnCounts) != 1 {
		t.Fatalf("expected 1 distribution, got %d", len(res.TurnCounts))
	}
	d := res.TurnCounts[0]
	if d.Min != 4 || d.Q1 != 6 || d.Median != 8 || d.Q3 != 10 || d.Max != 12 || d.Games != 5 {
		t.Errorf("unexpected summary %+v", d)
	}
}

func TestQuantile_Interpolates(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	if got := quantile(vals, 0.5); got != 2.5 {
		t.Errorf("median of 1..4: got %v", got)
	}
	if got := quantile(vals, 0.25); got != 1.75 {
		t.Errorf("q1 of 1..4: got %v", got)
	}
	if got := quantile([]float64{7}, 0.75); got != 7 {
		t.Errorf("single value: got %v", got)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Errorf("empty: got %v", got)
	}
}

// ---- Level win curve ----

// TestLevelWinCurve_NoRogueGames: filtering to an absent class yields an empty table.
func TestLevelWinCurve_NoRogueGames(t *testing.T) {
	points := LevelWinCurve(mixedRecords(), rogue)
	if len(points) != 0 {
		t.Errorf("expected empty table, got %+v", points)
	}
}

func TestLevelWinCurve_Groups(t *testing.T) {
	records := []model.MatchRecord{
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnFirst, false),
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, thief, 3, model.TurnFirst, true),
		game(wizard, cleric, 3, model.TurnFirst, false),
		game(wizard, thief, 4, model.TurnFirst, true),
		game(thief, thief, 3, model.TurnFirst, true),
	}
	points := LevelWinCurve(records, wizard)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %+v", points)
	}
	// Sorted by opponent class, then level.
	cl, th3, th4 := points[0], points[1], points[2]
	if cl.OpponentClass != cleric || cl.GamesWon != 0 || cl.WinPct != 0 || cl.GamesPlayed != 1 {
		t.Errorf("cleric point (loss only): %+v", cl)
	}
	if th3.SelfLevel != 3 || th3.GamesWon != 3 || th3.WinPct != 75 {
		t.Errorf("thief level 3: %+v", th3)
	}
	if th4.SelfLevel != 4 || th4.WinPct != 100 {
		t.Errorf("thief level 4: %+v", th4)
	}

	all := LevelWinCurve(records, "")
	if len(all) != 3 {
		t.Errorf("unfiltered: expected thief self games merged into existing group, got %d points", len(all))
	}
}

// ---- Univariate ----

func TestUnivariate_Means(t *testing.T) {
	a := game(wizard, thief, 3, model.TurnFirst, true)
	a.OpponentHP, a.OpponentLevel, a.SelfHP, a.Turns = 0, 4, 20, 8
	b := game(wizard, thief, 6, model.TurnFirst, true)
	b.OpponentHP, b.OpponentLevel, b.SelfHP, b.Turns = 0, 6, 10, 12
	c := game(wizard, thief, 3, model.TurnFirst, false)
	c.OpponentHP, c.SelfHP = 15, 0

	tbl, err := UnivariateBreakdown([]model.MatchRecord{a, b, c}, model.MetricSelfHP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Metric != model.MetricSelfHP {
		t.Errorf("metric not carried: %s", tbl.Metric)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(tbl.Rows))
	}
	// Losses sort first.
	loss, win := tbl.Rows[0], tbl.Rows[1]
	if loss.Won || loss.Games != 1 || loss.MeanOpponentHP != 15 {
		t.Errorf("loss group: %+v", loss)
	}
	if win.Games != 2 || win.MeanSelfHP != 15 || win.MeanTurns != 10 || win.MeanOpponentLevel != 5 || win.MeanOpponentHP != 0 {
		t.Errorf("win group: %+v", win)
	}
	if got := win.Mean(model.MetricSelfHP); got != 15 {
		t.Errorf("Mean(self_hp) = %v", got)
	}
}

func TestUnivariate_UnknownMetric(t *testing.T) {
	_, err := UnivariateBreakdown(mixedRecords(), model.Metric("mana"))
	if !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestUnivariate_Empty(t *testing.T) {
	tbl, err := UnivariateBreakdown(nil, model.MetricTurns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(tbl.Rows))
	}
}

// ---- Overview and filter defaults ----

func TestOverview(t *testing.T) {
	ov := Overview(mixedRecords())
	if ov.Games != 7 || ov.Wins != 5 || ov.WinPct != 71.43 {
		t.Errorf("unexpected overview %+v", ov)
	}
	if empty := Overview(nil); empty.Games != 0 || empty.WinPct != 0 {
		t.Errorf("empty overview %+v", empty)
	}
}

func TestClassesAndMaxLevel(t *testing.T) {
	records := mixedRecords()
	classes := Classes(records)
	if len(classes) != 3 || classes[0] != cleric || classes[2] != wizard {
		t.Errorf("Classes: %v", classes)
	}
	opps := OpponentClasses(records)
	if len(opps) != 4 || opps[0] != cleric {
		t.Errorf("OpponentClasses: %v", opps)
	}
	if got := MaxLevel(records); got != 7 {
		t.Errorf("MaxLevel: %d", got)
	}
}

func TestFiveNumber_CopiesInput(t *testing.T) {
	vals := []float64{9, 1, 5}
	got := FiveNumber(vals)
	if got != [5]float64{1, 3, 5, 7, 9} {
		t.Errorf("FiveNumber: %v", got)
	}
	if vals[0] != 9 {
		t.Error("FiveNumber sorted its input in place")
	}
	if FiveNumber(nil) != [5]float64{} {
		t.Error("empty input should yield zeros")
	}
}
