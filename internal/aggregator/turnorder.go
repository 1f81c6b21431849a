package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-hero-metrics/internal/model"
)

// TurnOrderSummary filters records by f and reports, per starting turn, the share of games
// won and lost together with the five-number summary of game length.
//
// Both outcomes are emitted for every starting turn that has games; a missing outcome
// is reported with Count 0 and Fraction 0.
func TurnOrderSummary(records []model.MatchRecord, f model.Filters) model.TurnOrderResult {
	res := model.TurnOrderResult{Filters: f}

	type outcomeKey struct {
		turn model.StartingTurn
		won  bool
	}
	counts := make(map[outcomeKey]int)
	totals := make(map[model.StartingTurn]int)
	turns := make(map[model.StartingTurn][]float64)

	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		res.Games++
		if r.Won {
			res.Wins++
		}
		counts[outcomeKey{r.StartingTurn, r.Won}]++
		totals[r.StartingTurn]++
		turns[r.StartingTurn] = append(turns[r.StartingTurn], float64(r.Turns))
	}

	order := make([]model.StartingTurn, 0, len(totals))
	for t := range totals {
		order = append(order, t)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Order() < order[j].Order() })

	for _, t := range order {
		total := totals[t]
		for _, won := range []bool{true, false} {
			n := counts[outcomeKey{t, won}]
			res.Stats = append(res.Stats, model.TurnOrderStat{
				StartingTurn: t,
				Won:          won,
				Count:        n,
				Fraction:     float64(n) / float64(total),
			})
		}

		five := FiveNumber(turns[t])
		res.TurnCounts = append(res.TurnCounts, model.TurnCountSummary{
			StartingTurn: t,
			Games:        len(turns[t]),
			Min:          five[0],
			Q1:           five[1],
			Median:       five[2],
			Q3:           five[3],
			Max:          five[4],
		})
	}
	return res
}

// FiveNumber returns min, first quartile, median, third quartile and max of values.
// values is not modified; an empty slice yields zeros.
func FiveNumber(values []float64) [5]float64 {
	if len(values) == 0 {
		return [5]float64{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return [5]float64{
		sorted[0],
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
		sorted[len(sorted)-1],
	}
}

// quantile returns the p-quantile of a pre-sorted (ascending) slice, interpolating
// linearly between the two nearest order statistics.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
