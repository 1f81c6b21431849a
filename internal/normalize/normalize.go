// Package normalize canonicalizes ingested match records so they group consistently.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pable/go-hero-metrics/internal/model"
)

// Record returns a canonical copy of r. Applying it twice yields the same result as once.
func Record(r model.MatchRecord) model.MatchRecord {
	out := r
	out.OpponentName = collapse(r.OpponentName)
	out.OpponentClass = Class(r.OpponentClass)
	out.SelfClass = Class(r.SelfClass)
	if t, err := model.ParseStartingTurn(string(r.StartingTurn)); err == nil {
		out.StartingTurn = t
	}
	return out
}

// Records normalizes every record into a new slice.
func Records(in []model.MatchRecord) []model.MatchRecord {
	out := make([]model.MatchRecord, len(in))
	for i, r := range in {
		out[i] = Record(r)
	}
	return out
}

// Class returns the grouping key for a hero class: single-spaced, title-cased.
func Class(s string) string {
	// A cases.Caser must not be shared between goroutines.
	return cases.Title(language.English).String(collapse(s))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
