package normalize

import (
	"testing"

	"github.com/pable/go-hero-metrics/internal/model"
)

func sample() []model.MatchRecord {
	return []model.MatchRecord{
		{OpponentName: "  Jo   Smith ", OpponentClass: "wizard ", OpponentLevel: 3, SelfClass: "THIEF", SelfLevel: 2, StartingTurn: model.TurnFirst, Turns: 8, Won: true},
		{OpponentName: "ann", OpponentClass: "Fighter", OpponentLevel: 1, SelfClass: "ranger\t", SelfLevel: 7, StartingTurn: "went second", Turns: 12},
		{OpponentName: "Bo", OpponentClass: "cleric", OpponentLevel: 9, SelfClass: "Wizard", SelfLevel: 9, StartingTurn: "1", Turns: 5},
		{OpponentName: "", OpponentClass: "", SelfClass: "", StartingTurn: "odd"},
	}
}

func TestRecord_Canonicalizes(t *testing.T) {
	got := Records(sample())

	if got[0].OpponentName != "Jo Smith" {
		t.Errorf("name: got %q", got[0].OpponentName)
	}
	if got[0].OpponentClass != "Wizard" || got[0].SelfClass != "Thief" {
		t.Errorf("classes: got %q / %q", got[0].OpponentClass, got[0].SelfClass)
	}
	if got[1].SelfClass != "Ranger" || got[1].StartingTurn != model.TurnSecond {
		t.Errorf("row 1: got %+v", got[1])
	}
	if got[2].StartingTurn != model.TurnFirst {
		t.Errorf("code 1 should map to First, got %s", got[2].StartingTurn)
	}
	// Unknown labels are left untouched.
	if got[3].StartingTurn != "odd" {
		t.Errorf("unknown turn label changed: %q", got[3].StartingTurn)
	}
}

func TestRecord_Idempotent(t *testing.T) {
	for _, r := range sample() {
		once := Record(r)
		twice := Record(once)
		if once != twice {
			t.Errorf("not idempotent:\n once  %+v\n twice %+v", once, twice)
		}
	}
}

func TestRecords_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := in[0]
	_ = Records(in)
	if in[0] != before {
		t.Error("Records mutated its input")
	}
}
