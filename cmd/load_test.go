package cmd

import (
	"errors"
	"testing"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/model"
)

func TestParseFilters_Defaults(t *testing.T) {
	recs := []model.MatchRecord{
		{SelfClass: "Wizard", SelfLevel: 6},
		{SelfClass: "Cleric", SelfLevel: 2},
	}

	f, err := parseFilters(recs, "", "", "")
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if f.SelfClass != "Cleric" {
		t.Errorf("default class = %q, want Cleric", f.SelfClass)
	}
	if f.Levels != (model.LevelRange{Low: 1, High: 7}) {
		t.Errorf("default levels = %v, want 1-7", f.Levels)
	}
}

func TestParseFilters_NormalizesClasses(t *testing.T) {
	f, err := parseFilters(nil, " wizard ", "CLERIC", "2-4")
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if f.SelfClass != "Wizard" || f.OpponentClass != "Cleric" {
		t.Errorf("unexpected classes %q / %q", f.SelfClass, f.OpponentClass)
	}
	if f.Levels != (model.LevelRange{Low: 2, High: 4}) {
		t.Errorf("unexpected levels %v", f.Levels)
	}
}

func TestParseFilters_BadLevels(t *testing.T) {
	if _, err := parseFilters(nil, "Thief", "", "high-low"); err == nil {
		t.Error("expected error for malformed level range")
	}
}

func TestParseMetrics(t *testing.T) {
	ms, err := parseMetrics([]string{"turns", "self_hp"})
	if err != nil {
		t.Fatalf("parseMetrics: %v", err)
	}
	if len(ms) != 2 || ms[0] != model.MetricTurns || ms[1] != model.MetricSelfHP {
		t.Errorf("unexpected metrics %v", ms)
	}

	_, err = parseMetrics([]string{"mana"})
	if !errors.Is(err, aggregator.ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestMetricNames(t *testing.T) {
	names := metricNames()
	if len(names) != len(model.Metrics) || names[0] != "opponent_hp" {
		t.Errorf("unexpected metric names %v", names)
	}
}
