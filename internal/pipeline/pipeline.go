// Package pipeline runs a record source through ingestion, normalization, aggregation
// and chart construction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/cache"
	"github.com/pable/go-hero-metrics/internal/chartspec"
	"github.com/pable/go-hero-metrics/internal/ingest"
	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/normalize"
	"github.com/pable/go-hero-metrics/internal/source"
)

// ErrNoData is returned by Load when the source holds no valid records.
var ErrNoData = errors.New("no games found")

// Pipeline loads cleaned records from a source, caching them by key.
type Pipeline struct {
	source source.Source
	cache  *cache.Cache
	logger *slog.Logger
}

// New returns a Pipeline. A nil cache gets a private non-expiring one; a nil logger
// discards output.
func New(src source.Source, c *cache.Cache, logger *slog.Logger) *Pipeline {
	if c == nil {
		c = cache.New(0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{source: src, cache: c, logger: logger}
}

// Load returns the cleaned records for key. A cache hit skips fetch and ingestion.
func (p *Pipeline) Load(ctx context.Context, key cache.Key) ([]model.MatchRecord, error) {
	recs, hit, err := p.cache.Load(ctx, key, func(ctx context.Context) ([]model.MatchRecord, error) {
		return p.fetch(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("records loaded", "key", key.String(), "records", len(recs), "cache_hit", hit)
	return recs, nil
}

// Reload drops any cached records for key and loads them again.
func (p *Pipeline) Reload(ctx context.Context, key cache.Key) ([]model.MatchRecord, error) {
	recs, err := p.cache.Refresh(ctx, key, func(ctx context.Context) ([]model.MatchRecord, error) {
		return p.fetch(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("records reloaded", "key", key.String(), "records", len(recs))
	return recs, nil
}

func (p *Pipeline) fetch(ctx context.Context, key cache.Key) ([]model.MatchRecord, error) {
	table, err := p.source.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	res, err := ingest.IngestWithReport(table)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", key, err)
	}
	for _, d := range res.Dropped {
		p.logger.Debug("row dropped", "key", key.String(), "row", d.Index, "reason", d.Reason)
	}
	if n := len(res.Dropped); n > 0 {
		p.logger.Info("rows dropped during ingestion", "key", key.String(), "dropped", n, "kept", len(res.Records))
	}
	if len(res.Records) == 0 {
		return nil, ErrNoData
	}
	return normalize.Records(res.Records), nil
}

// Result holds every table and chart derived from one record set and filter selection.
type Result struct {
	Records       []model.MatchRecord
	Overview      model.Overview
	ClassMatchup  []model.ClassMatchupStat
	TurnOrder     model.TurnOrderResult
	// TurnOrderVs is the turn-order table restricted to Filters.OpponentClass;
	// nil when no opponent is selected.
	TurnOrderVs   *model.TurnOrderResult
	LevelWinCurve []model.LevelWinPoint
	Univariate    map[model.Metric]model.UnivariateTable
	Specs         []chartspec.Spec
}

// Analyze aggregates records and builds their chart specs. The turn-order tables and the
// level curve follow f; an empty f.SelfClass draws the curve over every class.
// TurnOrder always covers every opponent of the class; a set f.OpponentClass adds a
// second table and pair of specs for that opponent alone.
// Unknown metrics yield aggregator.ErrUnknownMetric.
func Analyze(records []model.MatchRecord, f model.Filters, metrics []model.Metric) (Result, error) {
	f = normalizeFilters(f)
	classWide := f
	classWide.OpponentClass = ""

	res := Result{
		Records:       records,
		Overview:      aggregator.Overview(records),
		ClassMatchup:  aggregator.ClassMatchupSummary(records),
		TurnOrder:     aggregator.TurnOrderSummary(records, classWide),
		LevelWinCurve: aggregator.LevelWinCurve(records, f.SelfClass),
		Univariate:    make(map[model.Metric]model.UnivariateTable, len(metrics)),
	}

	res.Specs = append(res.Specs,
		chartspec.MatchupBubble(res.ClassMatchup),
		chartspec.TurnOrderBar(res.TurnOrder.Stats),
		chartspec.TurnCountBox(res.TurnOrder.TurnCounts),
	)
	if f.OpponentClass != "" {
		vs := aggregator.TurnOrderSummary(records, f)
		res.TurnOrderVs = &vs
		res.Specs = append(res.Specs,
			chartspec.Versus(chartspec.TurnOrderBar(vs.Stats), f.OpponentClass),
			chartspec.Versus(chartspec.TurnCountBox(vs.TurnCounts), f.OpponentClass),
		)
	}
	res.Specs = append(res.Specs, chartspec.LevelWinLine(res.LevelWinCurve, f.SelfClass))

	for _, m := range metrics {
		tbl, err := aggregator.UnivariateBreakdown(records, m)
		if err != nil {
			return Result{}, err
		}
		res.Univariate[m] = tbl
		res.Specs = append(res.Specs, chartspec.UnivariateBox(tbl))
	}
	return res, nil
}

// DefaultFilters fills unset filter fields from the records: the alphabetically first
// class and a level range of 1 to one past the highest level seen.
func DefaultFilters(records []model.MatchRecord, f model.Filters) model.Filters {
	f = normalizeFilters(f)
	if f.SelfClass == "" {
		if classes := aggregator.Classes(records); len(classes) > 0 {
			f.SelfClass = classes[0]
		}
	}
	if f.Levels == (model.LevelRange{}) {
		f.Levels = model.LevelRange{Low: 1, High: aggregator.MaxLevel(records) + 1}
	}
	return f
}

func normalizeFilters(f model.Filters) model.Filters {
	f.SelfClass = normalize.Class(f.SelfClass)
	f.OpponentClass = normalize.Class(f.OpponentClass)
	return f
}
