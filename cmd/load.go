package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/cache"
	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/normalize"
	"github.com/pable/go-hero-metrics/internal/pipeline"
	"github.com/pable/go-hero-metrics/internal/source"
)

const noGames = "No games found. Check --sheet-id/--sheet or --file."

// newPipeline validates the effective configuration and wires the record source.
func newPipeline(ctx context.Context) (*pipeline.Pipeline, cache.Key, error) {
	if err := cfg.Validate(); err != nil {
		return nil, cache.Key{}, fmt.Errorf("invalid config: %w", err)
	}
	timeout, _ := cfg.GetSourceTimeout()
	ttl, _ := cfg.GetCacheTTL()

	var (
		src source.Source
		key cache.Key
	)
	switch {
	case cfg.Source.File != "":
		src = source.File{}
		key = cache.Key{Location: cfg.Source.File, Sheet: cfg.Source.SheetName}
	case cfg.Source.APIKey != "":
		api, err := source.NewSheetsAPI(ctx, cfg.Source.APIKey)
		if err != nil {
			return nil, cache.Key{}, err
		}
		src = api
		key = cache.Key{Location: cfg.Source.SheetID, Sheet: cfg.Source.SheetName}
	default:
		src = source.NewGViz(timeout)
		key = cache.Key{Location: cfg.Source.SheetID, Sheet: cfg.Source.SheetName}
	}

	logger.Debug("source selected", "source", fmt.Sprintf("%T", src), "key", key.String())
	return pipeline.New(src, cache.New(ttl), logger), key, nil
}

// loadRecords fetches and cleans the configured records. An empty record set is
// returned as nil, nil so callers can print noGames.
func loadRecords(ctx context.Context) ([]model.MatchRecord, error) {
	p, key, err := newPipeline(ctx)
	if err != nil {
		return nil, err
	}
	timeout, _ := cfg.GetSourceTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	recs, err := p.Load(ctx, key)
	if errors.Is(err, pipeline.ErrNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("records loaded", "records", len(recs), "elapsed", time.Since(start).Round(time.Millisecond))
	return recs, nil
}

// filterFlags are the selections shared by turns, charts and shell.
type filterFlags struct {
	class    string
	opponent string
	levels   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.class, "class", "", "own hero class (default: first class alphabetically)")
	cmd.Flags().StringVar(&f.opponent, "opponent", "", "restrict to one opponent class")
	cmd.Flags().StringVar(&f.levels, "levels", "", "own level range low-high (default: 1 to max level + 1)")
}

// resolve parses the flags and fills unset fields from the records.
func (f *filterFlags) resolve(records []model.MatchRecord) (model.Filters, error) {
	return parseFilters(records, f.class, f.opponent, f.levels)
}

func parseFilters(records []model.MatchRecord, class, opponent, levels string) (model.Filters, error) {
	var flt model.Filters
	if class != "" {
		flt.SelfClass = normalize.Class(class)
	}
	if opponent != "" {
		flt.OpponentClass = normalize.Class(opponent)
	}
	if levels != "" {
		lr, err := model.ParseLevelRange(levels)
		if err != nil {
			return model.Filters{}, err
		}
		flt.Levels = lr
	}
	return pipeline.DefaultFilters(records, flt), nil
}
