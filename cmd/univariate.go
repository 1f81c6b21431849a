package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/report"
)

var univariateMetrics []string

var univariateCmd = &cobra.Command{
	Use:   "univariate",
	Short: "Show per-group means of the continuous game metrics",
	Long: `Group games by outcome, starting turn, own class and opponent class and show the
mean opponent health, number of turns, opponent level and own health of each group.

Metrics: opponent_hp, turns, opponent_level, self_hp`,
	Args: cobra.NoArgs,
	RunE: runUnivariate,
}

func init() {
	univariateCmd.Flags().StringSliceVar(&univariateMetrics, "metric", []string{string(model.MetricOpponentHP)},
		"metric(s) to mark in the table; repeat or comma-separate")
	rootCmd.AddCommand(univariateCmd)
}

func runUnivariate(cmd *cobra.Command, args []string) error {
	metrics, err := parseMetrics(univariateMetrics)
	if err != nil {
		return err
	}
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	for _, m := range metrics {
		tbl, err := aggregator.UnivariateBreakdown(recs, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\n--- %s ---\n\n", m.Title())
		report.PrintUnivariateTable(os.Stdout, tbl)
	}
	return nil
}

func parseMetrics(names []string) ([]model.Metric, error) {
	out := make([]model.Metric, 0, len(names))
	for _, n := range names {
		m := model.Metric(n)
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %q", aggregator.ErrUnknownMetric, n)
		}
		out = append(out, m)
	}
	return out, nil
}
