package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/pipeline"
	"github.com/pable/go-hero-metrics/internal/render"
)

var (
	chartsOut     string
	chartsJSON    bool
	chartsMetrics []string
	chartsFilters filterFlags
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render every chart to an HTML page",
	Long: `Aggregate the records and render the class matchup bubbles, the turn-order bars,
the game-length boxes, the level curve and the univariate boxes to one HTML page.
With --opponent the turn-order bars and game-length boxes are drawn twice: once
for the whole class and once against that opponent.

With --json the chart descriptors are written as JSON instead of HTML.`,
	Args: cobra.NoArgs,
	RunE: runCharts,
}

func init() {
	chartsCmd.Flags().StringVar(&chartsOut, "out", "herometrics.html", "output file path (- for stdout)")
	chartsCmd.Flags().BoolVar(&chartsJSON, "json", false, "write chart descriptors as JSON")
	chartsCmd.Flags().StringSliceVar(&chartsMetrics, "metric", metricNames(), "univariate metrics to chart")
	chartsFilters.register(chartsCmd)
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	metrics, err := parseMetrics(chartsMetrics)
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
	f, err := chartsFilters.resolve(recs)
	if err != nil {
		return err
	}
	res, err := pipeline.Analyze(recs, f, metrics)
	if err != nil {
		return err
	}

	w := os.Stdout
	if chartsOut != "-" {
		out, err := os.Create(chartsOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
		w = out
	}

	if chartsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Specs); err != nil {
			return fmt.Errorf("encode charts: %w", err)
		}
	} else if err := render.Page(w, res.Specs...); err != nil {
		return err
	}

	if chartsOut != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %d charts for %d games to %s\n", len(res.Specs), res.Overview.Games, chartsOut)
	}
	return nil
}

func metricNames() []string {
	out := make([]string, len(model.Metrics))
	for i, m := range model.Metrics {
		out[i] = string(m)
	}
	return out
}
