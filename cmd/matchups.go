package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/normalize"
	"github.com/pable/go-hero-metrics/internal/report"
)

var matchupsClass string

var matchupsCmd = &cobra.Command{
	Use:   "matchups",
	Short: "Show win rates for every class matchup",
	Args:  cobra.NoArgs,
	RunE:  runMatchups,
}

func init() {
	matchupsCmd.Flags().StringVar(&matchupsClass, "class", "", "only show matchups for this own class")
	rootCmd.AddCommand(matchupsCmd)
}

func runMatchups(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	stats := aggregator.ClassMatchupSummary(recs)
	if matchupsClass != "" {
		class := normalize.Class(matchupsClass)
		kept := stats[:0]
		for _, s := range stats {
			if s.SelfClass == class {
				kept = append(kept, s)
			}
		}
		stats = kept
	}
	if len(stats) == 0 {
		fmt.Fprintf(os.Stdout, "No games played as %s.\n", matchupsClass)
		return nil
	}
	printMatchups(stats)
	return nil
}

func printMatchups(stats []model.ClassMatchupStat) {
	fmt.Fprintln(os.Stdout)
	report.PrintMatchupTable(os.Stdout, stats)
}
