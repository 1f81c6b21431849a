package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level overview of the record log.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the record log",
	Long: `Display the number of games and the overall win rate, the classes played
and faced, and the class matchup table.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Hero Realms Summary ===\n")
	report.PrintOverview(os.Stdout, aggregator.Overview(recs))
	fmt.Fprintf(os.Stdout, "  Classes played : %s\n", strings.Join(aggregator.Classes(recs), ", "))
	fmt.Fprintf(os.Stdout, "  Classes faced  : %s\n", strings.Join(aggregator.OpponentClasses(recs), ", "))
	fmt.Fprintf(os.Stdout, "  Highest level  : %d\n", aggregator.MaxLevel(recs))

	fmt.Fprintf(os.Stdout, "\n--- Class Matchups ---\n\n")
	report.PrintMatchupTable(os.Stdout, aggregator.ClassMatchupSummary(recs))
	return nil
}
