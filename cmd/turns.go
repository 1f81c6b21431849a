package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/pipeline"
	"github.com/pable/go-hero-metrics/internal/report"
)

var turnsFilters filterFlags

var turnsCmd = &cobra.Command{
	Use:   "turns",
	Short: "Show win share and game length by starting turn",
	Long: `Show, for one own class and level range, the share of games won and lost when
going first or second, and the five-number summary of the number of turns.
With --opponent a second panel restricted to that opponent class follows the
class-wide one.`,
	Args: cobra.NoArgs,
	RunE: runTurns,
}

func init() {
	turnsFilters.register(turnsCmd)
	rootCmd.AddCommand(turnsCmd)
}

func runTurns(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	f, err := turnsFilters.resolve(recs)
	if err != nil {
		return err
	}
	return printTurnPanels(recs, f)
}

// printTurnPanels prints the class-wide turn-order panel and, when an opponent is
// selected, the panel restricted to it.
func printTurnPanels(recs []model.MatchRecord, f model.Filters) error {
	res, err := pipeline.Analyze(recs, f, nil)
	if err != nil {
		return err
	}
	printTurnOrder(fmt.Sprintf("%s Stats", res.TurnOrder.Filters.SelfClass), res.TurnOrder)
	if res.TurnOrderVs != nil {
		printTurnOrder(fmt.Sprintf("Vs %s", res.TurnOrderVs.Filters.OpponentClass), *res.TurnOrderVs)
	}
	return nil
}

func printTurnOrder(headline string, res model.TurnOrderResult) {
	fmt.Fprintf(os.Stdout, "\n=== %s - %d Games - %d Wins ===\n\n", headline, res.Games, res.Wins)
	if res.Games == 0 {
		fmt.Fprintln(os.Stdout, "No games match the selected filters.")
		return
	}
	report.PrintTurnOrderTable(os.Stdout, res)
	fmt.Fprintf(os.Stdout, "\n--- Number of Turns ---\n\n")
	report.PrintTurnCountTable(os.Stdout, res.TurnCounts)
}
