package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/report"
)

var recordsLast int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the cleaned game records",
	Long: `List the game records that passed validation, in log order.

Columns: opponent name, opponent class, opponent level, opponent ending HP,
own class, own level, own ending HP, starting turn, number of turns, outcome.`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&recordsLast, "last", 0, "only list the N most recent records")
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}
	if recordsLast > 0 && recordsLast < len(recs) {
		recs = recs[len(recs)-recordsLast:]
	}
	report.PrintRecordTable(os.Stdout, recs)
	fmt.Fprintf(os.Stdout, "\n(%d records)\n", len(recs))
	return nil
}
