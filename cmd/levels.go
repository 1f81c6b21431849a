package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/normalize"
	"github.com/pable/go-hero-metrics/internal/report"
)

var levelsClass string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show win rate by own level against each opponent class",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&levelsClass, "class", "", "own hero class (default: all classes)")
	rootCmd.AddCommand(levelsCmd)
}

func runLevels(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	class := ""
	if levelsClass != "" {
		class = normalize.Class(levelsClass)
	}
	points := aggregator.LevelWinCurve(recs, class)
	if len(points) == 0 {
		fmt.Fprintf(os.Stdout, "No games played as %s.\n", levelsClass)
		return nil
	}
	fmt.Fprintln(os.Stdout)
	report.PrintLevelCurveTable(os.Stdout, points)
	return nil
}
