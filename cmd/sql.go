package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/report"
	"github.com/pable/go-hero-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the loaded records",
	Long: `Load the records into an in-memory SQLite database and run an arbitrary SQL query,
printing the results as a table. Nothing is written to disk.

Schema overview:
  records(row_id, opponent_name, opponent_class, opponent_level, opponent_hp,
    self_class, self_level, self_hp, starting_turn TEXT ('First'|'Second'),
    turns, won INTEGER (0|1))
  class_matchups(self_class, opponent_class, games_played, games_won, win_pct)

Example: herometrics sql "SELECT self_class, AVG(turns) FROM records GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	rootCmd.AddCommand(sqlCmd)
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, noGames)
		return nil
	}

	db, err := openRecordsDB(recs)
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}

// openRecordsDB returns an in-memory database holding recs.
func openRecordsDB(recs []model.MatchRecord) (*storage.DB, error) {
	db, err := storage.Open(storage.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ReplaceRecords(recs); err != nil {
		db.Close()
		return nil, fmt.Errorf("load records: %w", err)
	}
	return db, nil
}
