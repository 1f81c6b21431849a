package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/ingest"
	"github.com/pable/go-hero-metrics/internal/model"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cleaned records as CSV or XLSX",
	Long: `Write the records that passed validation, with normalized class names, to a CSV or
XLSX file. The format follows the output extension; "-" writes CSV to stdout.

Starting turn and outcome are written as 1/0 codes, so the output can be read back
with --file.

Example:
  herometrics export --out games.xlsx
  herometrics --file games.xlsx summary`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file path (.csv or .xlsx; - for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	recs, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, noGames)
		return nil
	}

	if exportOut == "-" {
		return ingest.WriteCSV(os.Stdout, recs)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := writeRecords(f, exportOut, recs); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(recs), exportOut)
	return nil
}

func writeRecords(f *os.File, path string, recs []model.MatchRecord) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ingest.WriteXLSX(f, recs, cfg.Source.SheetName)
	case ".csv", "":
		return ingest.WriteCSV(f, recs)
	default:
		return fmt.Errorf("unsupported export format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}
