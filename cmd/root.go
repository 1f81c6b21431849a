package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/config"
)

var (
	cfgPath   string
	sheetID   string
	sheetName string
	filePath  string
	logLevel  string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "herometrics",
	Short: "Hero Realms match-record metrics tool",
	Long: `Load Hero Realms game records from a Google spreadsheet or a local CSV/XLSX file
and compute class matchups, turn-order win rates, level curves and metric breakdowns.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.herometrics/config.toml)")
	pf.StringVar(&sheetID, "sheet-id", "", "Google spreadsheet ID")
	pf.StringVar(&sheetName, "sheet", "", "worksheet name")
	pf.StringVar(&filePath, "file", "", "local .csv or .xlsx record file (overrides the spreadsheet)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("sheet-id") {
		c.Source.SheetID = sheetID
	}
	if flags.Changed("sheet") {
		c.Source.SheetName = sheetName
	}
	if flags.Changed("file") {
		c.Source.File = filePath
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}

	cfg = c
	logger = newLogger(c.Log)
	return nil
}

func newLogger(lc config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
