package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-hero-metrics/internal/aggregator"
	"github.com/pable/go-hero-metrics/internal/cache"
	"github.com/pable/go-hero-metrics/internal/model"
	"github.com/pable/go-hero-metrics/internal/normalize"
	"github.com/pable/go-hero-metrics/internal/pipeline"
	"github.com/pable/go-hero-metrics/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a session over the configured record log. Records are fetched once and
kept in memory; 'reload' fetches them again. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type shell struct {
	ctx     context.Context
	timeout time.Duration
	pipe    *pipeline.Pipeline
	key     cache.Key
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	p, key, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	timeout, _ := cfg.GetSourceTimeout()
	sh := &shell{ctx: ctx, timeout: timeout, pipe: p, key: key}

	cGreeting.Println("herometrics shell")
	cMuted.Printf("source %s\n", key)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("herometrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "reload":
			sh.reload()
		case "summary":
			sh.withRecords(func(recs []model.MatchRecord) { shellSummary(recs) })
		case "matchups":
			sh.withRecords(func(recs []model.MatchRecord) { shellMatchups(recs, args) })
		case "turns":
			sh.withRecords(func(recs []model.MatchRecord) { shellTurns(recs, args) })
		case "levels":
			sh.withRecords(func(recs []model.MatchRecord) { shellLevels(recs, args) })
		case "univariate":
			sh.withRecords(func(recs []model.MatchRecord) { shellUnivariate(recs, args) })
		case "records":
			sh.withRecords(func(recs []model.MatchRecord) { shellRecords(recs, args) })
		case "sql":
			query := strings.TrimSpace(strings.TrimPrefix(line, name))
			if query == "" {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			sh.withRecords(func(recs []model.MatchRecord) { shellSQL(recs, query) })
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"summary", "games, win rate and class matchups"},
		{"matchups [class]", "class matchup win rates"},
		{"turns [class] [low-high] [opponent]", "win share and game length by starting turn"},
		{"levels [class]", "win rate by own level per opponent class"},
		{"univariate [metric]", "group means; metric marks a column"},
		{"records [n]", "list the last n cleaned records"},
		{"sql <query>", "query the records table"},
		{"reload", "fetch the records again"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// withRecords loads the records (from cache after the first call) and runs fn.
func (sh *shell) withRecords(fn func([]model.MatchRecord)) {
	ctx, cancel := context.WithTimeout(sh.ctx, sh.timeout)
	defer cancel()
	recs, err := sh.pipe.Load(ctx, sh.key)
	if errors.Is(err, pipeline.ErrNoData) {
		cMuted.Println(noGames)
		return
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fn(recs)
}

func (sh *shell) reload() {
	ctx, cancel := context.WithTimeout(sh.ctx, sh.timeout)
	defer cancel()
	recs, err := sh.pipe.Reload(ctx, sh.key)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cMuted.Printf("loaded %d records\n", len(recs))
}

func shellSummary(recs []model.MatchRecord) {
	report.PrintOverview(os.Stdout, aggregator.Overview(recs))
	report.PrintMatchupTable(os.Stdout, aggregator.ClassMatchupSummary(recs))
}

func shellMatchups(recs []model.MatchRecord, args []string) {
	stats := aggregator.ClassMatchupSummary(recs)
	if len(args) > 0 {
		class := normalize.Class(args[0])
		kept := stats[:0]
		for _, s := range stats {
			if s.SelfClass == class {
				kept = append(kept, s)
			}
		}
		stats = kept
	}
	printMatchups(stats)
}

func shellTurns(recs []model.MatchRecord, args []string) {
	var class, levels, opponent string
	if len(args) > 0 {
		class = args[0]
	}
	if len(args) > 1 {
		levels = args[1]
	}
	if len(args) > 2 {
		opponent = args[2]
	}
	f, err := parseFilters(recs, class, opponent, levels)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Printf("\n--- %s, levels %s ---\n", f.SelfClass, f.Levels)
	if err := printTurnPanels(recs, f); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellLevels(recs []model.MatchRecord, args []string) {
	class := ""
	if len(args) > 0 {
		class = normalize.Class(args[0])
	}
	fmt.Println()
	report.PrintLevelCurveTable(os.Stdout, aggregator.LevelWinCurve(recs, class))
}

func shellUnivariate(recs []model.MatchRecord, args []string) {
	metric := model.MetricOpponentHP
	if len(args) > 0 {
		metric = model.Metric(args[0])
	}
	tbl, err := aggregator.UnivariateBreakdown(recs, metric)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Printf("\n--- %s ---\n\n", metric.Title())
	report.PrintUnivariateTable(os.Stdout, tbl)
}

func shellRecords(recs []model.MatchRecord, args []string) {
	n := 20
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			cError.Fprintf(os.Stderr, "invalid count %q\n", args[0])
			return
		}
		n = v
	}
	if n < len(recs) {
		recs = recs[len(recs)-n:]
	}
	report.PrintRecordTable(os.Stdout, recs)
}

func shellSQL(recs []model.MatchRecord, query string) {
	db, err := openRecordsDB(recs)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
}
