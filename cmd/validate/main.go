// Command validate checks flat delimited data files against the XML table
// templates and writes the validation reports. The exit code reflects the
// acceptance threshold so a shell pipeline can gate the downstream load:
// 0 when every validated file meets the threshold, 1 otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/DataGate/internal/config"
	"github.com/JonMunkholm/DataGate/internal/gate"
	"github.com/JonMunkholm/DataGate/internal/load"
	"github.com/JonMunkholm/DataGate/internal/logging"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		tableName    = flag.String("table", "", "table name (detected from the filename when omitted)")
		templatesDir = flag.String("templates", "", "templates directory (overrides TEMPLATES_DIR)")
		outputDir    = flag.String("out", "", "report output directory (overrides OUTPUT_DIR)")
		threshold    = flag.Float64("threshold", -1, "acceptance score 0-100 (overrides ACCEPT_THRESHOLD)")
		batch        = flag.Bool("batch", false, "validate every data file in the input directory")
		doLoad       = flag.Bool("load", false, "stage valid records into the configured database")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <file-or-directory>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}
	input := flag.Arg(0)

	// Load .env if present; real environment wins by default semantics.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}
	if *templatesDir != "" {
		cfg.Paths.TemplatesDir = *templatesDir
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}
	if *threshold >= 0 {
		cfg.Validation.AcceptThreshold = *threshold
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := schema.LoadTemplates(cfg.Paths.TemplatesDir, slog.Default())
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		return 1
	}
	slog.Info("templates loaded", "tables", reg.Count())

	var loader *load.Loader
	if *doLoad {
		if cfg.Database.URL == "" {
			slog.Error("-load requires DATABASE_URL to be configured")
			return 1
		}
		loader, err = load.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("failed to connect to staging database", "error", err)
			return 1
		}
		defer loader.Close()
	}

	service := gate.NewService(cfg, reg, loader)

	info, err := os.Stat(input)
	if err != nil {
		slog.Error("input not found", "path", input, "error", err)
		return 1
	}

	var outcomes []*gate.RunOutcome
	if *batch || info.IsDir() {
		outcomes, err = service.ValidateDir(ctx, input)
	} else {
		var outcome *gate.RunOutcome
		outcome, err = service.ValidateFile(ctx, input, *tableName)
		if outcome != nil {
			outcomes = append(outcomes, outcome)
		}
	}
	if err != nil {
		slog.Error("validation failed", "error", err)
		return 1
	}

	return printSummary(outcomes, cfg.Validation.AcceptThreshold)
}

// printSummary writes the per-file batch summary to stdout and computes
// the exit code.
func printSummary(outcomes []*gate.RunOutcome, threshold float64) int {
	exit := 0
	fmt.Printf("%-30s %-20s %8s %8s %8s %9s  %s\n",
		"FILE", "TABLE", "TOTAL", "VALID", "REJECTED", "SCORE", "STATUS")

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("%-30s %-20s %8s %8s %8s %9s  error: %v\n",
				o.File, o.Table, "-", "-", "-", "-", o.Err)
			exit = 1
			continue
		}
		status := "PASS"
		if !o.Passed {
			status = "FAIL"
			exit = 1
		}
		fmt.Printf("%-30s %-20s %8d %8d %8d %8.2f%%  %s\n",
			o.File, o.Table,
			o.Result.TotalRecords, o.Result.ValidCount(), o.Result.RejectedCount(),
			o.Result.DataQualityScore, status)
		if o.RowsLoaded > 0 {
			fmt.Printf("  staged %d valid records\n", o.RowsLoaded)
		}
		fmt.Printf("  reports: %s\n", o.Artifacts.Dir)
	}

	fmt.Printf("\nacceptance threshold: %.2f%%\n", threshold)
	return exit
}
