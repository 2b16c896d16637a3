package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/adapter"
	"github.com/111110100/ph-election-smartmatic/internal/config"
	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/pipeline"
	"github.com/111110100/ph-election-smartmatic/internal/progress"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var (
	envPath = flag.String("env", "", "Path to an optional .env overrides file")
)

const (
	exitFailure = 1
	exitUsage   = 2
)

var commandHelp = map[pipeline.Command]string{
	pipeline.CommandTallyNational:         "electorate-wide tallies for the four national races",
	pipeline.CommandTallyLocal:            "per-contest tallies for every local race",
	pipeline.CommandLeadingByProvince:     "leading national candidate per province",
	pipeline.CommandTallyNationalProvince: "per-province tallies for the national races",
	pipeline.CommandStats:                 "transmission, turnout and spoilage statistics",
	pipeline.CommandReadResults:           "load the relations and print a preview",
	pipeline.CommandAll:                   "every report command",
}

func main() {
	flag.Usage = func() { printUsage(nil) }
	flag.Parse()

	// Commands are validated before anything loads: a typo must not cost a
	// dataset parse.
	commands, err := pipeline.ParseCommands(flag.Args())
	if err != nil {
		printUsage(err)
		os.Exit(exitUsage)
	}

	// Load configuration
	cfg, err := config.Load(*envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"component": "generator"},
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	runID := uuid.New().String()
	logger.Info("Starting report generator",
		zap.String("run_id", runID),
		zap.Any("commands", commands),
		zap.String("working_dir", cfg.WorkingDir),
		zap.String("static_dir", cfg.StaticDir),
		zap.Bool("concurrency", cfg.Concurrency),
		zap.Int("workers", cfg.NumberOfWorkers))

	clock := adapter.NewClock()
	runTimer := pipeline.StartTimer(clock, "run")

	// Load the dataset once; every task shares the same immutable snapshot.
	loadTimer := pipeline.StartTimer(clock, "dataset-load")
	ds, err := dataset.Load(cfg.WorkingDir)
	if err != nil {
		logger.Fatal("Failed to load dataset",
			zap.Error(err),
			zap.String("working_dir", cfg.WorkingDir))
	}
	logger.Info("Dataset ready",
		zap.Duration("took", loadTimer.Stop()),
		zap.Int("results", len(ds.Results)),
		zap.Int("precincts", len(ds.Precincts)),
		zap.Int("reporting", ds.ReportingPrecincts()))

	sink, err := report.NewSink(adapter.NewFileSystem(), cfg.StaticDir)
	if err != nil {
		logger.Fatal("Failed to prepare artifact directory",
			zap.Error(err),
			zap.String("static_dir", cfg.StaticDir))
	}

	tasks := pipeline.New(ds, sink).Tasks(commands)

	prog := progress.New(len(tasks), "reports", cfg.ProgressBarOff)
	executor := pipeline.NewExecutor(cfg.Concurrency, cfg.NumberOfWorkers, clock, prog)
	results := executor.Execute(context.Background(), tasks)

	printSummary(results, runTimer.Stop())

	if failed := pipeline.FailedCount(results); failed > 0 {
		logger.Warn("Run finished with failures",
			zap.String("run_id", runID),
			zap.Int("failed", failed),
			zap.Int("tasks", len(results)))
		logger.Flush(2 * time.Second)
		os.Exit(exitFailure)
	}

	logger.Info("Run finished",
		zap.String("run_id", runID),
		zap.Int("tasks", len(results)))
}

// printUsage writes the command reference to stderr, optionally prefixed
// with the rejection reason.
func printUsage(err error) {
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n\n", err)
	}

	fmt.Fprintln(os.Stderr, "Usage: generator [flags] <command> [command ...]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range pipeline.Commands() {
		fmt.Fprintf(os.Stderr, "  %-28s%s\n", c, commandHelp[c])
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

// printSummary renders the per task outcome table and a colored verdict.
func printSummary(results []pipeline.TaskResult, took time.Duration) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Task", "Status", "Took"})
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		table.Append([]string{r.Name, status, r.Took.String()})
	}
	table.Render()

	if failed := pipeline.FailedCount(results); failed > 0 {
		color.Red("%d of %d tasks failed (%s)", failed, len(results), took)
		return
	}
	color.Green("All %d tasks completed (%s)", len(results), took)
}
