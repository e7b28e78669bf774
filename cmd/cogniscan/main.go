package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/cogniscan/cogniscan/internal/config"
	"github.com/cogniscan/cogniscan/internal/importer"
	"github.com/cogniscan/cogniscan/internal/report"
	"github.com/cogniscan/cogniscan/internal/store"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the structured logger for the configured level.
func setupLogging(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	docPath := pflag.Arg(0)

	if cfg.IsDebug() {
		logger.Debug("starting with configuration", "config", cfg.String())
	}

	// Cancel the run on SIGINT/SIGTERM so the store is left consistent.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, docPath, logger); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, docPath string, logger *slog.Logger) error {
	st, err := store.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := importer.NewService(st, cfg.MaxFileSize, logger)
	summary, err := svc.Import(ctx, importer.Request{Path: docPath, PatientID: cfg.PatientID})
	if err != nil {
		return err
	}

	fmt.Printf("Imported patient %d: %d domain scores, %d questions (strategy: %s)\n",
		summary.PatientID, summary.DomainScores, summary.Questions, summaryStrategy(summary))
	for _, warning := range summary.Warnings {
		fmt.Printf("  warning: %s\n", warning.Message)
	}

	if !cfg.Report {
		return nil
	}
	return renderReport(ctx, cfg, st, summary.PatientID, logger)
}

func renderReport(ctx context.Context, cfg *config.Config, st *store.Store, patientID int, logger *slog.Logger) error {
	scores, err := st.FetchDomainScores(ctx, patientID)
	if err != nil {
		return err
	}
	questions, err := st.FetchQuestionResponses(ctx, patientID)
	if err != nil {
		return err
	}
	percentiles, invalid, err := report.NewPopulationCache(st, logger).Percentiles(ctx, patientID)
	if err != nil {
		return err
	}
	patient, err := st.FetchPatient(ctx, patientID)
	if err != nil {
		return err
	}

	outPath := cfg.ReportOut
	if outPath == "" {
		outPath = fmt.Sprintf("%d-report.pdf", patientID)
	}

	data := report.Data{
		Patient:        patient,
		DomainScores:   scores,
		Questions:      questions,
		Percentiles:    percentiles,
		InvalidDomains: invalid,
	}
	if err := report.NewRenderer(logger).Render(data, outPath); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", outPath)
	return nil
}

func summaryStrategy(summary *importer.Summary) string {
	if summary.Strategy == "" {
		return "none"
	}
	return summary.Strategy
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("cogniscan\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
