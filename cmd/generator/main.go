package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/catalog"
	derrors "github.com/phantomsec/compliance-dataset-generator/internal/domain/errors"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/config"
	"github.com/phantomsec/compliance-dataset-generator/internal/infrastructure/export"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/generator"
	"github.com/phantomsec/compliance-dataset-generator/internal/service/validation"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// Exit codes: 0 for a shipped snapshot (warnings allowed), 1 for fatal
// configuration/generation errors, 2 when validation fails outright.
const (
	exitOK         = 0
	exitFatal      = 1
	exitValidation = 2
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		outputDir   = flag.String("output", "", "output directory (overrides config)")
		seed        = flag.Int64("seed", -1, "base random seed (overrides config)")
		workers     = flag.Int("workers", 0, "worker count (overrides config)")
		customers   = flag.Int("customers", 0, "customer count (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("compliance-dataset-generator %s (built %s)\n", version, buildTime)
		os.Exit(exitOK)
	}

	os.Exit(run(*configPath, *outputDir, *seed, *workers, *customers))
}

func run(configPath, outputDir string, seed int64, workers, customers int) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitFatal
	}
	if outputDir != "" {
		cfg.Dataset.OutputDir = outputDir
	}
	if seed >= 0 {
		cfg.Dataset.Seed = seed
	}
	if workers > 0 {
		cfg.Dataset.Workers = workers
	}
	if customers > 0 {
		cfg.Dataset.CustomerCount = customers
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return exitFatal
	}
	defer logger.Sync()

	logger.Info("starting generation run",
		zap.String("version", version),
		zap.Int64("seed", cfg.Dataset.Seed),
		zap.Int("customers", cfg.Dataset.CustomerCount),
		zap.Int("workers", cfg.Dataset.Workers),
		zap.String("reference_date", cfg.Dataset.ReferenceDate),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	pipeline := generator.NewPipeline(cfg, cat, logger)

	ds, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("generation failed", zap.Error(err), zap.Bool("fatal", derrors.IsFatal(err)))
		return exitFatal
	}

	report := validation.NewQualityValidator(cfg, cat, logger).Validate(ds)
	report.Merge(validation.NewFinancialValidator(cfg, logger).Validate(ds))

	for _, check := range report.Checks {
		switch check.Status {
		case validation.StatusFail:
			logger.Error("check failed",
				zap.String("check", check.Name),
				zap.Int("affected", check.AffectedCount),
				zap.String("detail", check.Detail),
			)
		case validation.StatusWarn:
			logger.Warn("check drifted",
				zap.String("check", check.Name),
				zap.Float64("deviation", check.Deviation),
				zap.String("detail", check.Detail),
			)
		}
	}

	if err := export.NewWriter(logger).Write(cfg.Dataset.OutputDir, ds, report); err != nil {
		logger.Error("export failed", zap.Error(err))
		return exitFatal
	}

	if report.HasFailures() {
		logger.Error("snapshot written but validation failed",
			zap.Int("failed_checks", report.Failed),
			zap.String("dir", cfg.Dataset.OutputDir),
		)
		return exitValidation
	}

	logger.Info("run complete",
		zap.String("snapshot_id", ds.SnapshotID.String()),
		zap.String("dir", cfg.Dataset.OutputDir),
		zap.Int("warned_checks", report.Warned),
	)
	return exitOK
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
