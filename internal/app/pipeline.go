package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"churnlens/internal/analytics"
	"churnlens/internal/config"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/exporter"
	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts/domain"
)

// RunOptions override the configured inputs of a single report run
type RunOptions struct {
	DataPath  string
	OutputDir string
	Formats   []string
	// Console receives the written summary; nil disables it.
	Console io.Writer
}

// RunResult describes a finished report run
type RunResult struct {
	RunID  string
	Report *domain.ChurnReport
	Files  []string
}

// RunReport loads the dataset, computes every configured breakdown and writes
// the report files. Loader → aggregator → exporters, no retries.
func RunReport(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts RunOptions) (*RunResult, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	ctx, runID := infrastructure.NewRunContext(ctx)
	ctx = infrastructure.EnsureTraceID(ctx)
	logger = logger.With(slog.String("run_id", runID))
	start := time.Now()

	formatNames := opts.Formats
	if len(formatNames) == 0 {
		formatNames = cfg.Report.Formats
	}
	formats, err := exporter.ParseFormats(formatNames)
	if err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.Report.OutputDir
	}
	paths, err := config.NewPaths("", outputDir, filepath.Dir(cfg.Logging.FilePath))
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()
	metrics, err := infrastructure.CreateChurnMetrics(providers.Meter)
	if err != nil {
		metrics = infrastructure.NoopChurnMetrics()
	}

	builder, err := analytics.NewReportBuilder(cfg.Analysis, logger, metrics)
	if err != nil {
		return nil, err
	}

	dataPath := opts.DataPath
	if dataPath == "" {
		dataPath = cfg.Dataset.Path
	}
	data, err := loadDatasetFrom(ctx, cfg.Dataset, paths.ResolveDataPath(dataPath), logger, metrics)
	if err != nil {
		return nil, err
	}

	report := builder.Build(ctx, cfg.Report.Title, data.Records, data.Info)

	if opts.Console != nil {
		if err := exporter.WriteSummary(opts.Console, report); err != nil {
			return nil, apperrors.NewStorageError("failed to print summary", err)
		}
	}

	files, err := exporter.NewReportWriter(paths, logger, metrics).Write(ctx, report, formats)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "run completed",
		slog.String("report_id", report.ID),
		slog.Int("files", len(files)),
		slog.String("output_dir", paths.ReportsDir),
		slog.Duration("duration", time.Since(start)))

	return &RunResult{RunID: runID, Report: report, Files: files}, nil
}
