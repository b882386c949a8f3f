package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories a run reads from and writes to.
// This is the single source of truth for file locations.
type Paths struct {
	BaseDir    string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves the report and log directories against baseDir.
// Absolute directories are kept as given.
func NewPaths(baseDir, reportsDir, logsDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	if reportsDir == "" {
		reportsDir = DefaultReportsDir
	}
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}

	return &Paths{
		BaseDir:    baseDir,
		ReportsDir: resolve(baseDir, reportsDir),
		LogsDir:    resolve(baseDir, logsDir),
	}, nil
}

// PathsFromConfig builds the paths of a run from the loaded configuration
func PathsFromConfig(cfg *Config) (*Paths, error) {
	return NewPaths("", cfg.Report.OutputDir, filepath.Dir(cfg.Logging.FilePath))
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates every directory the run writes into
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path of a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// ResolveDataPath resolves a dataset path against the base directory
func (p *Paths) ResolveDataPath(path string) string {
	return resolve(p.BaseDir, path)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
