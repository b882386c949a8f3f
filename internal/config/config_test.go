package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "churnlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)
				assert.Equal(t, DefaultMaxReportedErrors, cfg.Dataset.MaxReportedErrors)
				assert.Equal(t, DefaultHighValueThreshold, cfg.Analysis.HighValueThreshold)
				assert.Equal(t, DefaultDimensions, cfg.Analysis.Dimensions)
				assert.Equal(t, []string{"csv", "json", "xlsx", "txt", "pdf"}, cfg.Report.Formats)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.True(t, cfg.Telemetry.EnableMetrics)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "environment variables override defaults",
			env: map[string]string{
				"CHURN_DATASET_PATH":                  "/tmp/customers.csv",
				"CHURN_ANALYSIS_HIGH_VALUE_THRESHOLD": "50000",
				"CHURN_REPORT_FORMATS":                "CSV, txt",
				"CHURN_SERVER_PORT":                   "9090",
				"CHURN_SERVER_READ_TIMEOUT":           "5s",
				"CHURN_LOGGING_LEVEL":                 "DEBUG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/customers.csv", cfg.Dataset.Path)
				assert.Equal(t, 50000.0, cfg.Analysis.HighValueThreshold)
				assert.Equal(t, []string{"csv", "txt"}, cfg.Report.Formats)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: `
dataset:
  path: customers.xlsx
  sheet: Customers
report:
  output_dir: out
  formats: [json]
server:
  port: 7070
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "customers.xlsx", cfg.Dataset.Path)
				assert.Equal(t, "Customers", cfg.Dataset.Sheet)
				assert.Equal(t, "out", cfg.Report.OutputDir)
				assert.Equal(t, []string{"json"}, cfg.Report.Formats)
				assert.Equal(t, 7070, cfg.Server.Port)
				// untouched sections keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultReportTitle, cfg.Report.Title)
			},
		},
		{
			name: "environment wins over yaml file",
			env:  map[string]string{"CHURN_SERVER_PORT": "6060"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port rejected",
			env:     map[string]string{"CHURN_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unknown report format rejected",
			env:     map[string]string{"CHURN_REPORT_FORMATS": "csv,docx"},
			wantErr: true,
		},
		{
			name:    "unparsable env value rejected",
			env:     map[string]string{"CHURN_ANALYSIS_HIGH_VALUE_THRESHOLD": "lots"},
			wantErr: true,
		},
		{
			name:    "malformed yaml rejected",
			file:    "server: [port",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dataset path", func(c *Config) { c.Dataset.Path = "" }},
		{"negative threshold", func(c *Config) { c.Analysis.HighValueThreshold = -1 }},
		{"no dimensions", func(c *Config) { c.Analysis.Dimensions = nil }},
		{"no formats", func(c *Config) { c.Report.Formats = []string{} }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }},
		{"sample ratio above one", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 8181}
	assert.Equal(t, "0.0.0.0:8181", s.Address())
}

func TestAnalysisThreshold(t *testing.T) {
	assert.Equal(t, DefaultHighValueThreshold, AnalysisConfig{}.Threshold())
	assert.Equal(t, 25000.0, AnalysisConfig{HighValueThreshold: 25000}.Threshold())
}
