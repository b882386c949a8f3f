package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "churnlens/internal/errors"
	"churnlens/internal/shared/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CHURN_LOGGING_FILE_PATH", filepath.Join(t.TempDir(), "logs", "churnlens.log"))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDataset(t *testing.T) string {
	t.Helper()
	return testutil.WriteCustomerCSV(t, t.TempDir(), testutil.SampleCustomers())
}

func TestRunCommand(t *testing.T) {
	data := writeDataset(t)
	out := filepath.Join(t.TempDir(), "reports")

	stdout, stderr, err := execute(t, "run", "--data", data, "--out", out, "--formats", "csv,json")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "OVERALL CHURN")
	assert.Contains(t, stdout, "Total: 6 | Churned: 3 | Retained: 3 | Rate: 50.00%")
	assert.Contains(t, stdout, "Report files")
	assert.FileExists(t, filepath.Join(out, "churn_report.json"))
	assert.FileExists(t, filepath.Join(out, "segments_geography.csv"))
	assert.Contains(t, stderr, "run completed")
}

func TestRunCommandMissingDataset(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.csv")

	_, _, err := execute(t, "run", "--data", missing, "--out", t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
	assert.Contains(t, err.Error(), "absent.csv")
}

func TestRunCommandRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "run", "--data", writeDataset(t), "--out", t.TempDir(), "--formats", "docx")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestDescribeCommand(t *testing.T) {
	stdout, _, err := execute(t, "describe", "--data", writeDataset(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "DATASET STATISTICS")
	assert.Contains(t, stdout, "Rows: 6 | Missing values: 0")
}

func TestSegmentsCommand(t *testing.T) {
	stdout, _, err := execute(t, "segments", "--data", writeDataset(t), "--by", "activity")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Active")
	assert.Contains(t, stdout, "Inactive")
	assert.Contains(t, stdout, "Churn Rate")
}

func TestSegmentsCommandUnknownDimension(t *testing.T) {
	_, _, err := execute(t, "segments", "--data", writeDataset(t), "--by", "planet")
	require.Error(t, err)

	assert.Contains(t, err.Error(), `"planet"`)
	assert.Contains(t, err.Error(), "available: geography")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "describe", "--log-level", "loud", "--data", writeDataset(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "churnlens.yaml")
	yaml := "dataset:\n  path: " + writeDataset(t) + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	stdout, stderr, err := execute(t, "segments", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "CHURN BY COUNTRY")
	assert.Empty(t, stderr)
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "churnlens 0.3.0")
}
