package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnlens/internal/config"
	"churnlens/internal/dataset"
	"churnlens/internal/shared/testutil"
	"churnlens/pkg/contracts/domain"
)

func loadedChurnService() *ChurnService {
	return NewChurnService(&dataset.Dataset{
		Records: testutil.SampleCustomers(),
		Info:    domain.DatasetInfo{Path: "customers.csv", Rows: 6},
	}, config.AnalysisConfig{}, nil, nil)
}

func TestHealthCheck(t *testing.T) {
	paths, err := config.NewPaths(t.TempDir(), "reports", "logs")
	require.NoError(t, err)

	tests := []struct {
		name    string
		churn   *ChurnService
		paths   *config.Paths
		status  string
		dataset string
	}{
		{"loaded dataset", loadedChurnService(), paths, "ok", "ready"},
		{"no dataset", NewChurnService(nil, config.AnalysisConfig{}, nil, nil), paths, "degraded", "not_ready"},
		{"nil churn service", nil, nil, "degraded", "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", "", tt.paths, tt.churn, nil)
			status := hs.HealthCheck(context.Background())
			assert.Equal(t, tt.status, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Equal(t, tt.dataset, status.Services["dataset"].Status)
			assert.Equal(t, "ready", status.Services["reports"].Status)
		})
	}
}

func TestHealthCheckReportsDirIsFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "reports"), []byte("x"), 0644))
	paths, err := config.NewPaths(base, "reports", "logs")
	require.NoError(t, err)

	status := NewHealthService("1.0.0", "", "", paths, loadedChurnService(), nil).HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "not_ready", status.Services["reports"].Status)
}

func TestLivenessCheck(t *testing.T) {
	status := NewHealthService("1.0.0", "", "", nil, nil, nil).LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
	assert.Contains(t, status.Runtime, "uptime")
}

func TestVersion(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2026-01-01T00:00:00Z", "abc123", nil, nil, logger)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
	assert.Equal(t, "abc123", v["build_id"])
	assert.Equal(t, runtime.GOOS, v["os"])
	assert.True(t, logs.ContainsMessage("HealthService initialized"))

	v = NewHealthService("1.2.3", "", "", nil, nil, nil).Version()
	assert.NotContains(t, v, "build_time")
}
