package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current churnlens release
	Version = "0.3.0"

	// ReportSchemaVersion versions the JSON report document
	ReportSchemaVersion = "v1"

	// APIVersion versions the dashboard API
	APIVersion = "v1"
)

// Stamped by build.go through -ldflags -X
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version      string `json:"version"`
	ReportSchema string `json:"report_schema"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
}

// GetVersionInfo returns the version of the running binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		ReportSchema: ReportSchemaVersion,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the one-line form printed by `churnlens --version`
func (v VersionInfo) String() string {
	return fmt.Sprintf("churnlens %s (commit %s, built %s, %s %s)",
		v.Version, v.GitCommit, v.BuildTime, v.GoVersion, v.Platform)
}
