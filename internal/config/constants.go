package config

// Application constants
const (
	AppName = "churnlens"

	DefaultDatasetPath        = "data/European_Bank.csv"
	DefaultReportsDir         = "reports"
	DefaultLogsDir            = "logs"
	DefaultLogFile            = "logs/churnlens.log"
	DefaultReportTitle        = "Customer Churn Analysis - European Banking"
	DefaultMaxReportedErrors  = 50
	DefaultHighValueThreshold = 100000.0

	// Rate limiting for the dashboard, requests per second
	DefaultRateLimit = 50
	DefaultBurstSize = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultDimensions are the segment breakdowns computed by a full run, in report order
var DefaultDimensions = []string{
	"geography",
	"activity",
	"products",
	"gender",
	"age_group",
	"balance_segment",
	"value_tier",
}
