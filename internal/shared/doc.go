// Package shared holds helpers used by more than one churnlens package.
//
// The testutil subpackage provides a capturing slog handler for asserting on
// log output and fixture builders for customer records and dataset files.
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteCustomerCSV(t, t.TempDir(), testutil.SampleCustomers())
package shared
