// Package analytics computes churn statistics over loaded customer records.
//
// Aggregate is the core operation: it partitions records by a KeySelector and
// returns one domain.SegmentSummary per distinct key. The remaining functions
// (Overview, HighValue, BalanceByStatus, Insights, Describe) derive the
// dashboard and report figures from the same records. Every function is pure
// and independent of input order; records are never modified.
package analytics
