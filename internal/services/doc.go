// Package services holds the read-side business logic behind the dashboard API.
//
// ChurnService answers overview, segment, high-value, insight and describe
// queries over a dataset loaded once at startup. Every query accepts an
// analytics.Filter and works on a filtered view of the immutable records, so
// handlers share a single service without locking.
//
// HealthService reports liveness, dataset readiness and build information.
//
// Services return the sentinel errors in errors.go; the HTTP layer maps them to
// problem details.
package services
