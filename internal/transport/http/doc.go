// Package http implements the read-only dashboard API.
//
// Handlers stay thin: they parse and validate query parameters, call the
// churn or health service and render JSON with go-chi/render. Errors are
// rendered as RFC 7807 problem details through errors.ErrorHandler.
//
// Routes:
//
//	GET /api/health                    readiness of dataset and report directory
//	GET /api/health/live               liveness
//	GET /api/version                   build information
//	GET /api/dataset                   path, rows, fingerprint, loaded_at
//	GET /api/churn/overview            KPIs; accepts the filter parameters
//	GET /api/churn/segments            available dimensions
//	GET /api/churn/segments/{dimension} breakdown in presentation order
//	GET /api/churn/high-value          high-value vs regular; ?threshold=
//	GET /api/churn/balance             mean balance churned vs retained
//	GET /api/churn/insights            headline findings
//	GET /api/churn/describe            descriptive statistics
//	GET /metrics                       Prometheus scrape endpoint
//
// Filter parameters are geography, age_group, gender and activity. "All" or
// an empty value imposes no constraint; other unknown values answer 400.
package http
