// Package app wires the churn analysis components together.
//
// Two entry points exist:
//
//   - RunReport is the batch pipeline behind `churnlens run`. It loads the
//     dataset, builds the report and writes every requested format.
//   - Application is the read-only dashboard behind `churnlens serve`. It
//     loads the dataset once and serves it over HTTP until its context is
//     cancelled.
//
// # Initialization Flow
//
//	1. Resolve paths from the configuration
//	2. Initialize OpenTelemetry and the churn metrics
//	3. Load the dataset (LOAD or PARSING app errors on failure)
//	4. Create services and HTTP handlers
//	5. Configure middleware and routes
//
// # Usage
//
//	a, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
package app
