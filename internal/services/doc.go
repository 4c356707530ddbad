// Package services implements the business logic layer of SellerPulse.
// Services sit between the HTTP handlers (or the CLI) and the pure
// dataprocessing functions: they decode uploads, pick the right sheet,
// run the folds and record what happened.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Interface-driven collaborators (WorkbookLoader) for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection of *slog.Logger, tracer and metrics
//	4. Failures wrapped in internal/errors.AppError so the transport can
//	   map them to problem details
//
// # Services
//
//   - ReconciliationService: decodes orders, payouts and costs concurrently
//     and joins them into a profit ledger with a summary.
//   - AnalyticsService: order distributions and product quadrants.
//   - MetricsService: the dashboard profit roll-up over collaborator data.
//   - HealthService: liveness, readiness and version information.
//
// No service keeps state between calls; every request is computed from its
// own inputs.
package services
