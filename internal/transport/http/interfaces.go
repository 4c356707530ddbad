package http

import (
	"context"

	"sellerpulse/internal/services"
	"sellerpulse/pkg/contracts/domain"
)

// ReconciliationServiceInterface defines the reconciliation operation
type ReconciliationServiceInterface interface {
	Reconcile(ctx context.Context, req services.ReconcileRequest) (*services.ReconcileReport, error)
}

// AnalyticsServiceInterface defines the read-only analytics operations
type AnalyticsServiceInterface interface {
	AnalyzeOrders(ctx context.Context, in services.Input) (*services.OrderAnalysis, error)
	ClassifyProducts(ctx context.Context, in services.Input) (*services.ProductAnalysis, error)
}

// MetricsServiceInterface defines the dashboard roll-up
type MetricsServiceInterface interface {
	Compute(ctx context.Context, req services.MetricsRequest) (*domain.Metrics, error)
}

// HealthServiceInterface defines the health and version probes
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() services.VersionInfo
}
