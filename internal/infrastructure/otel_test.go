package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerpulse/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_Exporters(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OTelConfig
		wantErr bool
	}{
		{name: "stdout tracing", cfg: OTelConfig{ServiceName: ServiceName, TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1}},
		{name: "everything off", cfg: OTelConfig{ServiceName: ServiceName, TraceExporter: "none", MetricExporter: "none"}},
		{name: "unknown trace exporter", cfg: OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"}, wantErr: true},
		{name: "unknown metric exporter", cfg: OTelConfig{TraceExporter: "none", MetricExporter: "statsd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			providers, err := InitializeOTel(&cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{Environment: "production", SampleRatio: 0.25})
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "none", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.Equal(t, 0.25, cfg.SampleRatio)
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := providers.Tracer.Start(context.Background(), "reconcile")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Len(t, traceID, 32)

	// Helpers must not panic on a recording span
	AddSpanEvent(ctx, "decoded", map[string]interface{}{"rows": 3, "sheet": "Income", "ok": true, "skus": []string{"A"}})
	SetSpanAttributes(ctx, map[string]interface{}{"document": "orders", "size": int64(10), "ratio": 0.5, "other": struct{}{}})
	RecordError(ctx, errors.New("format not recognized"))
	RecordError(ctx, nil)
}

func TestBusinessMetrics_Prometheus(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordHTTPRequest(ctx, metrics, http.MethodPost, "/api/reconcile", http.StatusOK, 20*time.Millisecond)
	RecordUpload(ctx, metrics, "orders", "xlsx", 2048)
	RecordParseStats(ctx, metrics, "orders", 10, 2, 1)
	RecordIngestError(ctx, metrics, "payouts", errors.New("bad header"))
	RecordReconcileMetrics(ctx, metrics, ReconcileOutcome{Orders: 2, MissingSkus: 1, OrphanPayouts: 1, Duration: time.Millisecond})
	RecordReconcileMetrics(ctx, metrics, ReconcileOutcome{Err: errors.New("boom")})

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "ingest_rows_read_total")
	assert.Contains(t, body, "ingest_coercion_fallbacks_total")
	assert.Contains(t, body, "reconcile_missing_skus_total")
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordHTTPRequest(ctx, nil, http.MethodGet, "/", 200, time.Second)
		RecordUpload(ctx, nil, "orders", "csv", 1)
		RecordParseStats(ctx, nil, "orders", 1, 0, 0)
		RecordIngestError(ctx, nil, "orders", errors.New("x"))
		RecordReconcileMetrics(ctx, nil, ReconcileOutcome{})
	})
}

func TestCollectRuntimeStats(t *testing.T) {
	stats := CollectRuntimeStats(time.Now().Add(-time.Minute))
	assert.Positive(t, stats.GoRoutines)
	assert.Positive(t, stats.CPUCount)
	assert.GreaterOrEqual(t, stats.UptimeSeconds, 60.0)
}
