package services

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellerpulse/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2024-01-01T00:00:00Z", "abc123", logger)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
	require.NotNil(t, health.Runtime)
	assert.Positive(t, health.Runtime.GoRoutines)

	assert.Equal(t, "alive", hs.LivenessCheck(ctx).Status)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, runtime.Version(), v.GoVersion)
	assert.Equal(t, "abc123", v.BuildID)
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]ReadinessFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			wantStatus: "ready",
		},
		{
			name: "all ready",
			checks: map[string]ReadinessFunc{
				"telemetry": func(context.Context) error { return nil },
			},
			wantStatus: "ready",
		},
		{
			name: "one failing",
			checks: map[string]ReadinessFunc{
				"telemetry": func(context.Context) error { return nil },
				"output":    func(context.Context) error { return errors.New("read-only filesystem") },
			},
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("dev", "", "", logger)
			for name, check := range tt.checks {
				hs.RegisterCheck(name, check)
			}

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Services, len(tt.checks))
			if tt.wantStatus == "not_ready" {
				assert.Equal(t, "read-only filesystem", status.Services["output"].Message)
			}
		})
	}
}
