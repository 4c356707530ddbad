package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"sellerpulse/internal/infrastructure"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	checks    map[string]ReadinessFunc
	startTime time.Time
	logger    *slog.Logger
}

// ReadinessFunc reports whether a dependency can serve requests
type ReadinessFunc func(ctx context.Context) error

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string  `json:"version"`
	GoVersion string  `json:"go_version"`
	OS        string  `json:"os"`
	Arch      string  `json:"arch"`
	BuildTime string  `json:"build_time,omitempty"`
	BuildID   string  `json:"build_id,omitempty"`
	StartTime string  `json:"start_time"`
	Uptime    float64 `json:"uptime"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime, buildID string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		checks:    make(map[string]ReadinessFunc),
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// RegisterCheck adds a named readiness check. Not safe for use once the
// server is serving.
func (hs *HealthService) RegisterCheck(name string, check ReadinessFunc) {
	hs.checks[name] = check
}

// HealthCheck returns overall health status with a runtime snapshot
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	stats := infrastructure.CollectRuntimeStats(hs.startTime)
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   &stats,
	}
}

// ReadinessCheck runs every registered check
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}

	for name, check := range hs.checks {
		if err := check(ctx); err != nil {
			status.Services[name] = ServiceHealth{Status: "not_ready", Message: err.Error()}
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", name),
				slog.String("error", err.Error()))
			continue
		}
		status.Services[name] = ServiceHealth{Status: "ready"}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// Version returns version information
func (hs *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   hs.version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		BuildTime: hs.buildTime,
		BuildID:   hs.buildID,
		StartTime: hs.startTime.Format(time.RFC3339),
		Uptime:    time.Since(hs.startTime).Seconds(),
	}
}
