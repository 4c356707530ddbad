package config

import "time"

// Application constants
const (
	AppName    = "SellerPulse"
	AppVersion = "1.0.0"
)

// Defaults applied by Default()
const (
	DefaultRequestTimeout = 2 * time.Minute
	DefaultRateLimit      = 20 // requests per second
	DefaultBurstSize      = 40

	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/app.log"

	// Marketplace exports for a busy month stay well below this.
	DefaultMaxUploadBytes  = 32 << 20
	DefaultTopN            = 5
	DefaultFallbackCharset = "windows-1252"
)

// API routes
const (
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)

// Multipart field names accepted by the upload endpoints
const (
	UploadOrders      = "orders"
	UploadPayouts     = "payouts"
	UploadCosts       = "costs"
	UploadPerformance = "performance"
)
