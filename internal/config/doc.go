// Package config loads the application configuration.
//
// Values are resolved in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file (SELLERPULSE_CONFIG, or config.yaml / configs/config.yaml)
//	3. Environment variables prefixed with SELLERPULSE_
//
// Environment variables follow the struct layout, for example:
//
//	SELLERPULSE_SERVER_PORT=9000
//	SELLERPULSE_INGEST_MAX_UPLOAD_BYTES=10485760
//	SELLERPULSE_INGEST_FALLBACK_CHARSET=iso-8859-1
//	SELLERPULSE_SOURCES_GOOGLE_CREDENTIALS_FILE=/etc/sellerpulse/sa.json
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
