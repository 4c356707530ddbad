// Package app wires SellerPulse together: configuration, logging,
// OpenTelemetry, the ingestion services and the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config.yaml and SELLERPULSE_* variables
//	2. Initialize logging and OpenTelemetry
//	3. Create the sheet loader and services
//	4. Set up HTTP handlers and middleware
//	5. Configure the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests and
// flushes telemetry. Initialization errors are returned, never passed to
// os.Exit.
package app
