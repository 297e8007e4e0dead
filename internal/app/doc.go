// Package app wires the production API together and runs its HTTP server.
//
// # Initialization Flow
//
//  1. OpenTelemetry providers and business metrics
//  2. SIDRA client, column mapper, processor and fetcher
//  3. Production, crop and health services
//  4. Middleware chain and routes
//  5. HTTP server
//
// # Usage
//
//	app, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Run returns once ctx is cancelled and in-flight requests have drained,
// bounded by the configured shutdown timeout. The package never calls
// os.Exit; main decides the exit code.
package app
