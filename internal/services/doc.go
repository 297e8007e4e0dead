// Package services implements the business logic layer between the HTTP
// handlers and the production pipeline.
//
// # Architecture
//
// Services follow these principles:
//
//  1. Interface-driven design for testability
//  2. Context propagation for cancellation and tracing
//  3. Dependency injection for loose coupling
//
// # Available Services
//
//   - ProductionService: applies query defaults, validates, runs the fetcher
//   - CropService: serves the fixed crop list and resolves crop names
//   - HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Services return domain errors that handlers map to RFC 7807 responses:
//
//   - *ValidationError (wraps ErrInvalidInput) for rejected queries
//   - ErrNoProductionData when the pipeline produced nothing
//   - ErrCropNotFound for unknown crops
//
// # Testing
//
// Services are tested by mocking their collaborators:
//
//	fetcher := new(MockProductionFetcher)
//	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(ds)
//	svc := NewProductionService(validator, fetcher, cfg.Query, logger)
package services
