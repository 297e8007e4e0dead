// Package http implements the HTTP handlers of the production API.
// Handlers are thin: they parse query parameters, call a service and
// render the result. Service errors become RFC 7807 problem documents
// through the shared ErrorHandler.
//
// # Routes
//
//	GET /api/productions            records for years, variables and products
//	GET /api/productions/{product}  records for one crop code
//	GET /api/productions/export     the same records as CSV or XLSX
//	GET /api/data                   dashboard alias taking ano, cultura and variavel
//	GET /api/cultures               crop names keyed by code
//	GET /api/cultures/search?q=     fuzzy crop lookup
//	GET /api/health                 health, readiness and liveness checks
//
// List parameters accept repeated keys or comma-separated values:
//
//	/api/productions?years=2022,2023&products=2711&products=2713
//
// An optional attempts parameter overrides the number of calls made to
// the remote table before giving up.
package http
