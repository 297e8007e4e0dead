// Package config provides centralized configuration management for agrostats.
// It loads settings from the environment and an optional YAML file, validates
// them, and exposes the fixed reference data (crop list, variable codes) the
// production pipeline works with.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. config.yaml or configs/config.yaml
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern AGRO_<SECTION>_<KEY>:
//
//	AGRO_SERVER_PORT=8000
//	AGRO_SIDRA_BASE_URL=https://apisidra.ibge.gov.br
//	AGRO_SIDRA_MAX_ATTEMPTS=3
//	AGRO_QUERY_MAX_YEAR=2025
//	AGRO_LOGGING_LEVEL=debug
//	AGRO_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Year Range
//
// Query.MinYear and Query.MaxYear are both inclusive. A year token is accepted
// when it has four digits and lies within that range, or when it is the
// literal "last".
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a fully populated configuration that needs no
// environment variables or files.
package config
