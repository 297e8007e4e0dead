// Package dataprocessing implements the fetch-normalize-clean pipeline for
// municipal crop production tables.
//
// # Architecture
//
// The package is organized into the following stages:
//
//  1. Fetcher: calls a TableClient up to MaxAttempts times, without delay,
//     until it returns a header and at least one data row
//  2. ColumnMapper: renames raw SIDRA columns (D1N, V, ...) or their labels
//     to semantic field names using the ordered MappingRules
//  3. ExtractMunicipality: splits "Name (code)" into municipio_nome and
//     municipio_codigo_ibge
//  4. CoerceTypes: converts year, value and code fields to numbers
//  5. Clean: drops rows lacking a positive value, a year or a municipality code
//
// Processor chains stages 2 to 5. Each stage returns a new dataset.Dataset
// and never modifies its input.
//
// # Usage
//
//	mapper := dataprocessing.NewColumnMapper(logger)
//	processor := dataprocessing.NewProcessor(mapper, logger, metrics)
//	fetcher := dataprocessing.NewFetcher(client, processor, cfg.Sidra, logger, metrics, tracer)
//
//	ds := fetcher.Fetch(ctx, domain.ProductionQuery{
//	    Years:     []string{"2022", "2023"},
//	    Variables: []string{"214"},
//	    Products:  []string{"2711"},
//	})
//	records := ds.Records()
//
// # Data Flow
//
//	TableClient → [][]string → gota DataFrame → ColumnMapper → dataset.Dataset
//	  → ExtractMunicipality → CoerceTypes → Clean → []dataset.Record
//
// # Error Handling
//
// Fetch never returns an error. Failed attempts are retried and logged; when
// the budget is exhausted, or a stage fails with ErrTransformFailed, the
// result is an empty dataset. Un-normalized data is never returned.
package dataprocessing
