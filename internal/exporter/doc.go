// Package exporter writes normalized production datasets as CSV or XLSX.
//
// Columns follow a fixed order: the semantic fields in their canonical
// order, then any passthrough columns sorted by name. Missing cells are
// written empty.
//
// Example usage:
//
//	// Stream an export to an HTTP response
//	err := exporter.Write(w, exporter.FormatXLSX, ds)
//
//	// Or save it next to other reports
//	err = exporter.WriteFile("reports/producao_2023.csv", ds, logger)
package exporter
