// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output, and SIDRA payload fixtures shared by the client, pipeline and
// HTTP tests.
package shared
