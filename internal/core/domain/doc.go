// Package domain defines the core business entities for Scanlog.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ScanRecord: One immutable entry in the scan history
//   - HistorySnapshot: The ordered, newest-first view of all records
//   - ContentType: The semantic classification of a decoded payload
//   - ConnectivityState: The outcome of a reachability check
//   - Settings: Application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
