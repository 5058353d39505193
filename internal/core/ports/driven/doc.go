// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PersistenceAdapter: Durable key/value byte store for the history snapshot
//   - DetectionSource: Stream or single-shot producer of decoded payloads
//   - SettingsStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Reachability: Network reachability signal. Without it the
//     connectivity probe always resolves OFFLINE and optional features stay off.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
