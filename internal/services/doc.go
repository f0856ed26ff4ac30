// Package services defines shared utilities consumed by the ingest flow and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp recording IDs, operation names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across subsystems.
//
// Use these helpers when wiring new service logic so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
