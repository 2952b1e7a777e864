// Package audit records batch runs in a project-level log.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line), by
// default at:
//
//	.envcrypt/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Run id (random UUID)
//   - Operation name
//   - The stacks touched and the processed/skipped/failed counts
//
// Values and keys never reach the log.
//
// # Failure Handling
//
// Audit logging is best-effort. Log returns an error so callers can warn,
// but a run never fails just because the log could not be written.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
