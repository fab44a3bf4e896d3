// Package tasks implements long-running maintenance operations over profiles.
//
// The core abstraction is [Engine], which orchestrates follower refreshes,
// link audits, and bulk exports. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
//
// # Concurrency
//
// [ProfileEngine.RefreshFollowers] and [ProfileEngine.AuditLinks] fan work
// out to a bounded worker pool. Outbound API traffic is throttled with a
// [rate.Limiter] so a large account never trips provider rate limits.
//
// # Progress Reporting
//
// Progress channels are optional. Updates are sent with a non-blocking send,
// so a slow or absent consumer never stalls the operation itself.
package tasks
