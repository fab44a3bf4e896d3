// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ProfileRepository] : Artist profile persistence with username and API token lookups
//   - [LinkRepository] : Ordered social links per profile, including transactional reordering
//   - [SubscriptionRepository] : Cached billing state per profile
//
// Sequence numbers provide stable, human-readable ordering (e.g., profile #42, link #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
