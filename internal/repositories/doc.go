// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// User and track repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default;
// recommendations are hard-deleted only by the retention sweep.
//
// Key Implementations:
//   - [UserRepository] : Listener account persistence with email-based lookups
//   - [TrackRepository] : Catalog persistence with the genre/artist/recency queries the engine generates candidates from
//   - [RecommendationRepository] : Recommendation records with cooldown, activity, and retention queries
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, track #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
