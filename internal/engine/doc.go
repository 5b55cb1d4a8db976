// Package engine implements recommendation generation, scoring, and lifecycle actions.
//
// The core abstraction is [Engine], which orchestrates three candidate
// strategies in fixed priority order (genre, artist, trending), suppresses
// tracks recommended within the cooldown window, deduplicates by track
// keeping the first occurrence, and truncates to the caller's cap.
// Generation has no side effects; persistence is a separate [Engine.Save]
// call, which is what makes the batch driver's dry-run mode possible.
//
// The cooldown gate is a point-in-time store query with no locking, so two
// concurrent generation calls for the same user can both recommend the same
// track. That race is accepted, not prevented.
//
// Batch operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package engine
