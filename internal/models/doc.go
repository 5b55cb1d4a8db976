// Package models defines domain entities and persistence interfaces for the Encore recommendation service.
//
// Persistent entities are database-backed models with full lifecycle management:
//   - [User] : Listener accounts that upload tracks and receive recommendations
//   - [Track] : Catalog entries with genre, play count, and uploader attribution
//   - [Recommendation] : Scored track suggestions produced by the engine
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and (for users and tracks) soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// A Recommendation's identity (user, track, reason, score, creation time) is fixed at construction.
// Only the viewed/liked/dismissed flags mutate afterwards, driven by listener interactions.
package models
