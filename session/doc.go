// Package session provides the durable key-value Session Store that keeps the
// signed-in DocCare profile and bearer token across process restarts, plus the
// profile codec used to serialize the profile into it.
//
// # Store contract
//
// A [Store] is a dumb string key-value surface: Get, Set, Remove. Removing an
// absent key is not an error. Backends: [MemoryStore], [FileStore],
// [RedisStore] and [SQLiteStore].
//
// # Architecture boundaries
//
// This package owns persistence and the [Profile] model. It does NOT decode
// tokens, judge expiry, or make admission decisions; those belong to the
// session Manager and the route guard.
//
// # What this package must NOT do
//
//   - Import docAuth or jwt (no upward imports).
//   - Hold in-memory session state beyond what a backend needs to persist.
package session
