// Package flows contains pure-function orchestrators for every session Manager
// operation.
//
// Each flow function (RunRehydrate, RunLogin, RunLogout) accepts a typed
// dependency struct and returns results without side-effects beyond those
// dependencies. The Manager owns the in-memory Identity and applies the
// returned result under its own lock.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the session store, the token decoder,
// audit emission, and metrics. They do NOT own any of these resources;
// ownership stays with the Manager.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import docAuth (to avoid import cycles).
//   - Perform I/O directly; all I/O is mediated through dependency interfaces.
package flows
