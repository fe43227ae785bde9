// Package rate throttles outgoing login and signup submissions.
//
// # Backends
//
//   - [Local]: per-key token buckets held in process memory.
//   - [Window]: fixed-window counters in Redis (INCR plus EXPIRE on the first
//     hit), shared by every process pointed at the same server. Keys are
//     "<prefix>:rl:<key>".
//
// Callers key attempts by lower-cased email. The package only answers
// allow/deny; it never talks to the API.
package rate
