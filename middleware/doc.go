// Package middleware exposes HTTP adapters that turn route guard decisions into
// responses: admitted requests reach the handler with the identity in their
// context, everything else is redirected.
//
// # Guards
//
//   - [Guard]: fixed access level for the wrapped handler.
//   - [Routes]: level looked up per request in a [docAuth.RouteTable].
//   - [RequireAuthenticated], [RequireAdmin]: shorthands for Guard.
//
// Every guard waits for session rehydration before deciding.
//
// # What this package must NOT do
//
//   - Decode tokens or touch the session store (the Manager owns both).
//   - Make admission decisions itself; it only renders docAuth.Decide results.
package middleware
