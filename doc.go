// Package docAuth is the client-side session core of the DocCare appointment
// portal: a session [Manager] that persists the signed-in profile and bearer
// token to a durable [session.Store], and a pure route guard ([Decide]) that
// admits or redirects navigation by access level.
//
// A Manager is built with [New] and [Builder.Build], then [Manager.Rehydrate]
// restores any persisted session once at start. Until rehydration finishes
// the readiness gate ([Manager.Ready], [Manager.Wait]) stays closed and
// identity-dependent views should not render.
//
// # Architecture boundaries
//
// docAuth is the public surface. It exposes [Manager], [Builder], [Config],
// the guard, and value types ([Identity], [Decision], [MetricsSnapshot]). Flow
// orchestration lives in internal/flows; persistence lives in the session
// package; token decoding in the jwt package.
//
// # What this package must NOT do
//
//   - Verify credentials, issue tokens, or talk to the DocCare API.
//   - Keep a package-level session: every Manager is explicitly constructed.
//   - Import any sub-package that re-imports docAuth (no import cycles).
package docAuth
