// Package portal implements the DocCare user flows on top of the session
// Manager and the API client: sign in and out, booking, managing one's own
// appointments, and the administrative dashboard.
//
// Flows return the route to navigate to where the original pages redirect.
// They never navigate themselves.
package portal
