// Package appointment holds the appointment model, booking validation, and the
// administrative dashboard aggregation.
package appointment
