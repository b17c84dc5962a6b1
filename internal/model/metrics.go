// Package models defines the data structures shared across the monitor.
package models

// Reading is the last-known value of one activated metric.
type Reading struct {
	// Value is the most recent successfully sampled value
	Value float64

	// Set reports whether the metric has ever been sampled successfully.
	// A metric that is activated but never sampled stays unset; a failed
	// sample never clears a previously set value.
	Set bool
}

// StatusEvent is a one-line lifecycle status message for the status surface.
type StatusEvent struct {
	// TS is the timestamp of the event in ISO 8601 format
	TS string `json:"ts"`

	// Message is the human-readable status line
	Message string `json:"message"`
}
