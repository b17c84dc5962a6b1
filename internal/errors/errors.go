package errors

import "errors"

var (
	// Activation errors
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrEmptySelection   = errors.New("empty metric selection")
	ErrAlreadyActivated = errors.New("registry already activated")

	// Control channel errors
	ErrChannelUnavailable = errors.New("control channel unavailable")

	// Sampling errors
	ErrSensorUnavailable = errors.New("sensor unavailable")
)
