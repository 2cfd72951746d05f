package services

import "errors"

var (
	// ErrUnknownSensor is returned when an operation names a sensor type
	// outside the configured set.
	ErrUnknownSensor = errors.New("unknown sensor type")

	// ErrInvalidArgument is returned when a control-plane request is missing
	// a required field.
	ErrInvalidArgument = errors.New("invalid argument")
)
