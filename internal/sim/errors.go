package sim

import "errors"

var (
	// ErrUnknownJoint indicates a command addressed a joint ID that is not
	// in the joint table.
	ErrUnknownJoint = errors.New("sim: unknown joint")

	// ErrNegativePayload indicates a payload mass below zero.
	ErrNegativePayload = errors.New("sim: payload mass must be non-negative")

	// ErrInvalidConfig indicates a headless run configuration that cannot
	// make progress.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)
