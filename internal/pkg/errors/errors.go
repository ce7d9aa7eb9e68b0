package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrServiceNotFound means the requested fortune service code is unknown.
	ErrServiceNotFound = errors.New("fortune service not found")
	// ErrServiceInactive means the service exists but is switched off.
	ErrServiceInactive = errors.New("fortune service inactive")
	// ErrMissingBirthInfo means the request lacks a required birthdate.
	ErrMissingBirthInfo = errors.New("missing birth information")
)
