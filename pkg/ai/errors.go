package ai

import "errors"

var (
	// ErrTransport covers connection failures and timeouts.
	ErrTransport = errors.New("butler endpoint unreachable")
	// ErrStatus is returned for non-2xx replies.
	ErrStatus = errors.New("butler endpoint returned error status")
	// ErrMalformed is returned when the reply body is not the expected JSON.
	ErrMalformed = errors.New("butler endpoint returned malformed payload")
	// ErrMissingKey is returned by gateway providers without credentials.
	ErrMissingKey = errors.New("api key is required")
)
