package api

import (
	"errors"
	"fmt"
)

// APIError is an application-level failure reported by the server's
// error envelope. Its message is surfaced to the user verbatim.
type APIError struct {
	// Code is the machine-readable error code from the envelope.
	Code int

	// Message is the server-authored, human-readable message.
	Message string

	// Details carries any extra context the server attached.
	Details string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is a network-level failure: the request could not
// complete, or the response status was non-2xx with a body that did
// not decode as an error envelope.
type TransportError struct {
	// Status is the HTTP status code, or 0 when the request never
	// produced a response.
	Status int

	// Err is the underlying error, if any.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP error, status %d", e.Status)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "HTTP request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err (or its chain) carries a server
// error envelope.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError reports whether err (or its chain) is a
// network-level failure.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
