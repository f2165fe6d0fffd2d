package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// TransportError reports a failed REST call: either the request never
// completed (Status == 0) or the server answered with a non-2xx status.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ChannelError reports a push-channel failure. It is never surfaced to the
// user; the connection layer reacts by closing and reconnecting.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string { return fmt.Sprintf("push channel: %v", e.Err) }
func (e *ChannelError) Unwrap() error { return e.Err }

// ParseError reports a malformed inbound message. Messages failing to parse
// are dropped and the current view is kept.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse message: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports caller-supplied malformed input, such as invalid
// JSON in the custom metadata field of an add request.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %v", e.Field, e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }
