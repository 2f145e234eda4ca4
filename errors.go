package irc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrigin is returned by ParseOrigin when given an empty origin.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrTooManyParams is returned when encoding a message with more than 14 middle parameters.
	// RFC 2812 allows 15 parameters in total, and the last one is always written as the trailing parameter.
	ErrTooManyParams = errors.New("message has too many parameters")

	// ErrNotConnected is returned when sending on a Client without a session.
	ErrNotConnected = errors.New("client is not connected")

	// ErrSessionClosed is returned when sending on a session which is closing or closed.
	ErrSessionClosed = errors.New("session is closed")

	// ErrAlreadyConnected is returned by Connect while a previous session is still open.
	ErrAlreadyConnected = errors.New("client already has an open session")

	// ErrInvalidTransition is returned when a session is asked to move to a state
	// that cannot follow its current state.
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrUnknownEncoding is returned for character encodings that could not be resolved.
	ErrUnknownEncoding = errors.New("unknown character encoding")
)

// ParseError is reported when a line read from the connection does not follow the message grammar.
// The line is dropped and reading continues with the next line.
type ParseError struct {
	Line   string
	Reason string

	// Err is the underlying cause, if any (e.g. ErrInvalidOrigin).
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadError is reported once per session when reading from the connection fails or the stream ends
// while the session was not already closing.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "read: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is reported for every queued line that could not be written.
// The writer keeps draining the queue after a WriteError.
type WriteError struct {
	Line []byte
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", trimCRLF(e.Line), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// HandlerError is reported when a handler returns an error or panics.
// It never stops other handlers from receiving the message.
type HandlerError struct {
	// Order is the registration order of the handler that failed.
	Order   uint64
	Message *Message
	Err     error

	// Panic holds the recovered value when the handler panicked.
	Panic interface{}
}

func (e *HandlerError) Error() string {
	var command Command
	if e.Message != nil {
		command = e.Message.Command
	}
	if e.Panic != nil {
		return fmt.Sprintf("handler %d panicked on %s: %v", e.Order, command, e.Panic)
	}
	return fmt.Sprintf("handler %d failed on %s: %v", e.Order, command, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// ServerError is the session cause when the server sent ERROR without the client asking to quit.
type ServerError struct {
	Reason string
}

func (e *ServerError) Error() string {
	return "server closed the link: " + e.Reason
}

func trimCRLF(b []byte) string {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return string(b)
}
