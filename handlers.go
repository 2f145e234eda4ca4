package irc

import (
	"encoding"
)

// A Handler responds to an IRC message.
//
// An IRC message may be any type, including PRIVMSG, NOTICE, JOIN, Numerics,
// etc. It is up to the Dispatcher to map incoming messages to the appropriate handlers.
//
// A returned error is reported as a *HandlerError and does not affect other handlers.
// The same holds for a panic.
//
// Handlers must not modify the provided Message; other handlers may be reading it concurrently.
type Handler interface {
	SpeakIRC(MessageWriter, *Message) error
}

// The HandlerFunc type is an adapter to allow the usage of ordinary functions
// as handlers, following the same pattern as http.HandlerFunc.
type HandlerFunc func(MessageWriter, *Message) error

// SpeakIRC calls f(w, m).
func (f HandlerFunc) SpeakIRC(w MessageWriter, m *Message) error {
	return f(w, m)
}

// MessageWriter contains methods for sending IRC messages to a server.
type MessageWriter interface {

	// WriteMessage marshals m and appends it to the client's outgoing message queue.
	// If the encoded text does not end in "\r\n", then the sequence will be appended.
	//
	// The returned error only covers marshaling and queueing.
	// Failures writing to the connection are reported asynchronously as *WriteError.
	//
	// A type may marshal to several "\r\n"-delimited lines; they are queued as one unit
	// and written with a single call to Write.
	WriteMessage(m encoding.TextMarshaler) error
}

// Middleware are functions which accept a handler and return a handler.
type Middleware func(Handler) Handler

func wrap(h Handler, mw ...Middleware) Handler {
	if len(mw) < 1 {
		return h
	}

	wrapped := h
	// loop in reverse to preserve middleware order
	for i := len(mw) - 1; i >= 0; i-- {
		wrapped = mw[i](wrapped)
	}

	return wrapped
}
