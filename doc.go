/*
Package irc provides the protocol core of an IRC client: a message codec,
a connection state machine, and asynchronous event dispatch.

This overview provides brief introductions for types and concepts.
The godoc for each type contains expanded documentation.

Jump to the package examples to see what writing client code looks like with this package.

API

These are the main interfaces and structs that you will interact with while using this package:

	// A Handler responds to an IRC message.
	type Handler interface {
		SpeakIRC(MessageWriter, *Message) error
	}

	// A MessageWriter can write an IRC message.
	type MessageWriter interface {
		WriteMessage(encoding.TextMarshaler) error
	}

	// Message represents any incoming or outgoing IRC line.
	type Message struct {
		Source      Origin  // nick!user@host or a server name
		Command     Command // PRIVMSG, NOTICE, 001, ...
		Params      Params  // middle parameters
		Trailing    string  // the parameter after " :"
		HasTrailing bool
		//...
	}

	// A Dispatcher delivers messages to every handler whose filter accepts them.
	type Dispatcher struct {
		//...
	}

	// A Client manages connections to an IRC server.
	func NewClient(cfg Config, d *Dispatcher) (*Client, error)

Client

The Client type provides a simple abstraction around an IRC connection.
Each connection is a Session, which owns exactly one reader goroutine and one writer goroutine.
Outgoing messages go through a FIFO queue, so the order of WriteMessage calls is the order on the wire,
even when many goroutines send at once.

A session moves through the states Disconnected, Connecting, Registering and Connected,
and ends with Closing and Closed. Registration completes when the server sends RPL_WELCOME (001).
The client keeps no other state; everything else is left to handlers.

The client deliberately has no bot policy: it does not answer PING, does not pick another nickname
when the requested one is taken (ERR_NICKNAMEINUSE), and does not reconnect.
Those are a few lines of handler code each, which lets every application choose its own policy:

	d.HandleFunc(irc.CmdPing, func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Pong(m.Last()))
	})

Dispatcher

The Dispatcher is the event hub. Handlers are registered with a Filter and are never removed:

	d := &irc.Dispatcher{}
	d.OnText("!watchtime*", handleCommandWatchtime)
	d.OnJoin(greet).MatchChan("#foo")

Unlike an http.ServeMux, a message is given to every matching handler, not just the first one.
Messages are delivered on the dispatcher's own goroutine, so a slow handler never stalls reading from
the connection. By default the handlers for one message run concurrently; set Ordered to run them
one after another, in registration order.

A handler that returns an error or panics is reported as a *HandlerError and does not affect the other handlers.

MessageWriter

The MessageWriter interface accepts any type that knows how to marshal itself into a line of IRC-encoded text.

Most of the time it makes sense to send a Message struct,
either by using the NewMessage function or any of the related constructors such as irc.Msg, irc.Notice, irc.Describe, etc.

However, it can also be very simple to implement yourself:

	// w is an irc.MessageWriter
	w.WriteMessage(rawLine("PRIVMSG #World :Hello!"))

	type rawLine string
	// MarshalText implements encoding.TextMarshaler
	func (l rawLine) MarshalText() ([]byte, error) {
		return []byte(l), nil
	}

The named Message constructors (irc.Msg, irc.Notice, etc.) should generally be preferred because they explicitly list the available parameters for each command.

Middleware

Middleware are functions which accept a handler and return a handler.
Dispatcher.Use wraps every handler; Registration.Use wraps a single one:

	func logHandler(next irc.Handler) irc.Handler {
		return irc.HandlerFunc(func(w irc.MessageWriter, m *irc.Message) error {
			log.Printf("parsed: %s\n", m)
			return next.SpeakIRC(w, m)
		})
	}

	d.OnText("!kick *", kickHandler).Use(logHandler, requireOp)

Middleware can intercept outgoing messages by decorating the MessageWriter,
and can call the next handler with a modified copy of the message (see Message.Clone).

Errors

Nothing the server sends stops the client except the end of the stream or an ERROR message.
Malformed lines are reported as *ParseError, write failures as *WriteError, the end of the stream as *ReadError,
all through Client.OnFault (or Client.ErrorLog when OnFault is nil).

Message Formatting

This package does not implement message formatting.
That is to say, there are no irc.Msgf or related functions.
Formatting requirements vary widely by application.
The canonical way to write formatted replies in the style of fmt.Printf is to write your own reply helper functions.
For example:

	func replyTof(w irc.MessageWriter, m *irc.Message, format string, args ...interface{}) error {
		target, _ := m.Chan()
		return w.WriteMessage(irc.Msg(target, fmt.Sprintf(format, args...)))
	}
*/
package irc
