package irc

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// paramLimit is the maximum number of middle parameters a message may contain.
// Together with the trailing parameter this gives the 15 parameters defined in RFC 2812.
// When parsing, everything after the 14th middle parameter is the trailing parameter.
const paramLimit = 14

// errInvalidChar is returned when encoding a message which contains CR, LF, or NUL.
// Any of those would let a parameter smuggle an extra line onto the connection.
var errInvalidChar = errors.New("message contains CR, LF, or NUL")

// NewMessage constructs a new Message to be sent on the connection
// with cmd as the verb and args as the message parameters.
//
// Only the last argument may contain SPACE (ascii 32, %x20), be empty, or begin with ':'.
// When it does, it is written as the trailing parameter.
// Including SPACE in any other argument is an encoding error.
//
// It is common to use '*' in place of an unused parameter.
func NewMessage(cmd Command, args ...string) *Message {
	cmd.normalize()
	m := &Message{Command: cmd}
	if n := len(args); n > 0 && requiresTrailing(args[n-1]) {
		m.Trailing = args[n-1]
		m.HasTrailing = true
		args = args[:n-1]
	}
	if len(args) > 0 {
		m.Params = make(Params, len(args))
		copy(m.Params, args)
	}
	return m
}

// newTextMessage constructs a message whose final parameter is human-readable text,
// which is always written as the trailing parameter.
func newTextMessage(cmd Command, text string, params ...string) *Message {
	m := NewMessage(cmd, params...)
	m.Trailing = text
	m.HasTrailing = true
	return m
}

func requiresTrailing(p string) bool {
	return p == "" || strings.IndexByte(p, delimParam) >= 0 || p[0] == startTrailing
}

// ParseMessage parses a single line read from an IRC stream.
// A trailing CR-LF (or bare LF) is ignored.
//
// The returned error is always a *ParseError.
func ParseMessage(line string) (*Message, error) {
	m := new(Message)
	if err := m.UnmarshalText([]byte(line)); err != nil {
		return nil, err
	}
	return m, nil
}

// Message represents any incoming or outgoing IRC line.
//
// A message consists of three parts: an optional prefix (origin), the command (verb), and params.
// The final param may be written as the "trailing" param, introduced on the wire by " :",
// which is the only param allowed to contain spaces.
//
// Messages returned by ParseMessage are shared between every handler that receives them
// and must be treated as read-only. Use Clone to get a copy that can be modified.
type Message struct {

	// Raw is the line as it was received, without line endings.
	// It keeps the original case of the command.
	// Raw is empty for messages built with NewMessage.
	Raw string

	// Source is where the message originated from.
	// It's set by the prefix portion of an IRC message.
	//
	// Source should be left empty for messages that will be written to an IRC connection,
	// since servers discard client messages with a prefix other than the client's own nick.
	Source Origin

	// Command is the IRC verb or numeric such as PRIVMSG, NOTICE, 001, etc.
	// It is upper-cased when parsed so that it can be compared to the Cmd and Rpl constants.
	Command Command

	// Params contains the middle parameters, in order.
	// The trailing parameter is kept separately in Trailing.
	Params Params

	// Trailing is the text after the " :" marker.
	Trailing string

	// HasTrailing reports whether the line contained the " :" marker.
	// It distinguishes "PART #foo :" (empty reason) from "PART #foo" (no reason).
	HasTrailing bool

	// ReceivedAt is when the line was read from the connection.
	ReceivedAt time.Time
}

// MarshalText implements encoding.TextMarshaler, mainly for use with irc.MessageWriter.
// The encoded line always ends with CR-LF.
func (m *Message) MarshalText() ([]byte, error) {
	if m.Command == "" {
		return nil, errors.New("marshal text: command is empty")
	}
	if strings.ContainsAny(m.Command.String(), " :\r\n\x00") {
		return nil, fmt.Errorf("marshal text: invalid command %q", m.Command)
	}
	params := m.Params
	trailing, hasTrailing := m.Trailing, m.HasTrailing

	// a last middle param which needs the trailing form, or which would exceed the limit, is written as trailing
	if n := len(params); n > 0 && !hasTrailing && (requiresTrailing(params[n-1]) || n > paramLimit) {
		trailing, hasTrailing = params[n-1], true
		params = params[:n-1]
	}
	if len(params) > paramLimit {
		return nil, fmt.Errorf("marshal text: %w: %d middle params", ErrTooManyParams, len(params))
	}

	buf := bytes.NewBuffer(make([]byte, 0, 512))

	if !m.Source.IsZero() {
		buf.WriteByte(startPrefix)
		buf.WriteString(m.Source.String())
		buf.WriteByte(delimParam)
	}

	buf.WriteString(m.Command.String())

	for i, p := range params {
		if requiresTrailing(p) {
			return nil, fmt.Errorf("marshal text: param %d (%q) must not be empty, contain spaces, or begin with ':'", i+1, p)
		}
		buf.WriteByte(delimParam)
		buf.WriteString(p)
	}
	if hasTrailing {
		buf.WriteByte(delimParam)
		buf.WriteByte(startTrailing)
		buf.WriteString(trailing)
	}

	if bytes.ContainsAny(buf.Bytes(), "\r\n\x00") {
		return nil, fmt.Errorf("marshal text: %w", errInvalidChar)
	}
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler,
// accepting a line read from an IRC stream.
//
// This will unmarshal an arbitrarily long sequence of bytes.
// Length limitations should be implemented at the scanner.
func (m *Message) UnmarshalText(text []byte) error {
	line := strings.TrimRight(string(text), "\r\n")

	// re-using a message to unmarshal a new line should clear old fields
	*m = Message{Raw: line}

	for _, i := range lex(line) {
		switch i.typ {
		case itemEOF:
			return nil
		case itemError:
			return &ParseError{Line: line, Reason: i.val}
		case itemOrigin:
			o, err := ParseOrigin(i.val)
			if err != nil {
				return &ParseError{Line: line, Reason: "invalid origin", Err: err}
			}
			m.Source = o
		case itemCommand:
			m.Command = Command(i.val)
			m.Command.normalize()
		case itemParam:
			m.Params = append(m.Params, i.val)
		case itemTrailing:
			m.Trailing = i.val
			m.HasTrailing = true
		}
	}
	// lex always ends with itemEOF or itemError
	return &ParseError{Line: line, Reason: "unexpected end of scan"}
}

// String returns the line as received, or the encoded line without CR-LF for constructed messages.
func (m *Message) String() string {
	if m.Raw != "" {
		return m.Raw
	}
	b, err := m.MarshalText()
	if err != nil {
		return fmt.Sprintf("%s %s", m.Command, strings.Join(m.Args(), " "))
	}
	return trimCRLF(b)
}

// IsNumeric reports whether the message is a numeric reply, e.g. 001 or 433.
func (m *Message) IsNumeric() bool {
	return m.Command.IsNumeric()
}

// Args returns the middle params followed by the trailing param, if present.
func (m *Message) Args() []string {
	if !m.HasTrailing {
		return m.Params
	}
	args := make([]string, 0, len(m.Params)+1)
	args = append(args, m.Params...)
	return append(args, m.Trailing)
}

// Arg returns the nth argument (starting at 1) counting the trailing param as the last argument,
// or "" if it did not exist.
func (m *Message) Arg(n int) string {
	if n == len(m.Params)+1 && m.HasTrailing {
		return m.Trailing
	}
	return m.Params.Get(n)
}

// Last returns the final argument, which is the trailing param when present.
func (m *Message) Last() string {
	if m.HasTrailing {
		return m.Trailing
	}
	return m.Params.Get(len(m.Params))
}

// Clone creates a deep copy of m, for middleware that need to pass a modified message
// to the next handler without affecting other handlers.
func (m *Message) Clone() *Message {
	c := *m
	if m.Params != nil {
		c.Params = make(Params, len(m.Params))
		copy(c.Params, m.Params)
	}
	return &c
}

// Command is an IRC command such as PRIVMSG, NOTICE, 001, etc.
//
// A command may also be known as the "verb", "event type", or "numeric".
type Command string

var numericCommand = regexp.MustCompile(`^[0-9]{3}$`)

// String implements fmt.Stringer
func (c Command) String() string {
	return string(c)
}

// normalize will modify the command to use consistent casing.
func (c *Command) normalize() {
	*c = Command(strings.ToUpper(c.String()))
}

// Is does a case-insensitive compare between two commands, which is
// useful if a command was given as a string constant.
func (c Command) Is(oc Command) bool {
	return strings.EqualFold(string(c), string(oc))
}

// IsNumeric reports whether c is a three-digit numeric reply code.
func (c Command) IsNumeric() bool {
	return numericCommand.MatchString(string(c))
}

// Params contains the middle parameters of a message.
//
// Prefer the Get method for reading params rather than accessing the slice directly.
type Params []string

// Get returns the nth parameter (starting at 1) from the parameters list,
// or "" (empty string) if it did not exist.
//
// Because parameters have meaning based on their position in the argument list,
// Get does not differentiate between missing and empty parameters.
func (p Params) Get(n int) string {
	if n > len(p) || n < 1 {
		return ""
	}
	return p[n-1]
}
