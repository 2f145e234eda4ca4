package irc

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/Travis-Britz/ircore/internal/fifo"
)

// State is the connection state of a Session.
//
// A session moves forward through
//
//	Disconnected -> Connecting -> Registering -> Connected
//
// and may move to Closing from any of those. Closing is followed by Closed, which is terminal.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateRegistering
	StateConnected
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateRegistering:
		return "registering"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// next lists the legal transitions out of each state.
var next = map[State][]State{
	StateDisconnected: {StateConnecting, StateClosing},
	StateConnecting:   {StateRegistering, StateClosing},
	StateRegistering:  {StateConnected, StateClosing},
	StateConnected:    {StateClosing},
	StateClosing:      {StateClosed},
}

func canTransition(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// A Session is one connection attempt made by a Client, from dialing until the socket is gone.
// Sessions are never reused: every call to Client.Connect creates a new one.
//
// All methods are safe for concurrent use.
type Session struct {
	// ID identifies the session in logs.
	ID uuid.UUID

	// Addr is the server address that was dialed.
	Addr string

	// Encoding is the character encoding name of the connection; empty means UTF-8.
	Encoding string

	mu       sync.Mutex
	state    State
	nick     Nickname
	conn     io.Closer
	cause    error
	quitting bool

	out      *fifo.Queue[[]byte]
	routines sync.WaitGroup
	finished sync.Once
	done     chan struct{}

	onChange func(s *Session, from, to State)
}

func newSession(addr string, cfg *Config, onChange func(*Session, State, State)) *Session {
	return &Session{
		ID:       uuid.New(),
		Addr:     addr,
		Encoding: cfg.Encoding,
		nick:     Nickname(cfg.Nick),
		out:      fifo.New[[]byte](),
		done:     make(chan struct{}),
		onChange: onChange,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Nick returns the nickname the server currently knows the client by.
// It starts as the configured nick and follows RPL_WELCOME and NICK changes.
func (s *Session) Nick() Nickname {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nick
}

// Done returns a channel that is closed once the session reaches StateClosed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the session closed, or nil while it is open.
// It is also nil when the client asked to leave (QUIT or Close) and the link went down as a result.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s (%s, %s)", s.ID, s.Addr, s.State())
}

// transition moves the session to state to, reporting ErrInvalidTransition for illegal moves.
func (s *Session) transition(to State) error {
	s.mu.Lock()
	from := s.state
	if !canTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	s.state = to
	s.mu.Unlock()

	s.notify(from, to)
	return nil
}

func (s *Session) notify(from, to State) {
	if s.onChange != nil {
		s.onChange(s, from, to)
	}
}

// attach records the established connection and moves to Registering.
func (s *Session) attach(conn io.Closer) error {
	s.mu.Lock()
	from := s.state
	if from != StateConnecting {
		s.mu.Unlock()
		if from >= StateClosing {
			return ErrSessionClosed
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, StateRegistering)
	}
	s.conn = conn
	s.state = StateRegistering
	s.mu.Unlock()

	s.notify(from, StateRegistering)
	return nil
}

// registered handles RPL_WELCOME. The first parameter of 001 is the nick the server assigned.
func (s *Session) registered(nick string) {
	s.mu.Lock()
	if nick != "" {
		s.nick = Nickname(nick)
	}
	s.mu.Unlock()

	// a repeated 001 is not an error worth reporting
	_ = s.transition(StateConnected)
}

func (s *Session) setNick(nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nick = Nickname(nick)
}

// markQuitting records that the client asked the server to end the session.
func (s *Session) markQuitting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quitting = true
}

func (s *Session) isQuitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quitting
}

// enqueue appends an encoded line to the outbound queue.
func (s *Session) enqueue(line []byte) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state >= StateClosing {
		return ErrSessionClosed
	}
	if !s.out.Push(line) {
		return ErrSessionClosed
	}
	return nil
}

// close moves the session to Closing, closes the socket and the outbound queue.
// cause is recorded as the session error unless the client was quitting.
// It reports whether this call started closing the session.
func (s *Session) close(cause error) bool {
	s.mu.Lock()
	from := s.state
	if from >= StateClosing {
		s.mu.Unlock()
		return false
	}
	s.state = StateClosing
	if !s.quitting {
		s.cause = cause
	}
	conn := s.conn
	s.mu.Unlock()

	s.notify(from, StateClosing)
	if conn != nil {
		// closing the socket unblocks the reader
		_ = conn.Close()
	}
	s.out.Close()
	return true
}

// finish moves a closing session to Closed once its goroutines are gone.
func (s *Session) finish() {
	s.finished.Do(func() {
		s.close(nil)
		_ = s.transition(StateClosed)
		close(s.done)
	})
}
