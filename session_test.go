package irc

import (
	"errors"
	"io"
	"sync"
	"testing"
)

type closeCounter struct {
	mu sync.Mutex
	n  int
}

func (c *closeCounter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return nil
}

var _ io.Closer = (*closeCounter)(nil)

func newTestSession(changes *[]State) *Session {
	var mu sync.Mutex
	return newSession("irc.example.net:6667", &Config{Nick: "me"}, func(s *Session, from, to State) {
		mu.Lock()
		defer mu.Unlock()
		if changes != nil {
			*changes = append(*changes, to)
		}
	})
}

func TestCanTransition(t *testing.T) {
	all := []State{StateDisconnected, StateConnecting, StateRegistering, StateConnected, StateClosing, StateClosed}
	legal := map[[2]State]bool{
		{StateDisconnected, StateConnecting}: true,
		{StateDisconnected, StateClosing}:    true,
		{StateConnecting, StateRegistering}:  true,
		{StateConnecting, StateClosing}:      true,
		{StateRegistering, StateConnected}:   true,
		{StateRegistering, StateClosing}:     true,
		{StateConnected, StateClosing}:       true,
		{StateClosing, StateClosed}:          true,
	}
	for _, from := range all {
		for _, to := range all {
			if got := canTransition(from, to); got != legal[[2]State{from, to}] {
				t.Errorf("canTransition(%s, %s) = %v", from, to, got)
			}
		}
	}
}

func TestSession_lifecycle(t *testing.T) {
	var changes []State
	s := newTestSession(&changes)
	if s.State() != StateDisconnected || s.Nick() != "me" {
		t.Fatalf("unexpected initial session: %s nick %s", s.State(), s.Nick())
	}

	if err := s.transition(StateConnecting); err != nil {
		t.Fatal(err)
	}
	conn := &closeCounter{}
	if err := s.attach(conn); err != nil {
		t.Fatal(err)
	}
	s.registered("me_")
	if s.State() != StateConnected || s.Nick() != "me_" {
		t.Errorf("expected connected as me_; got %s as %s", s.State(), s.Nick())
	}
	s.registered("me_")

	if err := s.enqueue([]byte("PING :x\r\n")); err != nil {
		t.Errorf("enqueue on an open session: %v", err)
	}

	cause := errors.New("gone")
	if !s.close(cause) {
		t.Errorf("first close should report true")
	}
	if s.close(errors.New("again")) {
		t.Errorf("second close should report false")
	}
	if !errors.Is(s.Err(), cause) {
		t.Errorf("expected the first cause; got %v", s.Err())
	}
	if conn.n != 1 {
		t.Errorf("expected the connection to be closed once; closed %d times", conn.n)
	}
	if err := s.enqueue([]byte("PING :x\r\n")); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed; got %v", err)
	}

	s.finish()
	s.finish()
	select {
	case <-s.Done():
	default:
		t.Errorf("Done was not closed")
	}

	expected := []State{StateConnecting, StateRegistering, StateConnected, StateClosing, StateClosed}
	if len(changes) != len(expected) {
		t.Fatalf("expected changes %v; got %v", expected, changes)
	}
	for i := range expected {
		if changes[i] != expected[i] {
			t.Errorf("change %d: expected %s; got %s", i, expected[i], changes[i])
		}
	}
}

func TestSession_invalidTransition(t *testing.T) {
	s := newTestSession(nil)
	if err := s.transition(StateConnected); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition; got %v", err)
	}
	if err := s.attach(&closeCounter{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition; got %v", err)
	}
	s.finish()
	if err := s.transition(StateConnecting); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("closed is terminal; got %v", err)
	}
}

func TestSession_attachAfterClose(t *testing.T) {
	s := newTestSession(nil)
	_ = s.transition(StateConnecting)
	s.close(nil)
	if err := s.attach(&closeCounter{}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed; got %v", err)
	}
}

func TestSession_quittingClearsCause(t *testing.T) {
	s := newTestSession(nil)
	s.markQuitting()
	s.close(&ServerError{Reason: "Closing Link"})
	if s.Err() != nil {
		t.Errorf("a requested quit should not record a cause; got %v", s.Err())
	}
	if !s.isQuitting() {
		t.Errorf("expected quitting")
	}
}

func TestState_String(t *testing.T) {
	if StateRegistering.String() != "registering" {
		t.Errorf("got %q", StateRegistering.String())
	}
	if State(42).String() != "State(42)" {
		t.Errorf("got %q", State(42).String())
	}
}
