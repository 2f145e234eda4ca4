/*
Package irctest provides a mock IRC server for testing clients without a network.

The Server is the client's side of an in-memory connection: pass it to Client.DialFn with Dial.
Lines the client sends are parsed, recorded, and passed to Handler,
which answers through the Server's MessageWriter methods.
*/
package irctest

import (
	"bufio"
	"context"
	"encoding"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	irc "github.com/Travis-Britz/ircore"
)

// NewServer creates a new mock irc server that implements io.ReadWriteCloser.
// Don't forget to close.
func NewServer() *Server {
	s := &Server{changed: make(chan struct{})}
	s.sendReader, s.sendWriter = io.Pipe()
	s.recvReader, s.recvWriter = io.Pipe()

	// should exit when Close() is called
	go s.read()
	return s
}

// Server is a mock IRC server.
type Server struct {
	// Handler is called for every line received from the client, in order.
	// It may be nil, in which case lines are only recorded.
	Handler irc.Handler

	closeOnce sync.Once

	mu       sync.Mutex
	received []string
	writeErr error
	changed  chan struct{} // closed and replaced whenever received grows

	recvReader *io.PipeReader
	recvWriter *io.PipeWriter

	sendReader *io.PipeReader
	sendWriter *io.PipeWriter
}

// Dial has the signature of irc.Client.DialFn and returns s.
func (s *Server) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	return s, nil
}

// Read is how the client reads lines from the server
func (s *Server) Read(p []byte) (int, error) {
	return s.sendReader.Read(p)
}

// Write is how a client sends messages to the server
func (s *Server) Write(p []byte) (int, error) {
	s.mu.Lock()
	err := s.writeErr
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return s.recvWriter.Write(p)
}

// FailWrites makes every following client write fail with err.
func (s *Server) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Close ends the connection in both directions. The client's next read returns io.EOF.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		_ = s.recvWriter.Close()
		_ = s.sendWriter.Close()
	})
	return nil
}

// WriteString sends raw text to the client.
// A line ending is added if str does not already end with "\r\n".
func (s *Server) WriteString(str string) {
	if !strings.HasSuffix(str, "\r\n") {
		str = str + "\r\n"
	}
	if _, err := s.sendWriter.Write([]byte(str)); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		log.Println("mock server write error:", err)
	}
}

// WriteMessage implements irc.MessageWriter, sending m to the client.
func (s *Server) WriteMessage(m encoding.TextMarshaler) error {
	b, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = s.sendWriter.Write(b)
	return err
}

// Received returns the lines received from the client so far, without line endings.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// WaitFor blocks until at least n lines were received or timeout elapses,
// and returns the lines received so far.
func (s *Server) WaitFor(n int, timeout time.Duration) []string {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		s.mu.Lock()
		if len(s.received) >= n {
			lines := append([]string(nil), s.received...)
			s.mu.Unlock()
			return lines
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-deadline.C:
			return s.Received()
		}
	}
}

func (s *Server) read() {
	scanner := bufio.NewScanner(s.recvReader)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		s.mu.Lock()
		s.received = append(s.received, line)
		close(s.changed)
		s.changed = make(chan struct{})
		s.mu.Unlock()

		m, err := irc.ParseMessage(line)
		if err != nil {
			log.Println("unmarshaling error:", err)
			continue
		}
		if s.Handler != nil {
			if err := s.Handler.SpeakIRC(s, m); err != nil {
				log.Println("mock server handler error:", err)
			}
		}
	}
}
