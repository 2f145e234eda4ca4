package irc

import (
	"bufio"
	"bytes"
	"context"
	"encoding"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-log/log"
	textencoding "golang.org/x/text/encoding"

	"github.com/Travis-Britz/ircore/ircdial"
)

// maxLineLength bounds the lines accepted from the server.
// RFC 1459 allows 512 bytes, but some networks send more; 8191 more bytes leaves room for IRCv3 tags.
const maxLineLength = 512 + 8191

// A Client manages connections to an IRC server.
// It reads IRC lines from the connection, tracks the little state the protocol core needs,
// and submits each parsed Message to its Dispatcher.
//
// A Client makes one connection at a time. Each connection is a Session.
type Client struct {

	// DialFn opens the connection. The returned connection can be any io.ReadWriteCloser:
	// irc, ircs, ws, wss, a server mock, etc.
	// The only requirement is that the stream consists of CRLF-delimited IRC messages.
	//
	// NewClient sets DialFn to dial Config.WebSocketURL when it is set, and Config.Addr() over TCP otherwise.
	DialFn func(ctx context.Context, addr string) (io.ReadWriteCloser, error)

	// ReadFilter, when not nil, wraps the raw connection reader before bytes are decoded from the
	// configured character encoding. It is the place to repair broken legacy byte sequences.
	ReadFilter func(io.Reader) io.Reader

	// ErrorLog specifies an optional logger for faults that are not handled by OnFault.
	// If nil, logging is done via the log package's standard logger.
	ErrorLog log.Logger

	// OnFault, when not nil, receives every *ParseError, *ReadError and *WriteError.
	// It is called from the reader or writer goroutine and must not block for long.
	OnFault func(error)

	// OnStateChange, when not nil, is called after every session state transition.
	OnStateChange func(s *Session, from, to State)

	cfg        Config
	dispatcher *Dispatcher
	enc        textencoding.Encoding

	mu      sync.Mutex
	session *Session
}

// NewClient validates cfg and returns a client that submits incoming messages to d.
// A nil d is replaced with an empty Dispatcher.
func NewClient(cfg Config, d *Dispatcher) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &Dispatcher{}
	}
	c := &Client{
		cfg:        cfg,
		dispatcher: d,
		enc:        enc,
	}
	if cfg.WebSocketURL != "" {
		c.DialFn = func(ctx context.Context, _ string) (io.ReadWriteCloser, error) {
			return ircdial.WebSocket(ctx, cfg.WebSocketURL, nil)
		}
	} else {
		c.DialFn = ircdial.TCP
	}
	return c, nil
}

// Config returns a copy of the validated configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Dispatcher returns the dispatcher that receives incoming messages.
func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// Session returns the most recent session, or nil before the first call to Connect.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) addr() string {
	if c.cfg.WebSocketURL != "" {
		return c.cfg.WebSocketURL
	}
	return c.cfg.Addr()
}

// Connect dials the server, starts the session's reader and writer, and queues the login commands.
// It returns once login has been queued; registration completes when the server sends RPL_WELCOME.
//
// The returned session is non-nil whenever a session was created, even if err is not nil.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.session != nil && c.session.State() != StateClosed {
		c.mu.Unlock()
		return nil, ErrAlreadyConnected
	}
	s := newSession(c.addr(), &c.cfg, c.stateChanged)
	c.session = s
	c.mu.Unlock()

	if err := s.transition(StateConnecting); err != nil {
		return s, err
	}

	conn, err := c.DialFn(ctx, s.Addr)
	if err != nil {
		err = fmt.Errorf("dial %s: %w", s.Addr, err)
		s.close(err)
		s.finish()
		return s, err
	}
	if err := s.attach(conn); err != nil {
		// Close was called while dialing
		_ = conn.Close()
		s.finish()
		return s, err
	}

	s.routines.Add(2)
	go c.readLoop(s, conn)
	go c.writeLoop(s, conn)
	go func() {
		s.routines.Wait()
		s.finish()
	}()

	if err := c.Login(c.cfg.LoginParams()); err != nil {
		err = fmt.Errorf("login: %w", err)
		s.close(err)
		return s, err
	}
	return s, nil
}

// Login queues the registration commands: PASS (only when p.Pass is set), NICK, then USER.
func (c *Client) Login(p LoginParams) error {
	if p.Pass != "" {
		if err := c.WriteMessage(Pass(p.Pass)); err != nil {
			return err
		}
	}
	if err := c.WriteMessage(Nick(p.Nick)); err != nil {
		return err
	}
	return c.WriteMessage(User(p.User, p.Mode, p.Realname))
}

// ConnectAndRun connects and blocks until the session closes.
//
// When ctx is done, QUIT is sent and the server is given Config.QuitTimeout to close the link
// before the connection is closed from our side.
//
// ConnectAndRun returns the session error, which is nil when the client quit on its own.
// Handlers still running for already received messages are waited for before it returns.
func (c *Client) ConnectAndRun(ctx context.Context) error {
	s, err := c.Connect(ctx)
	if err != nil {
		if s != nil {
			select {
			case <-s.Done():
			case <-ctx.Done():
				s.close(nil)
				<-s.Done()
			}
		}
		return err
	}
	defer c.dispatcher.Wait()

	select {
	case <-s.Done():
		return s.Err()
	case <-ctx.Done():
	}

	_ = c.Quit(c.cfg.QuitMessage)
	t := time.NewTimer(c.cfg.QuitTimeout)
	defer t.Stop()
	select {
	case <-s.Done():
	case <-t.C:
		s.close(nil)
		<-s.Done()
	}
	return s.Err()
}

// Close ends the current session without sending QUIT and waits for it to reach StateClosed.
// The session error is nil afterwards unless the session had already failed.
func (c *Client) Close() error {
	s := c.Session()
	if s == nil {
		return nil
	}
	s.markQuitting()
	s.close(nil)
	<-s.Done()
	return nil
}

// Nick returns the client's current nickname according to the client's internal state tracking.
// Before the first session it returns the configured nick.
// Nick implements NickTracker.
func (c *Client) Nick() Nickname {
	if s := c.Session(); s != nil {
		return s.Nick()
	}
	return Nickname(c.cfg.Nick)
}

// Send builds a message from cmd and args (see NewMessage) and queues it.
func (c *Client) Send(cmd Command, args ...string) error {
	return c.WriteMessage(NewMessage(cmd, args...))
}

// WriteMessage implements irc.MessageWriter.
// It marshals m, encodes it to the connection's character encoding and appends it to the session's
// outgoing queue. Messages are written in the order they were queued.
//
// Errors writing to the connection are not returned; they are reported as *WriteError through OnFault
// and close the session.
func (c *Client) WriteMessage(m encoding.TextMarshaler) error {
	s := c.Session()
	if s == nil {
		return ErrNotConnected
	}
	b, err := m.MarshalText()
	if err != nil {
		return fmt.Errorf("marshal text: %w", err)
	}
	if !bytes.HasSuffix(b, crlf) {
		b = append(b, crlf...)
	}
	if isQuit(b) {
		// lets the session treat the end of the stream as the expected result of QUIT
		s.markQuitting()
	}
	if b, err = encodeLine(b, c.enc); err != nil {
		return err
	}
	return s.enqueue(b)
}

var crlf = []byte("\r\n")

func isQuit(line []byte) bool {
	return len(line) >= 4 && bytes.EqualFold(line[:4], []byte(CmdQuit)) && (len(line) == 4 || line[4] == ' ' || line[4] == '\r')
}

// readLoop is the only reader of conn.
func (c *Client) readLoop(s *Session, conn io.ReadWriteCloser) {
	defer s.routines.Done()

	var r io.Reader = conn
	if c.cfg.IdleTimeout > 0 {
		if dc, ok := conn.(readDeadliner); ok {
			r = &idleReader{conn: dc, idle: c.cfg.IdleTimeout}
		}
	}
	if c.ReadFilter != nil {
		r = c.ReadFilter(r)
	}
	r = decodeReader(r, c.enc)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		m := new(Message)
		if err := m.UnmarshalText(line); err != nil {
			// A malformed line from the server (or a bug in the parser) is worth reporting
			// but never a reason to drop the connection.
			c.fault(err)
			continue
		}
		m.ReceivedAt = time.Now()
		c.track(s, m)
		c.dispatcher.Submit(c, m)
	}

	// scanner.Err() returns nil at EOF, but a session that ends without being asked to
	// is still a read failure.
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	rerr := &ReadError{Err: err}
	if s.close(rerr) && !s.isQuitting() {
		c.fault(rerr)
	}
}

// track updates session state from incoming messages before they are dispatched,
// so that handlers see the state that results from the message.
func (c *Client) track(s *Session, m *Message) {
	switch m.Command {
	case RplWelcome:
		s.registered(m.Arg(1))
	case CmdNick:
		if m.Source.Nick.Is(s.Nick().String()) {
			s.setNick(m.Last())
		}
	case CmdError:
		var cause error
		if !s.isQuitting() {
			cause = &ServerError{Reason: m.Last()}
		}
		s.close(cause)
	}
}

// writeLoop is the only writer of w. It drains the queue until the session closes it.
func (c *Client) writeLoop(s *Session, w io.Writer) {
	defer s.routines.Done()
	for {
		b, ok := s.out.Pop(context.Background())
		if !ok {
			return
		}
		if _, err := w.Write(b); err != nil {
			werr := &WriteError{Line: b, Err: err}
			c.fault(werr)
			s.close(werr)
		}
	}
}

func (c *Client) stateChanged(s *Session, from, to State) {
	if c.OnStateChange != nil {
		c.OnStateChange(s, from, to)
	}
}

// fault reports errors which are noteworthy but do not stop the reader or writer.
func (c *Client) fault(err error) {
	if c.OnFault != nil {
		c.OnFault(err)
		return
	}
	loggerOrStd(c.ErrorLog).Logf("irc: %v", err)
}

type readDeadliner interface {
	io.Reader
	SetReadDeadline(time.Time) error
}

// idleReader pushes the read deadline forward before every read.
type idleReader struct {
	conn readDeadliner
	idle time.Duration
}

func (r *idleReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(r.idle)); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}
