package irc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-log/log"

	"github.com/Travis-Britz/ircore/internal/fifo"
)

// Dispatcher fans incoming messages out to registered handlers.
// Each registration pairs a Filter with a Handler.
// A message is delivered to every handler whose filter accepts it, in registration order.
//
// Registrations are append-only and live as long as the Dispatcher; there is no way to unregister.
// Registering while messages are being dispatched is safe: dispatch works on a snapshot.
//
// The zero value is ready to use.
//
// Handlers are isolated from each other.
// A handler that returns an error or panics is reported through OnFault,
// and the remaining handlers still receive the message.
type Dispatcher struct {

	// Ordered makes the delivery goroutine run every handler for a message to completion,
	// in registration order, before it delivers the next message.
	// By default the handlers for a message each run on their own goroutine,
	// so a slow handler never delays delivery of later messages.
	//
	// Handlers which track state derived from the order of events (channel membership, for example)
	// generally want Ordered.
	Ordered bool

	// OnFault is called for every failed handler invocation.
	// If nil, faults are written to ErrorLog.
	OnFault func(*HandlerError)

	// ErrorLog specifies an optional logger for handler faults.
	// If nil, logging is done via the log package's standard logger.
	ErrorLog log.Logger

	mu          sync.RWMutex
	regs        []*Registration
	order       uint64
	middlewares []Middleware

	startOnce sync.Once
	queue     *fifo.Queue[delivery]
	loopDone  chan struct{}
	pending   counter
}

type delivery struct {
	w MessageWriter
	m *Message
}

// Registration is a filter and handler pair attached to a Dispatcher.
type Registration struct {
	order  uint64
	mu     sync.Mutex // serializes Match and Use
	filter atomic.Pointer[Filter]
	h      atomic.Pointer[Handler]
}

// Order returns the position of the registration; the first registration is 1.
func (r *Registration) Order() uint64 {
	return r.order
}

// Match narrows the registration with additional filters. All filters must accept a message.
func (r *Registration) Match(filters ...Filter) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := All(append([]Filter{*r.filter.Load()}, filters...)...)
	r.filter.Store(&f)
	return r
}

// MatchChan narrows the registration to messages for channel ch.
func (r *Registration) MatchChan(ch string) *Registration {
	return r.Match(MatchChan(ch))
}

// MatchClient narrows the registration to messages caused by the client itself.
func (r *Registration) MatchClient(t NickTracker) *Registration {
	return r.Match(MatchClient(t))
}

// MatchServer narrows the registration to messages from servers.
func (r *Registration) MatchServer() *Registration {
	return r.Match(MatchServer())
}

// Use wraps the registration's handler with middlewares.
// The given middlewares will execute in the order listed.
//
// Registration-specific middleware are ideal for generic functionality that might be shared among many handlers, such as:
//
//   - checking if the nick that sent the message is authorized to trigger a handler
//   - checking if your bot is an Op in a channel before performing an action like kicking/banning
//   - stripping message formatting before passing it to the handler
func (r *Registration) Use(middlewares ...Middleware) *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := wrap(r.handler(), middlewares...)
	r.h.Store(&h)
	return r
}

func (r *Registration) accepts(m *Message) bool {
	return (*r.filter.Load())(m)
}

func (r *Registration) handler() Handler {
	return *r.h.Load()
}

// Register appends a handler which receives every message accepted by filter.
// A nil filter accepts every message.
//
// Register panics if h is nil.
func (d *Dispatcher) Register(filter Filter, h Handler) *Registration {
	if h == nil {
		panic("irc: Register called with a nil handler")
	}
	if filter == nil {
		filter = MatchAll()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.order++
	r := &Registration{order: d.order}
	r.filter.Store(&filter)
	r.h.Store(&h)
	d.regs = append(d.regs, r)
	return r
}

// Use appends middleware which wrap every handler of the dispatcher, including those registered earlier.
// They run before any middleware attached with Registration.Use, in the order they were added.
//
// Middleware can do many things:
//
//   - Decorate the MessageWriter with additional functionality before passing it to the next Handler
//   - Write messages to the MessageWriter
//   - Prevent additional processing by not calling the next Handler
func (d *Dispatcher) Use(middlewares ...Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mw := make([]Middleware, 0, len(d.middlewares)+len(middlewares))
	d.middlewares = append(append(mw, d.middlewares...), middlewares...)
}

// Handle registers h for messages with command cmd.
func (d *Dispatcher) Handle(cmd Command, h Handler) *Registration {
	return d.Register(MatchCommand(cmd), h)
}

// HandleFunc registers f for messages with command cmd.
func (d *Dispatcher) HandleFunc(cmd Command, f HandlerFunc) *Registration {
	return d.Handle(cmd, f)
}

// OnAny registers f for every message.
func (d *Dispatcher) OnAny(f HandlerFunc) *Registration {
	return d.Register(MatchAll(), f)
}

// OnConnect registers a handler which is called upon successful registration with an IRC server.
// More specifically, it is triggered by numeric 001 (RPL_WELCOME).
func (d *Dispatcher) OnConnect(f HandlerFunc) *Registration {
	return d.Handle(RplWelcome, f)
}

// OnNumeric registers f for the numeric reply code, e.g. "433".
func (d *Dispatcher) OnNumeric(code Command, f HandlerFunc) *Registration {
	return d.Handle(code, f)
}

// OnText registers f for PRIVMSG events whose text matches the wildcard pattern (see MatchText).
// CTCP queries are not matched; use OnCTCP or OnAction.
func (d *Dispatcher) OnText(pattern string, f HandlerFunc) *Registration {
	return d.Register(All(MatchCommand(CmdPrivmsg), notCTCP, MatchText(pattern)), f)
}

// OnTextRE registers f for PRIVMSG events whose text matches the Go regular expression expr.
func (d *Dispatcher) OnTextRE(expr string, f HandlerFunc) *Registration {
	return d.Register(All(MatchCommand(CmdPrivmsg), notCTCP, MatchTextRE(expr)), f)
}

// OnNotice is triggered when a NOTICE whose text matches pattern is received from a client on the server.
// For server notices, use Handle(CmdNotice, ...).MatchServer().
func (d *Dispatcher) OnNotice(pattern string, f HandlerFunc) *Registration {
	return d.Register(All(MatchCommand(CmdNotice), notCTCP, Not(MatchServer()), MatchText(pattern)), f)
}

// OnAction registers f for CTCP ACTION queries whose text matches pattern.
func (d *Dispatcher) OnAction(pattern string, f HandlerFunc) *Registration {
	return d.Register(All(MatchCTCP("ACTION"), matchCTCPArgument("ACTION", pattern)), f)
}

// OnCTCP registers f for CTCP queries of type subcommand.
func (d *Dispatcher) OnCTCP(subcommand string, f HandlerFunc) *Registration {
	return d.Register(MatchCTCP(subcommand), f)
}

// OnCTCPReply registers f for CTCP replies of type subcommand.
func (d *Dispatcher) OnCTCPReply(subcommand string, f HandlerFunc) *Registration {
	return d.Register(MatchCTCPReply(subcommand), f)
}

// OnJoin registers f for JOIN events.
func (d *Dispatcher) OnJoin(f HandlerFunc) *Registration {
	return d.Handle(CmdJoin, f)
}

// OnPart is triggered when a client departs a channel we are on.
func (d *Dispatcher) OnPart(f HandlerFunc) *Registration {
	return d.Handle(CmdPart, f)
}

// OnKick registers f for KICK events.
func (d *Dispatcher) OnKick(f HandlerFunc) *Registration {
	return d.Handle(CmdKick, f)
}

// OnQuit is triggered when a client which shares a channel with us disconnects from the server.
func (d *Dispatcher) OnQuit(f HandlerFunc) *Registration {
	return d.Handle(CmdQuit, f)
}

// OnError is triggered when the server sends an ERROR message, usually on disconnect.
func (d *Dispatcher) OnError(f HandlerFunc) *Registration {
	return d.Handle(CmdError, f)
}

// OnNick registers h for nickname changes.
func (d *Dispatcher) OnNick(h func(nick Nickname, newnick Nickname)) *Registration {
	adapter := func(w MessageWriter, m *Message) error {
		h(m.Source.Nick, Nickname(m.Last()))
		return nil
	}
	return d.HandleFunc(CmdNick, adapter)
}

var notCTCP = Filter(func(m *Message) bool { return !m.IsCTCP() })

// snapshot returns the registrations and global middleware present at the time of the call.
// Both slices are replaced rather than modified in place, so they are safe to range over.
func (d *Dispatcher) snapshot() ([]*Registration, []Middleware) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.regs[:len(d.regs):len(d.regs)], d.middlewares
}

// Dispatch delivers m synchronously: every filter is evaluated in registration order,
// and each accepting handler runs to completion before the next filter is evaluated.
func (d *Dispatcher) Dispatch(w MessageWriter, m *Message) {
	regs, mw := d.snapshot()
	for _, r := range regs {
		if d.accepts(r, m) {
			d.invoke(r, mw, w, m)
		}
	}
}

// SpeakIRC implements Handler, so that a Dispatcher can be nested inside another one.
func (d *Dispatcher) SpeakIRC(w MessageWriter, m *Message) error {
	d.Dispatch(w, m)
	return nil
}

// Submit queues m for delivery on the dispatcher's delivery goroutine and returns immediately.
// Messages are delivered in the order they were submitted.
// Submit reports false if the dispatcher was closed.
func (d *Dispatcher) Submit(w MessageWriter, m *Message) bool {
	d.start()
	d.pending.add(1)
	if !d.queue.Push(delivery{w: w, m: m}) {
		d.pending.done()
		return false
	}
	return true
}

// Wait blocks until every submitted message has been delivered and every handler has returned.
func (d *Dispatcher) Wait() {
	d.pending.wait()
}

// Close stops accepting submissions, waits for queued messages to be delivered,
// and waits for running handlers to return.
func (d *Dispatcher) Close() {
	d.start()
	d.queue.Close()
	<-d.loopDone
	d.pending.wait()
}

func (d *Dispatcher) start() {
	d.startOnce.Do(func() {
		d.queue = fifo.New[delivery]()
		d.loopDone = make(chan struct{})
		go d.deliver()
	})
}

// deliver is the delivery goroutine. It is the only consumer of the queue.
func (d *Dispatcher) deliver() {
	defer close(d.loopDone)
	for {
		dl, ok := d.queue.Pop(context.Background())
		if !ok {
			return
		}
		d.fanOut(dl.w, dl.m)
		d.pending.done()
	}
}

func (d *Dispatcher) fanOut(w MessageWriter, m *Message) {
	if d.Ordered {
		d.Dispatch(w, m)
		return
	}
	regs, mw := d.snapshot()
	for _, r := range regs {
		if !d.accepts(r, m) {
			continue
		}
		d.pending.add(1)
		go func(r *Registration) {
			defer d.pending.done()
			d.invoke(r, mw, w, m)
		}(r)
	}
}

// accepts evaluates the registration's filter. A panicking filter rejects the message.
func (d *Dispatcher) accepts(r *Registration, m *Message) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			d.fault(&HandlerError{Order: r.order, Message: m, Panic: p, Err: fmt.Errorf("filter panic: %v", p)})
			ok = false
		}
	}()
	return r.accepts(m)
}

func (d *Dispatcher) invoke(r *Registration, mw []Middleware, w MessageWriter, m *Message) {
	defer func() {
		if p := recover(); p != nil {
			d.fault(&HandlerError{Order: r.order, Message: m, Panic: p, Err: fmt.Errorf("panic: %v", p)})
		}
	}()
	if err := wrap(r.handler(), mw...).SpeakIRC(w, m); err != nil {
		d.fault(&HandlerError{Order: r.order, Message: m, Err: err})
	}
}

func (d *Dispatcher) fault(e *HandlerError) {
	if d.OnFault != nil {
		d.OnFault(e)
		return
	}
	loggerOrStd(d.ErrorLog).Logf("irc: %v", e)
}

// counter is a WaitGroup that may be incremented while another goroutine is waiting.
type counter struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (c *counter) add(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += delta
	if c.n <= 0 && c.cond != nil {
		c.cond.Broadcast()
	}
}

func (c *counter) done() {
	c.add(-1)
}

func (c *counter) wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cond == nil {
		c.cond = sync.NewCond(&c.mu)
	}
	for c.n > 0 {
		c.cond.Wait()
	}
}
