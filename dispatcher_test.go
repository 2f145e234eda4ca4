package irc_test

import (
	"encoding"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	irc "github.com/Travis-Britz/ircore"
)

var discard = discarder{}

type discarder struct{}

func (d discarder) WriteMessage(marshaler encoding.TextMarshaler) error { return nil }

// recorder collects strings from concurrently running handlers.
type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func record(r *recorder, name string) irc.HandlerFunc {
	return func(w irc.MessageWriter, m *irc.Message) error {
		r.add(name)
		return nil
	}
}

func TestDispatcher_Handle(t *testing.T) {
	var callCount int
	h := func(w irc.MessageWriter, m *irc.Message) error {
		callCount++
		return nil
	}
	d := &irc.Dispatcher{}
	d.HandleFunc(irc.CmdPrivmsg, h)
	d.HandleFunc(irc.CmdNotice, h)

	d.Dispatch(discard, irc.Msg("#foo", "!test does this work"))
	if callCount != 1 {
		t.Errorf("expected handler to be called once; called %v times", callCount)
	}
}

func TestDispatcher_everyMatchInOrder(t *testing.T) {
	r := &recorder{}
	d := &irc.Dispatcher{}
	d.OnAny(record(r, "any"))
	d.HandleFunc(irc.CmdPrivmsg, record(r, "privmsg"))
	d.HandleFunc(irc.CmdJoin, record(r, "join"))
	d.OnText("hello*", record(r, "text"))

	d.Dispatch(discard, parse(t, ":a!b@c PRIVMSG #foo :hello world"))

	expected := []string{"any", "privmsg", "text"}
	if got := r.get(); fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("expected %v; got %v", expected, got)
	}
}

func TestDispatcher_faultIsolation(t *testing.T) {
	var (
		mu     sync.Mutex
		faults []*irc.HandlerError
	)
	r := &recorder{}
	errBroken := errors.New("broken")

	d := &irc.Dispatcher{
		OnFault: func(e *irc.HandlerError) {
			mu.Lock()
			defer mu.Unlock()
			faults = append(faults, e)
		},
	}
	d.OnText("*", func(w irc.MessageWriter, m *irc.Message) error {
		return errBroken
	})
	d.OnText("*", func(w irc.MessageWriter, m *irc.Message) error {
		panic("boom")
	})
	d.Register(func(*irc.Message) bool { panic("bad filter") }, record(r, "never"))
	d.OnText("*", record(r, "h4"))

	m := parse(t, ":a!b@c PRIVMSG #foo :hi")
	d.Dispatch(discard, m)

	if got := r.get(); len(got) != 1 || got[0] != "h4" {
		t.Fatalf("expected the last handler to still run; got %v", got)
	}
	if len(faults) != 3 {
		t.Fatalf("expected 3 faults; got %d", len(faults))
	}
	if faults[0].Order != 1 || !errors.Is(faults[0], errBroken) || faults[0].Message != m {
		t.Errorf("unexpected first fault: %v", faults[0])
	}
	if faults[1].Order != 2 || faults[1].Panic != "boom" {
		t.Errorf("unexpected second fault: %v", faults[1])
	}
	if faults[2].Order != 3 || faults[2].Panic == nil {
		t.Errorf("unexpected third fault: %v", faults[2])
	}
}

func TestDispatcher_SubmitOrdered(t *testing.T) {
	r := &recorder{}
	d := &irc.Dispatcher{Ordered: true}
	d.OnAny(func(w irc.MessageWriter, m *irc.Message) error {
		r.add(m.Last())
		return nil
	})

	var expected []string
	for i := 0; i < 100; i++ {
		s := fmt.Sprint(i)
		expected = append(expected, s)
		if !d.Submit(discard, irc.Msg("#foo", s)) {
			t.Fatal("submit failed")
		}
	}
	d.Wait()

	if got := r.get(); fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("messages were delivered out of order: %v", got)
	}
	d.Close()
	if d.Submit(discard, irc.Msg("#foo", "late")) {
		t.Errorf("expected Submit to fail after Close")
	}
}

func TestDispatcher_slowHandlerDoesNotBlockDelivery(t *testing.T) {
	release := make(chan struct{})
	second := make(chan struct{})

	d := &irc.Dispatcher{}
	d.OnText("first", func(w irc.MessageWriter, m *irc.Message) error {
		<-release
		return nil
	})
	d.OnText("second", func(w irc.MessageWriter, m *irc.Message) error {
		close(second)
		return nil
	})

	d.Submit(discard, irc.Msg("#foo", "first"))
	d.Submit(discard, irc.Msg("#foo", "second"))

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second message was not delivered while the first handler was blocked")
	}
	close(release)
	d.Close()
}

func TestDispatcher_registerDuringDispatch(t *testing.T) {
	r := &recorder{}
	d := &irc.Dispatcher{}
	var once sync.Once
	d.OnAny(func(w irc.MessageWriter, m *irc.Message) error {
		once.Do(func() {
			d.OnAny(record(r, "late"))
		})
		return nil
	})

	d.Dispatch(discard, irc.Msg("#foo", "one"))
	if got := r.get(); len(got) != 0 {
		t.Errorf("a handler registered during dispatch received the current message: %v", got)
	}
	d.Dispatch(discard, irc.Msg("#foo", "two"))
	if got := r.get(); len(got) != 1 {
		t.Errorf("expected the late handler to receive the next message; got %v", got)
	}
}

func TestDispatcher_middlewareOrder(t *testing.T) {
	r := &recorder{}
	mw := func(name string) irc.Middleware {
		return func(next irc.Handler) irc.Handler {
			return irc.HandlerFunc(func(w irc.MessageWriter, m *irc.Message) error {
				r.add(name)
				return next.SpeakIRC(w, m)
			})
		}
	}
	d := &irc.Dispatcher{}
	d.OnAny(record(r, "handler")).Use(mw("route1"), mw("route2"))
	d.Use(mw("global"))

	d.Dispatch(discard, irc.Msg("#foo", "hi"))

	expected := []string{"global", "route1", "route2", "handler"}
	if got := r.get(); fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("expected %v; got %v", expected, got)
	}
}

func TestDispatcher_Match(t *testing.T) {
	r := &recorder{}
	d := &irc.Dispatcher{}
	d.OnJoin(record(r, "join")).MatchChan("#foo").MatchClient(fixedNick("me"))

	d.Dispatch(discard, parse(t, ":me!u@h JOIN #bar"))
	d.Dispatch(discard, parse(t, ":you!u@h JOIN #foo"))
	d.Dispatch(discard, parse(t, ":me!u@h JOIN #foo"))

	if got := r.get(); len(got) != 1 {
		t.Errorf("expected exactly one match; got %v", got)
	}
}

func TestDispatcher_helpers(t *testing.T) {
	tt := []struct {
		name     string
		register func(d *irc.Dispatcher, h irc.HandlerFunc)
		pass     []string
		fail     []string
	}{{
		"OnText ignores CTCP",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnText("*", h) },
		[]string{":a!b@c PRIVMSG #foo :hi"},
		[]string{":a!b@c PRIVMSG #foo :\x01ACTION waves\x01", ":a!b@c NOTICE #foo :hi"},
	}, {
		"OnNotice ignores servers",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnNotice("*", h) },
		[]string{":a!b@c NOTICE me :hi"},
		[]string{":irc.example.net NOTICE me :hi", ":a!b@c PRIVMSG me :hi"},
	}, {
		"OnAction",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnAction("waves*", h) },
		[]string{":a!b@c PRIVMSG #foo :\x01ACTION waves hello\x01"},
		[]string{":a!b@c PRIVMSG #foo :\x01ACTION sits\x01", ":a!b@c PRIVMSG #foo :waves"},
	}, {
		"OnConnect",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnConnect(h) },
		[]string{":srv 001 me :Welcome"},
		[]string{":srv 002 me :Your host"},
	}, {
		"OnNumeric",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnNumeric(irc.RplErrNicknameInUse, h) },
		[]string{":srv 433 * me :Nickname is already in use"},
		[]string{":srv 432 * me :Erroneous"},
	}, {
		"OnKick",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnKick(h) },
		[]string{":a!b@c KICK #foo me :bye"},
		[]string{":a!b@c PART #foo"},
	}, {
		"OnCTCPReply",
		func(d *irc.Dispatcher, h irc.HandlerFunc) { d.OnCTCPReply("PING", h) },
		[]string{":a!b@c NOTICE me :\x01PING 1\x01"},
		[]string{":a!b@c PRIVMSG me :\x01PING 1\x01"},
	}}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			d := &irc.Dispatcher{}
			tc.register(d, func(w irc.MessageWriter, m *irc.Message) error {
				called = true
				return nil
			})
			for _, line := range tc.pass {
				called = false
				d.Dispatch(discard, parse(t, line))
				if !called {
					t.Errorf("expected %q to be dispatched", line)
				}
			}
			for _, line := range tc.fail {
				called = false
				d.Dispatch(discard, parse(t, line))
				if called {
					t.Errorf("expected %q not to be dispatched", line)
				}
			}
		})
	}
}

func TestDispatcher_OnNick(t *testing.T) {
	var from, to irc.Nickname
	d := &irc.Dispatcher{}
	d.OnNick(func(nick, newnick irc.Nickname) {
		from, to = nick, newnick
	})
	d.Dispatch(discard, parse(t, ":old!u@h NICK :new"))
	if from != "old" || to != "new" {
		t.Errorf("got %q -> %q", from, to)
	}
}

func TestDispatcher_Register_nilHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a nil handler")
		}
	}()
	(&irc.Dispatcher{}).Register(nil, nil)
}
