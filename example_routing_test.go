package irc_test

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"

	irc "github.com/Travis-Britz/ircore"
)

// This example uses the dispatcher to perform more complicated message matching with an event callback style.
// Connects to an IRC server, joins a channel called "#world", sends the message "Hello!", then quits when CTRL+C is pressed.
func Example_dispatcher() {
	// Listen for interrupt signals (Ctrl+C) and initiate
	// a graceful shutdown sequence when one is received.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Dispatcher maps incoming messages (events) to every handler whose filter accepts them.
	d := &irc.Dispatcher{}

	bot, err := irc.NewClient(irc.Config{
		Host:        "irc.swiftirc.net",
		Nick:        "HelloBot",
		QuitMessage: "bye!",
	}, d)
	if err != nil {
		log.Fatal(err)
	}

	d.HandleFunc(irc.CmdPing, func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Pong(m.Last()))
	})

	d.OnConnect(func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Join("#world"))
	})

	d.OnKick(func(w irc.MessageWriter, m *irc.Message) error {
		if !bot.Nick().Is(m.Arg(2)) {
			return nil
		}
		return w.WriteMessage(irc.Msg(m.Source.Nick.String(), "You kicked me!"))
	})

	d.OnJoin(func(w irc.MessageWriter, m *irc.Message) error {
		return w.WriteMessage(irc.Msg("#world", "Hello!"))
	}).
		MatchChan("#world").
		MatchClient(bot)

	// When somebody types "!greet nickname" we respond with "Hello, nickname!".
	d.OnText("!greet ?*", func(w irc.MessageWriter, m *irc.Message) error {
		text, _ := m.Text()
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil
		}
		channelName, err := m.Chan()
		if err != nil {
			return err
		}
		return w.WriteMessage(irc.Msg(channelName, "Hello, "+fields[1]+"!"))
	})

	// Handlers may fail without affecting each other; failures are logged unless OnFault is set.
	d.OnFault = func(e *irc.HandlerError) {
		log.Printf("handler %d: %v", e.Order, e.Err)
	}

	// run the bot (blocking until exit)
	if err := bot.ConnectAndRun(ctx); err != nil {
		log.Println(err)
	}
}
