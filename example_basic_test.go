package irc_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	irc "github.com/Travis-Britz/ircore"
)

const myName = "HelloBot"

// myHandler is an irc.HandlerFunc.
//
// On connection success (001), it joins #MyChannel.
//
// On join events, it checks if the joining nickname matched myName and the channel matched #MyChannel
// before sending an introduction.
//
// On privmsg events check if the message target matched our name (indicating a query/DM) and the first
// word begins with "Hello" before responding with "hey there!".
func myHandler(w irc.MessageWriter, m *irc.Message) error {
	switch m.Command {
	case "001":
		return w.WriteMessage(rawLine("JOIN #MyChannel"))
	case "PING":
		return w.WriteMessage(rawLine("PONG " + m.Last()))
	case "JOIN":
		if !m.Source.Nick.Is(myName) {
			return nil
		}
		if !strings.EqualFold("#MyChannel", m.Arg(1)) {
			return nil
		}

		return w.WriteMessage(rawLine("PRIVMSG #MyChannel :Hello everybody, my name is " + myName))
	case "PRIVMSG":
		if m.Arg(1) == myName {
			if msgBody := m.Arg(2); strings.HasPrefix(msgBody, "Hello") {
				return w.WriteMessage(rawLine(fmt.Sprintf("PRIVMSG %s :hey there!", m.Source.Nick)))
			}
		}
	}
	return nil
}

// rawLine is an IRC-formatted message.
type rawLine string

// MarshalText implements encoding.TextMarshaler, which
// is used by irc.MessageWriter.
func (l rawLine) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

// The simplest possible implementation of a Message handler.
// In this case, "simple" means it is not using package features. The code should be
// considered to be a "messy" implementation, but demonstrates how easy it is to get
// down to the protocol level, if desired.
func Example_simple() {
	d := &irc.Dispatcher{}
	d.OnAny(myHandler)

	bot, err := irc.NewClient(irc.Config{Host: "irc.example.com", Nick: myName}, d)
	if err != nil {
		log.Fatal(err)
	}
	if err := bot.ConnectAndRun(context.Background()); err != nil {
		log.Fatal(err)
	}
}
