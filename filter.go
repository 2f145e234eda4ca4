package irc

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// A Filter decides whether a registered handler receives a message.
//
// Filters are evaluated on the delivery goroutine at the time a message is dispatched,
// so filters that consult client state (such as MatchDirect) see the state current at that moment.
type Filter func(*Message) bool

// NickTracker reports the client's current nickname.
// *Client implements NickTracker.
type NickTracker interface {
	Nick() Nickname
}

// MatchAll accepts every message.
func MatchAll() Filter {
	return func(*Message) bool { return true }
}

// MatchCommand accepts messages whose command equals cmd, ignoring case.
func MatchCommand(cmd Command) Filter {
	return func(m *Message) bool {
		return m.Command.Is(cmd)
	}
}

// MatchNumeric accepts numeric replies.
func MatchNumeric() Filter {
	return func(m *Message) bool {
		return m.IsNumeric()
	}
}

// MatchCTCP accepts PRIVMSG messages carrying a CTCP query of type subcommand.
func MatchCTCP(subcommand string) Filter {
	return matchCTCP(CmdPrivmsg, subcommand)
}

// MatchCTCPReply accepts NOTICE messages carrying a CTCP reply of type subcommand.
func MatchCTCPReply(subcommand string) Filter {
	return matchCTCP(CmdNotice, subcommand)
}

func matchCTCP(cmd Command, subcommand string) Filter {
	return func(m *Message) bool {
		if !m.Command.Is(cmd) {
			return false
		}
		for _, f := range m.CTCP() {
			if strings.EqualFold(f.Command, subcommand) {
				return true
			}
		}
		return false
	}
}

// matchCTCPArgument accepts messages with a fragment of type subcommand whose argument matches pattern.
func matchCTCPArgument(subcommand string, pattern string) Filter {
	g := glob.MustCompile(pattern)
	return func(m *Message) bool {
		for _, f := range m.CTCP() {
			if strings.EqualFold(f.Command, subcommand) && g.Match(f.Argument) {
				return true
			}
		}
		return false
	}
}

// MatchText accepts messages whose Text matches the wildcard pattern:
//
//	* matches any sequence of characters
//	? matches a single character
//	[abc] matches one character from the set
//	{a,b} matches any of the alternatives
//	text matches if exact match
//	text* matches if text starts with word
//	*text matches if text ends with word
//	*text* matches if text is anywhere
//
// MatchText panics if pattern is not a valid wildcard expression.
func MatchText(pattern string) Filter {
	g := glob.MustCompile(pattern)
	return func(m *Message) bool {
		text, err := m.Text()
		if err != nil {
			return false
		}
		return g.Match(text)
	}
}

// MatchTextRE accepts messages whose Text matches the Go regular expression expr.
func MatchTextRE(expr string) Filter {
	re := regexp.MustCompile(expr)
	return func(m *Message) bool {
		text, err := m.Text()
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
}

// MatchChan accepts messages that apply to channel ch.
func MatchChan(ch string) Filter {
	return func(m *Message) bool {
		c, err := m.Chan()
		if err != nil {
			return false
		}
		return strings.EqualFold(ch, c)
	}
}

// MatchServer accepts messages that originated from a server.
func MatchServer() Filter {
	return func(m *Message) bool {
		return m.Source.IsServer()
	}
}

// MatchOrigin accepts messages whose origin matches an address mask such as "*!*@*.example.net".
// Matching ignores case.
func MatchOrigin(mask string) Filter {
	g := glob.MustCompile(strings.ToLower(mask))
	return func(m *Message) bool {
		if m.Source.IsZero() {
			return false
		}
		return g.Match(strings.ToLower(m.Source.String()))
	}
}

// MatchDirect accepts PRIVMSG and NOTICE messages sent directly to the client rather than to a channel.
// The client's nickname is read from t each time the filter runs.
func MatchDirect(t NickTracker) Filter {
	return func(m *Message) bool {
		if !m.Command.Is(CmdPrivmsg) && !m.Command.Is(CmdNotice) {
			return false
		}
		return m.IsDirect(t.Nick())
	}
}

// MatchClient matches the source of a message against the client's current nickname.
// For KICK the kicked user is compared instead.
func MatchClient(t NickTracker) Filter {
	return func(m *Message) bool {
		switch m.Command {
		case CmdKick:
			return t.Nick().Is(m.Arg(2))
		default:
			return m.Source.Nick.Is(t.Nick().String())
		}
	}
}

// All accepts a message only when every filter does.
func All(filters ...Filter) Filter {
	return func(m *Message) bool {
		for _, f := range filters {
			if !f(m) {
				return false
			}
		}
		return true
	}
}

// AnyOf accepts a message when at least one filter does.
func AnyOf(filters ...Filter) Filter {
	return func(m *Message) bool {
		for _, f := range filters {
			if f(m) {
				return true
			}
		}
		return false
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(m *Message) bool {
		return !f(m)
	}
}
