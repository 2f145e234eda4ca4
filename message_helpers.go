package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircfmt"
)

// chanPrefixes are the characters that begin a channel name.
// statusPrefixes may appear in front of a channel name to address a subset of its members, e.g. "@#foo".
const (
	chanPrefixes   = "#&"
	statusPrefixes = "~@%+"
)

// Text returns the free-form text portion of a message for the well-known (named) IRC commands.
// An error is returned if the method is called for unsupported message types.
// If err is not nil, then Text will contain the entire argument list joined together as one string.
//
// Supported commands include PRIVMSG, NOTICE, PART, QUIT, ERROR, and more.
// In the case of PART and KICK, Text contains the <reason> message parameter.
//
// It is safe to discard err inside a handler that is only ever called for supported commands.
func (m *Message) Text() (string, error) {
	switch m.Command {
	case CmdQuit, CmdError, CmdAway, CmdWAllOps:
		return m.Arg(1), nil
	case CmdPrivmsg, CmdNotice, CmdTopic, CmdPart, CmdMode:
		return m.Arg(2), nil
	case CmdKick:
		return m.Arg(3), nil
	default:
		return strings.Join(m.Args(), " "), fmt.Errorf("text: command %s is not supported", m.Command)
	}
}

// PlainText returns Text with IRC color and formatting control codes removed.
func (m *Message) PlainText() string {
	text, _ := m.Text()
	return ircfmt.Strip(text)
}

// Target returns the intended target of a message.
// In the case of query messages, Target will equal our client's nickname.
// For channel messages, Target will usually be the name of the channel a message was sent to,
// possibly prefixed with status characters (e.g. "+#foo" for all users on #foo with +v or higher).
func (m *Message) Target() (string, error) {
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CmdInvite, CmdTopic, CmdKick, CmdPart, CmdMode:
		return m.Arg(1), nil
	default:
		return "", fmt.Errorf("%s: target method not supported", m.Command)
	}
}

// Chan returns the channel a message applies to.
// In the case of query messages, Chan will return an empty string.
// If the message target was a channel name prefixed with membership prefixes ('@', '+', etc.) the prefixes will be stripped.
func (m *Message) Chan() (string, error) {
	var target string
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CmdJoin, CmdTopic, CmdKick, CmdPart, CmdMode:
		target = m.Arg(1)
	case CmdInvite:
		target = m.Arg(2)
	default:
		return "", fmt.Errorf("%s: chan method not supported", m.Command)
	}
	return channelName(target), nil
}

// channelName strips status prefixes from target and returns "" if what is left is not a channel.
func channelName(target string) string {
	for i := 0; i < len(target); i++ {
		switch {
		case strings.IndexByte(chanPrefixes, target[i]) >= 0:
			return target[i:]
		case strings.IndexByte(statusPrefixes, target[i]) < 0:
			return ""
		}
	}
	return ""
}

// IsDirect reports whether the message was addressed to nick rather than to a channel.
//
// The nickname of a client changes during a session, so callers should pass the nickname that is
// current when the message is being handled; MatchDirect does this for dispatch filters.
func (m *Message) IsDirect(nick Nickname) bool {
	return nick != "" && nick.Is(m.Arg(1))
}
