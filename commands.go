package irc

import (
	"strconv"

	"github.com/ergochat/irc-go/ircutils"
)

// maxTextBytes bounds human-readable text passed to the Client command methods.
// Nothing longer fits in a single line.
const maxTextBytes = 510

// sanitize makes human-readable text safe to put on the wire:
// CR and NUL are dropped and LF becomes spaces, so text can never start a second line.
func sanitize(text string) string {
	return ircutils.SanitizeText(text, maxTextBytes)
}

// Msg constructs a new Message of type PRIVMSG,
// with target being the intended target channel or nickname,
// and message being the text body.
func Msg(target, message string) *Message {
	return newTextMessage(CmdPrivmsg, message, target)
}

// Notice constructs a new message of type NOTICE,
// with target being the intended target channel or nickname,
// and message being the text body.
func Notice(target, message string) *Message {
	return newTextMessage(CmdNotice, message, target)
}

// Describe constructs a CTCP ACTION message,
// with target being the intended target channel or nickname,
// and action being the text body.
//
// Describe is equivalent to the "/me" or "/describe" commands of popular IRC clients.
// By convention, actions are written in third-person:
//
//	Describe("#foo", "slaps Bob around a bit with a large trout")
//
// might be displayed by a receiving client as
//
//	* Alice slaps Bob around a bit with a large trout
func Describe(target, action string) *Message {
	return CTCP(target, "ACTION", action)
}

// CTCP constructs a CTCP (Client-to-Client Protocol) query to target.
// command is the CTCP subcommand; argument may be empty.
func CTCP(target, command, argument string) *Message {
	return newTextMessage(CmdPrivmsg, ctcpQuote(command, argument), target)
}

// CTCPReply constructs a message encoded in the CTCP reply format.
// target should be the nickname that sent us a CTCP query,
// command is the subcommand that was sent to us,
// and argument depends on the type of query.
func CTCPReply(target, command, argument string) *Message {
	return newTextMessage(CmdNotice, ctcpQuote(command, argument), target)
}

// Nick constructs a nickname change command.
func Nick(name string) *Message {
	return NewMessage(CmdNick, name)
}

// Join constructs a channel join command.
func Join(channel string) *Message {
	return NewMessage(CmdJoin, channel)
}

// JoinWithKey constructs a channel join command for channels that require a key (channel mode +k is set).
func JoinWithKey(channel, key string) *Message {
	return NewMessage(CmdJoin, channel, key)
}

// Part constructs leave (depart) command for channel.
// A non-empty reason may be shown to other clients.
func Part(channel, reason string) *Message {
	if reason == "" {
		return NewMessage(CmdPart, channel)
	}
	return newTextMessage(CmdPart, reason, channel)
}

// Quit constructs a command that will cause the server to terminate the client's connection.
// The server replies with ERROR and then closes the link.
func Quit(message string) *Message {
	return newTextMessage(CmdQuit, message)
}

// Kick constructs a command to kick nick from channel.
// An empty reason lets the server pick a default.
func Kick(channel, nick, reason string) *Message {
	if reason == "" {
		return NewMessage(CmdKick, channel, nick)
	}
	return newTextMessage(CmdKick, reason, channel, nick)
}

// Mode constructs a command to change modes on a channel or on our client connection,
// e.g. Mode("#foo", "+o", "alice"). With no modes it queries the current modes of target.
func Mode(target string, modes ...string) *Message {
	return NewMessage(CmdMode, append([]string{target}, modes...)...)
}

// Invite constructs a command to invite nick to channel.
func Invite(nick, channel string) *Message {
	return NewMessage(CmdInvite, nick, channel)
}

// Topic constructs a command to set the topic of channel.
func Topic(channel, topic string) *Message {
	return newTextMessage(CmdTopic, topic, channel)
}

// Away marks the client as away with message, or clears the away status when message is empty.
func Away(message string) *Message {
	if message == "" {
		return NewMessage(CmdAway)
	}
	return newTextMessage(CmdAway, message)
}

// Ping constructs a command to PING the connection.
// The server will respond with PONG <token>.
//
// Ping is not the same as a CTCP ping,
// which is sent to a client or channel via a PRIVMSG command instead.
func Ping(token string) *Message {
	return NewMessage(CmdPing, token)
}

// Pong builds the reply to a PING from the connection.
// The token must be the same as the one in the original PING.
func Pong(token string) *Message {
	return NewMessage(CmdPong, token)
}

// User is sent at the beginning of a connection to specify
// the username, initial user mode and realname of a new user.
//
// realname may contain spaces.
//
// https://tools.ietf.org/html/rfc2812#section-3.1.3
func User(user string, mode int, realname string) *Message {
	// the third parameter is unused
	return newTextMessage(CmdUser, realname, user, strconv.Itoa(mode), "*")
}

// Pass specifies the connection password.
func Pass(password string) *Message {
	return NewMessage(CmdPass, password)
}

// Join joins channel.
func (c *Client) Join(channel string) error {
	return c.WriteMessage(Join(channel))
}

// Part leaves channel with an optional reason.
func (c *Client) Part(channel, reason string) error {
	return c.WriteMessage(Part(channel, sanitize(reason)))
}

// Privmsg sends text to a channel or nickname.
func (c *Client) Privmsg(target, text string) error {
	return c.WriteMessage(Msg(target, sanitize(text)))
}

// Notice sends a notice to a channel or nickname.
func (c *Client) Notice(target, text string) error {
	return c.WriteMessage(Notice(target, sanitize(text)))
}

// Action sends a CTCP ACTION ("/me") to target.
func (c *Client) Action(target, text string) error {
	return c.WriteMessage(Describe(target, sanitize(text)))
}

// CTCP sends a CTCP query; the payload is wrapped in 0x01 bytes.
func (c *Client) CTCP(target, command, argument string) error {
	return c.WriteMessage(CTCP(target, command, sanitize(argument)))
}

// CTCPReply answers a CTCP query.
func (c *Client) CTCPReply(target, command, argument string) error {
	return c.WriteMessage(CTCPReply(target, command, sanitize(argument)))
}

// Mode changes or queries modes of target.
func (c *Client) Mode(target string, modes ...string) error {
	return c.WriteMessage(Mode(target, modes...))
}

// Topic sets the topic of channel.
func (c *Client) Topic(channel, topic string) error {
	return c.WriteMessage(Topic(channel, sanitize(topic)))
}

// Kick removes nick from channel.
func (c *Client) Kick(channel, nick, reason string) error {
	return c.WriteMessage(Kick(channel, nick, sanitize(reason)))
}

// Invite invites nick to channel.
func (c *Client) Invite(nick, channel string) error {
	return c.WriteMessage(Invite(nick, channel))
}

// Away sets the away message, or clears it when message is empty.
func (c *Client) Away(message string) error {
	return c.WriteMessage(Away(sanitize(message)))
}

// Pong answers a PING from the server.
func (c *Client) Pong(token string) error {
	return c.WriteMessage(Pong(token))
}

// SetNick asks the server to change the client's nickname.
// Nick keeps returning the old nickname until the server confirms the change.
func (c *Client) SetNick(name string) error {
	return c.WriteMessage(Nick(name))
}

// Quit asks the server to end the session. The server answers with ERROR and closes the link,
// after which the session error is nil.
func (c *Client) Quit(message string) error {
	return c.WriteMessage(Quit(sanitize(message)))
}
