package irc

import (
	"strings"
)

// Origin is the optional message prefix,
// which indicates the source (user or server) of the message.
//
// Example line with no prefix:
//	PING :86F3E357
//
// Example nickname-only prefix:
//	:Travis MODE Travis :+ixz
//
// Example "fulladdress" prefix:
//	:NickServ!services@services.host NOTICE Travis :This nickname is registered...
//
// Example server prefix, where the whole token ends up in Nick:
//	:fiery.ca.us.SwiftIRC.net MODE #foo +nt
type Origin struct {
	// Raw is the prefix token as received, without the leading ':'.
	Raw string

	Nick Nickname
	User string
	Host string
}

// ParseOrigin decomposes an origin token (without its leading ':') into nick, user and host.
//
// The nick is everything up to the first '!' or '@' (or the whole string).
// The user is the text between '!' and '@' when both are present.
// The host is everything after '@'.
// An empty string returns ErrInvalidOrigin.
func ParseOrigin(s string) (Origin, error) {
	if s == "" {
		return Origin{}, ErrInvalidOrigin
	}
	o := Origin{Raw: s}

	bang := strings.IndexByte(s, '!')
	at := strings.IndexByte(s, '@')

	end := len(s)
	if bang >= 0 {
		end = bang
	}
	if at >= 0 && at < end {
		end = at
	}
	o.Nick = Nickname(s[:end])

	if at >= 0 {
		o.Host = s[at+1:]
		if bang >= 0 && bang < at {
			o.User = s[bang+1 : at]
		}
	}
	return o, nil
}

// IsZero reports whether the message had no origin.
func (o Origin) IsZero() bool {
	return o.Raw == "" && o.Nick == "" && o.User == "" && o.Host == ""
}

// IsServer returns true when the origin looks like a server name rather than a user.
// Server names contain a '.', which nicknames cannot.
func (o Origin) IsServer() bool {
	return o.User == "" && o.Host == "" && strings.ContainsRune(string(o.Nick), '.')
}

// String implements fmt.Stringer
func (o Origin) String() string {
	if o.Raw != "" {
		return o.Raw
	}
	s := o.Nick.String()
	if o.User != "" {
		s += "!" + o.User
	}
	if o.Host != "" {
		s += "@" + o.Host
	}
	return s
}

// Nickname is an IRC nickname.
type Nickname string

func (n Nickname) String() string {
	return string(n)
}

// Is determines whether a nickname matches a string by using Unicode case folding.
func (n Nickname) Is(other string) bool {
	return strings.EqualFold(n.String(), other)
}
