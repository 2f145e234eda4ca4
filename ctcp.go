package irc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ctcpDelim brackets every CTCP fragment inside PRIVMSG and NOTICE text.
const ctcpDelim = '\x01'

// CTCPFragment is one Client-To-Client Protocol query or reply carried in the trailing text of a
// PRIVMSG (query) or NOTICE (reply).
//
// For "\x01ACTION waves\x01", Command is "ACTION" and Argument is "waves".
type CTCPFragment struct {
	Command  string
	Argument string
}

// String encodes the fragment, including the surrounding 0x01 bytes.
func (f CTCPFragment) String() string {
	return ctcpQuote(f.Command, f.Argument)
}

func ctcpQuote(command, argument string) string {
	if argument == "" {
		return string(ctcpDelim) + command + string(ctcpDelim)
	}
	return string(ctcpDelim) + command + " " + argument + string(ctcpDelim)
}

// ExtractCTCP returns the CTCP fragments contained in text.
// A single text may contain several fragments back to back.
// Text outside of the 0x01 delimiters is ignored.
// A final fragment missing its closing delimiter is still returned, since some clients omit it.
func ExtractCTCP(text string) []CTCPFragment {
	var frags []CTCPFragment
	for {
		start := strings.IndexByte(text, ctcpDelim)
		if start < 0 {
			return frags
		}
		text = text[start+1:]
		body := text
		end := strings.IndexByte(text, ctcpDelim)
		if end >= 0 {
			body = text[:end]
			text = text[end+1:]
		} else {
			text = ""
		}
		if body == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(body, " ")
		frags = append(frags, CTCPFragment{Command: strings.ToUpper(cmd), Argument: arg})
	}
}

// IsCTCP reports whether m is a PRIVMSG or NOTICE whose trailing text carries CTCP.
func (m *Message) IsCTCP() bool {
	if !m.Command.Is(CmdPrivmsg) && !m.Command.Is(CmdNotice) {
		return false
	}
	return strings.IndexByte(m.Last(), ctcpDelim) >= 0
}

// CTCP returns the CTCP fragments of a PRIVMSG or NOTICE, or nil for any other message.
func (m *Message) CTCP() []CTCPFragment {
	if !m.IsCTCP() {
		return nil
	}
	return ExtractCTCP(m.Last())
}

// DCCOffer holds the fields of a "DCC SEND" or "DCC CHAT" CTCP query.
//
// Only the framing is parsed. Transferring the file is up to the caller.
type DCCOffer struct {
	// Type is SEND or CHAT.
	Type     string
	Filename string
	Addr     net.IP
	Port     int

	// Size is the advertised file size, or -1 when it was not given.
	Size int64
}

var errNotDCC = errors.New("not a DCC query")

// ParseDCC parses a DCC fragment such as
//
//	DCC SEND "my file.txt" 3232235777 5000 1024
//
// The address may be an unsigned 32-bit decimal IPv4 address (the classic form) or a literal IPv4/IPv6 address.
func ParseDCC(f CTCPFragment) (*DCCOffer, error) {
	if !strings.EqualFold(f.Command, "DCC") {
		return nil, errNotDCC
	}
	fields, err := splitQuoted(f.Argument)
	if err != nil {
		return nil, fmt.Errorf("dcc: %w", err)
	}
	if len(fields) < 4 {
		return nil, fmt.Errorf("dcc: expected at least 4 fields, got %d", len(fields))
	}

	offer := &DCCOffer{
		Type:     strings.ToUpper(fields[0]),
		Filename: fields[1],
		Size:     -1,
	}
	if offer.Addr, err = parseDCCAddr(fields[2]); err != nil {
		return nil, err
	}
	if offer.Port, err = strconv.Atoi(fields[3]); err != nil || offer.Port < 0 || offer.Port > 65535 {
		return nil, fmt.Errorf("dcc: invalid port %q", fields[3])
	}
	if len(fields) > 4 {
		if offer.Size, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
			return nil, fmt.Errorf("dcc: invalid size %q", fields[4])
		}
	}
	return offer, nil
}

func parseDCCAddr(s string) (net.IP, error) {
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		ip := make(net.IP, 4)
		binary.BigEndian.PutUint32(ip, uint32(n))
		return ip, nil
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip, nil
	}
	return nil, fmt.Errorf("dcc: invalid address %q", s)
}

// splitQuoted splits s on spaces, keeping double-quoted runs together.
func splitQuoted(s string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
		inWord bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case r == ' ' && !quoted:
			if inWord {
				fields = append(fields, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
