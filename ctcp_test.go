package irc

import (
	"net"
	"reflect"
	"testing"
)

func TestExtractCTCP(t *testing.T) {
	tt := []struct {
		name     string
		text     string
		expected []CTCPFragment
	}{
		{"none", "hello", nil},
		{"action", "\x01ACTION waves\x01", []CTCPFragment{{"ACTION", "waves"}}},
		{"no argument", "\x01VERSION\x01", []CTCPFragment{{"VERSION", ""}}},
		{"lower case command", "\x01version\x01", []CTCPFragment{{"VERSION", ""}}},
		{"two fragments", "\x01PING 123\x01\x01TIME\x01", []CTCPFragment{{"PING", "123"}, {"TIME", ""}}},
		{"text around", "hi \x01ACTION waves\x01 there", []CTCPFragment{{"ACTION", "waves"}}},
		{"unterminated", "\x01ACTION waves", []CTCPFragment{{"ACTION", "waves"}}},
		{"empty", "\x01\x01", nil},
		{"argument with spaces", "\x01ACTION waves at you\x01", []CTCPFragment{{"ACTION", "waves at you"}}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractCTCP(tc.text)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("expected %#v; got %#v", tc.expected, got)
			}
		})
	}
}

func TestMessage_CTCP(t *testing.T) {
	m, _ := ParseMessage(":a!b@c PRIVMSG #foo :\x01ACTION waves\x01")
	if !m.IsCTCP() {
		t.Fatalf("expected CTCP")
	}
	if f := m.CTCP(); len(f) != 1 || f[0].Command != "ACTION" || f[0].Argument != "waves" {
		t.Errorf("unexpected fragments %#v", f)
	}

	m, _ = ParseMessage(":a!b@c TOPIC #foo :\x01ACTION waves\x01")
	if m.IsCTCP() || m.CTCP() != nil {
		t.Errorf("only PRIVMSG and NOTICE carry CTCP")
	}
}

func TestCTCPFragment_String(t *testing.T) {
	if s := (CTCPFragment{"ACTION", "waves"}).String(); s != "\x01ACTION waves\x01" {
		t.Errorf("got %q", s)
	}
	if s := (CTCPFragment{"VERSION", ""}).String(); s != "\x01VERSION\x01" {
		t.Errorf("got %q", s)
	}
	b, _ := CTCP("bob", "VERSION", "").MarshalText()
	if string(b) != "PRIVMSG bob :\x01VERSION\x01\r\n" {
		t.Errorf("got %q", b)
	}
	b, _ = CTCPReply("bob", "PING", "123").MarshalText()
	if string(b) != "NOTICE bob :\x01PING 123\x01\r\n" {
		t.Errorf("got %q", b)
	}
}

func TestParseDCC(t *testing.T) {
	tt := []struct {
		name     string
		arg      string
		expected *DCCOffer
	}{
		{"send", "SEND file.txt 3232235777 5000 1024", &DCCOffer{Type: "SEND", Filename: "file.txt", Addr: net.IPv4(192, 168, 1, 1).To4(), Port: 5000, Size: 1024}},
		{"quoted filename", `SEND "my file.txt" 2130706433 5000`, &DCCOffer{Type: "SEND", Filename: "my file.txt", Addr: net.IPv4(127, 0, 0, 1).To4(), Port: 5000, Size: -1}},
		{"chat", "chat chat 2130706433 6000", &DCCOffer{Type: "CHAT", Filename: "chat", Addr: net.IPv4(127, 0, 0, 1).To4(), Port: 6000, Size: -1}},
		{"ipv6", "SEND f ::1 5000 1", &DCCOffer{Type: "SEND", Filename: "f", Addr: net.ParseIP("::1"), Port: 5000, Size: 1}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDCC(CTCPFragment{Command: "DCC", Argument: tc.arg})
			if err != nil {
				t.Fatal(err)
			}
			if got.Type != tc.expected.Type || got.Filename != tc.expected.Filename || !got.Addr.Equal(tc.expected.Addr) || got.Port != tc.expected.Port || got.Size != tc.expected.Size {
				t.Errorf("expected %+v; got %+v", tc.expected, got)
			}
		})
	}

	bad := []CTCPFragment{
		{"ACTION", "SEND f 1 2"},
		{"DCC", "SEND f 1"},
		{"DCC", "SEND f nowhere 5000"},
		{"DCC", "SEND f 1 99999"},
		{"DCC", `SEND "unterminated 1 2`},
		{"DCC", "SEND f 1 2 huge"},
	}
	for _, f := range bad {
		if _, err := ParseDCC(f); err == nil {
			t.Errorf("%q: expected an error", f.Argument)
		}
	}
}
