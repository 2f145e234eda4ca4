package irc

import (
	"strings"
	"testing"
)

func TestCommands(t *testing.T) {
	tt := []struct {
		m        *Message
		expected string
	}{
		{Msg("#foo", "hello world"), "PRIVMSG #foo :hello world"},
		{Msg("bob", ""), "PRIVMSG bob :"},
		{Notice("bob", "hi"), "NOTICE bob :hi"},
		{Describe("#foo", "waves"), "PRIVMSG #foo :\x01ACTION waves\x01"},
		{Nick("gopher"), "NICK gopher"},
		{Join("#foo"), "JOIN #foo"},
		{JoinWithKey("#foo", "secret"), "JOIN #foo secret"},
		{Part("#foo", ""), "PART #foo"},
		{Part("#foo", "gone fishing"), "PART #foo :gone fishing"},
		{Quit(""), "QUIT :"},
		{Quit("bye"), "QUIT :bye"},
		{Kick("#foo", "bob", ""), "KICK #foo bob"},
		{Kick("#foo", "bob", "spam"), "KICK #foo bob :spam"},
		{Mode("#foo"), "MODE #foo"},
		{Mode("#foo", "+o", "alice"), "MODE #foo +o alice"},
		{Invite("bob", "#foo"), "INVITE bob #foo"},
		{Topic("#foo", "Go all the way"), "TOPIC #foo :Go all the way"},
		{Topic("#foo", ""), "TOPIC #foo :"},
		{Away(""), "AWAY"},
		{Away("lunch"), "AWAY :lunch"},
		{Ping("x"), "PING x"},
		{Pong("irc.example.net"), "PONG irc.example.net"},
		{User("gopher", 8, "Go Pher"), "USER gopher 8 * :Go Pher"},
		{Pass("hunter2"), "PASS hunter2"},
	}
	for _, tc := range tt {
		b, err := tc.m.MarshalText()
		if err != nil {
			t.Errorf("%q: %v", tc.expected, err)
			continue
		}
		if got := strings.TrimSuffix(string(b), "\r\n"); got != tc.expected {
			t.Errorf("expected %q; got %q", tc.expected, got)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("one\r\ntwo\x00"); strings.ContainsAny(got, "\r\n\x00") {
		t.Errorf("line breaks survived: %q", got)
	}
	long := strings.Repeat("a", 1000)
	if got := sanitize(long); len(got) > maxTextBytes {
		t.Errorf("text was not truncated: %d bytes", len(got))
	}
	if got := sanitize("plain text"); got != "plain text" {
		t.Errorf("got %q", got)
	}
}

func TestIsQuit(t *testing.T) {
	tt := []struct {
		line string
		quit bool
	}{
		{"QUIT\r\n", true},
		{"QUIT :bye\r\n", true},
		{"quit :bye\r\n", true},
		{"QUITS\r\n", false},
		{"PRIVMSG #foo :QUIT\r\n", false},
	}
	for _, tc := range tt {
		if got := isQuit([]byte(tc.line)); got != tc.quit {
			t.Errorf("isQuit(%q) = %v", tc.line, got)
		}
	}
}
