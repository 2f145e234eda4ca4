package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircfmt"
	"github.com/gobwas/glob"
)

// IsWM compares a wildcard expression with text and reports whether text matches.
// '*' matches any sequence of characters and '?' matches exactly one.
// The comparison ignores case, as IRC masks do.
//
// An invalid expression never matches.
func IsWM(wildText string, text string) bool {
	g, err := glob.Compile(strings.ToLower(wildText))
	if err != nil {
		return false
	}
	return g.Match(strings.ToLower(text))
}

// StripFormatting removes IRC color and formatting control characters from text.
func StripFormatting(text string) string {
	return ircfmt.Strip(text)
}
