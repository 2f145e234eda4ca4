// This lexer follows the method described in the video:
// Lexical Scanning in Go - Rob Pike
// https://www.youtube.com/watch?v=HxaD_trXwRE
//
// Unlike the talk, items are collected into a slice instead of a channel.
// Lines are short and parsed on the reader goroutine, so a goroutine per line is not worth it.

package irc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	delimParam    = ' ' // the delimiter token for parameters
	startPrefix   = ':' // the delimiter for the prefix
	startTrailing = ':' // the delimiter for the trailing param
	startTags     = '@' // the delimiter for IRCv3 message tags
)

// item represents a token returned from the scanner.
type item struct {
	typ itemType // Type, such as itemCommand
	val string   // the value of the lexed token
}

// itemType identifies the type of lex items.
type itemType int

const (
	itemError    itemType = iota // error occurred; value is text of error
	itemOrigin                   // the prefix token without its ':', e.g. "nick!user@host"
	itemCommand                  // the command or numeric, e.g. "PRIVMSG" or "001"
	itemParam                    // a middle parameter
	itemTrailing                 // the parameter introduced by " :", which may contain spaces
	itemEOF                      // end of message
)

const eof = -1

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner.
type lexer struct {
	input string // the string being scanned.
	start int    // start position of this item.
	pos   int    // current position in the input.
	width int    // width of the last rune read
	items []item // scanned items
	param int    // number of middle params emitted
}

// lex scans input by executing state functions until the state is nil.
// The last item is always itemEOF or itemError.
func lex(input string) []item {
	l := &lexer{
		input: input,
		items: make([]item, 0, 8),
	}
	for state := lexStart; state != nil; {
		state = state(l)
	}
	return l.items
}

func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{t, l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) ignoreRun(run string) {
	l.acceptRun(run)
	l.ignore()
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// errorf emits an error token and terminates the scan by returning a nil state.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items = append(l.items, item{itemError, fmt.Sprintf(format, args...)})
	return nil
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func lexStart(l *lexer) stateFn {
	l.ignoreRun(" ")
	if l.peek() == startTags {
		// message tags are skipped; they only appear after capability negotiation
		for r := l.next(); r != delimParam && r != eof; r = l.next() {
		}
		l.ignoreRun(" ")
	}
	if l.peek() == startPrefix {
		return lexOriginStart
	}
	if l.peek() == eof {
		return l.errorf("no command")
	}
	return lexCommand
}

// lexOriginStart scans a prefix delimiter, which is known to be present.
func lexOriginStart(l *lexer) stateFn {
	l.pos++
	l.ignore()
	return lexOrigin
}

// lexOrigin scans the whole prefix token. Splitting it into nick, user and host is left to ParseOrigin.
func lexOrigin(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == delimParam:
			l.backup()
			if l.pos == l.start {
				return l.errorf("empty origin")
			}
			l.emit(itemOrigin)
			l.ignoreRun(" ")
			if l.peek() == eof {
				return l.errorf("unexpected end of input; expected command")
			}
			return lexCommand
		case r == eof:
			return l.errorf("unexpected end of input; expected command")
		}
	}
}

func lexCommand(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == delimParam:
			l.backup()
			l.emit(itemCommand)
			return lexParams
		case r == eof:
			l.emit(itemCommand)
			l.emit(itemEOF)
			return nil
		}
	}
}

// lexParams skips parameter delimiters. Runs of spaces never produce empty params.
// A ':' directly after a delimiter is the " :" marker which starts the trailing param.
// After paramLimit middle params the rest of the line is the trailing param, with or without the marker.
func lexParams(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == delimParam:
			l.ignore()
			if l.peek() == startTrailing {
				return lexTrailingStart
			}
		case r == eof:
			l.emit(itemEOF)
			return nil
		default:
			l.backup()
			if l.param == paramLimit {
				return lexTrailing
			}
			return lexParam
		}
	}
}

func lexParam(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == delimParam:
			l.backup()
			l.emit(itemParam)
			l.param++
			return lexParams
		case r == eof:
			l.emit(itemParam)
			l.emit(itemEOF)
			return nil
		}
	}
}

func lexTrailingStart(l *lexer) stateFn {
	l.pos++
	l.ignore()
	return lexTrailing
}

func lexTrailing(l *lexer) stateFn {
	l.pos = len(l.input)
	l.emit(itemTrailing)
	l.emit(itemEOF)
	return nil
}
