package irc

import (
	"fmt"
	stdlog "log"

	"github.com/go-log/log"
)

// StdLogger writes to the standard library's log package.
// It is used wherever an ErrorLog field is left nil.
type StdLogger struct {
	// Logger is the destination; nil means the log package's standard logger.
	Logger *stdlog.Logger
}

// Log formats v like fmt.Sprintln.
func (l StdLogger) Log(v ...interface{}) {
	l.output(fmt.Sprintln(v...))
}

// Logf formats v like fmt.Sprintf.
func (l StdLogger) Logf(format string, v ...interface{}) {
	l.output(fmt.Sprintf(format, v...))
}

func (l StdLogger) output(s string) {
	if l.Logger == nil {
		_ = stdlog.Output(4, s)
		return
	}
	_ = l.Logger.Output(4, s)
}

// NopLogger discards everything.
type NopLogger struct{}

// Log does nothing
func (NopLogger) Log(v ...interface{}) {}

// Logf does nothing
func (NopLogger) Logf(format string, v ...interface{}) {}

func loggerOrStd(l log.Logger) log.Logger {
	if l == nil {
		return StdLogger{}
	}
	return l
}
