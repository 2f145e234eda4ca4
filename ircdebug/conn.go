/*
Package ircdebug contains helper functions that are useful while writing an IRC client.
*/
package ircdebug

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/go-log/log"
)

// WriteTo returns a new io.ReadWriteCloser that copies all reads/writes for rwc to w, one line at a time.
// Lines read are prefixed with inPrefix and lines written with outPrefix.
// This is mainly useful while developing an IRC client like a bot,
// e.g. for writing to os.Stdout or a file.
//
// Lines from reads and writes are never interleaved with each other in w.
func WriteTo(w io.Writer, rwc io.ReadWriteCloser, outPrefix string, inPrefix string) io.ReadWriteCloser {
	mu := new(sync.Mutex)
	emit := func(prefix string) func([]byte) {
		return func(line []byte) {
			mu.Lock()
			defer mu.Unlock()
			_, _ = w.Write(append(append([]byte(prefix), line...), '\n'))
		}
	}
	return newTapConn(rwc, emit(outPrefix), emit(inPrefix))
}

// LogTo is like WriteTo but sends every line to l, marked with "->" for writes and "<-" for reads.
func LogTo(l log.Logger, rwc io.ReadWriteCloser) io.ReadWriteCloser {
	return newTapConn(rwc,
		func(line []byte) { l.Logf("-> %s", line) },
		func(line []byte) { l.Logf("<- %s", line) },
	)
}

func newTapConn(rwc io.ReadWriteCloser, out, in func([]byte)) *tapConn {
	return &tapConn{
		ReadWriteCloser: rwc,
		in:              &lineTap{emit: in},
		out:             &lineTap{emit: out},
	}
}

// tapConn reports complete lines passing through a connection in either direction.
type tapConn struct {
	io.ReadWriteCloser
	in  *lineTap
	out *lineTap
}

func (tc *tapConn) Read(p []byte) (int, error) {
	n, err := tc.ReadWriteCloser.Read(p)
	tc.in.feed(p[:n])
	return n, err
}

func (tc *tapConn) Write(p []byte) (int, error) {
	n, err := tc.ReadWriteCloser.Write(p)
	tc.out.feed(p[:n])
	return n, err
}

// SetReadDeadline is passed on to the wrapped connection. It does nothing for connections without deadlines.
func (tc *tapConn) SetReadDeadline(t time.Time) error {
	if d, ok := tc.ReadWriteCloser.(interface{ SetReadDeadline(time.Time) error }); ok {
		return d.SetReadDeadline(t)
	}
	return nil
}

// lineTap buffers partial lines and emits every complete one without its line ending.
type lineTap struct {
	mu   sync.Mutex
	buf  []byte
	emit func([]byte)
}

func (t *lineTap) feed(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	for {
		i := bytes.IndexByte(t.buf, '\n')
		if i < 0 {
			return
		}
		line := bytes.TrimRight(t.buf[:i], "\r")
		t.emit(line)
		t.buf = t.buf[i+1:]
	}
}
