/*
Package ircdial contains the transports a Client can dial: plain TCP (honoring proxy environment variables)
and WebSocket.

Both return an io.ReadWriteCloser that carries CRLF-delimited IRC lines, which is all a Client needs.
TLS is left to the caller; wrap the returned TCP connection or use a wss:// URL.
*/
package ircdial

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
)

// DialTimeout bounds how long TCP dials may take when ctx has no deadline.
var DialTimeout = 30 * time.Second

// TCP dials addr ("host:port") over TCP.
// The ALL_PROXY and NO_PROXY environment variables are honored, so a SOCKS5 proxy can be configured externally.
func TCP(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	dialer := &net.Dialer{Timeout: DialTimeout}
	d := proxy.FromEnvironmentUsing(dialer)
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}
	return d.Dial("tcp", addr)
}

// Subprotocol is the WebSocket subprotocol for IRC carried as UTF-8 text frames.
const Subprotocol = "text.ircv3.net"

var crlf = []byte("\r\n")

// WebSocket dials an IRC server at a ws:// or wss:// URL.
// Each text frame carries one IRC line without its line ending.
// Reads return frames with "\r\n" appended; writes are split on line endings and sent one frame per line.
func WebSocket(ctx context.Context, url string, header http.Header) (io.ReadWriteCloser, error) {
	dialer := *websocket.DefaultDialer
	dialer.Subprotocols = []string{Subprotocol}
	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return NewWSConn(ws), nil
}

// NewWSConn adapts an established WebSocket connection to a line stream.
func NewWSConn(ws *websocket.Conn) *WSConn {
	return &WSConn{conn: ws}
}

// WSConn is a WebSocket connection presented as a stream of CRLF-terminated lines.
type WSConn struct {
	conn *websocket.Conn

	// pending holds the unread remainder of the last frame
	pending []byte

	wmu sync.Mutex
}

// Read implements io.Reader. Empty frames and binary frames are skipped.
func (wc *WSConn) Read(p []byte) (int, error) {
	for len(wc.pending) == 0 {
		typ, msg, err := wc.conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				return 0, io.EOF
			}
			return 0, err
		}
		if typ != websocket.TextMessage || len(msg) == 0 {
			continue
		}
		wc.pending = append(msg, crlf...)
	}
	n := copy(p, wc.pending)
	wc.pending = wc.pending[n:]
	return n, nil
}

// Write implements io.Writer. Every line in p is sent as its own text frame.
func (wc *WSConn) Write(p []byte) (int, error) {
	wc.wmu.Lock()
	defer wc.wmu.Unlock()

	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 {
			continue
		}
		if err := wc.conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// SetReadDeadline lets a Client enforce its idle timeout.
func (wc *WSConn) SetReadDeadline(t time.Time) error {
	return wc.conn.SetReadDeadline(t)
}

// Close closes the underlying connection without a close handshake.
func (wc *WSConn) Close() error {
	return wc.conn.Close()
}
