package irc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves a character encoding by its WHATWG or IANA name, e.g. "iso-2022-jp" or "latin1".
// A nil encoding is returned for UTF-8 (and the empty name), meaning bytes pass through unchanged.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	// htmlindex encoders report unrepresentable characters instead of escaping them
	e, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return e, nil
}

// decodeReader wraps r so that bytes in encoding e are decoded to UTF-8.
func decodeReader(r io.Reader, e encoding.Encoding) io.Reader {
	if e == nil {
		return r
	}
	return transform.NewReader(r, e.NewDecoder())
}

// encodeLine converts a UTF-8 line to encoding e.
// Characters that e cannot represent are an error rather than being silently replaced.
func encodeLine(b []byte, e encoding.Encoding) ([]byte, error) {
	if e == nil {
		return b, nil
	}
	out, _, err := transform.Bytes(e.NewEncoder(), b)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}
