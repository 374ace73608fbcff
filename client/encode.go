package client

import (
	"errors"
	"strings"
)

var errOddPairs = errors.New("key/value data must hold an even number of strings")

// URLEncode joins pairs, read as key0, value0, key1, value1, ..., into
// "key0=value0&key1=value1" preserving input order, then percent-encodes the
// whole joined string. The '=' and '&' delimiters are encoded along with the
// keys and values. An empty input yields "".
//
// Use [EncodeForm] for the conventional form where only keys and values are
// escaped.
func URLEncode(pairs []string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", contractErr("url encode", errOddPairs)
	}

	return Escape(join(pairs, nil)), nil
}

// EncodeForm escapes every key and value of pairs on its own and joins them
// with literal '=' and '&', preserving input order.
func EncodeForm(pairs []string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", contractErr("encode form", errOddPairs)
	}

	return join(pairs, Escape), nil
}

func join(pairs []string, esc func(string) string) string {
	if esc == nil {
		esc = func(s string) string { return s }
	}

	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(esc(pairs[i]))
		b.WriteByte('=')
		b.WriteString(esc(pairs[i+1]))
	}

	return b.String()
}

// Escape percent-encodes every byte of s outside the RFC 3986 unreserved
// set (ALPHA, DIGIT, '-', '.', '_', '~') as %XX with upper-case hex.
// Spaces become %20, never '+'.
func Escape(s string) string {
	const hex = "0123456789ABCDEF"

	var escapes int
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			escapes++
		}
	}
	if escapes == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*escapes)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', hex[c>>4], hex[c&15])
	}

	return string(buf)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}

	return false
}
