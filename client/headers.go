package client

import (
	"fmt"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// header is one parsed "Name: value" line.
type header struct {
	name  string
	value string
}

// headerList is the ordered set of headers attached to one outgoing
// request. It replaces, never merges with, any header set the transport
// would otherwise use.
type headerList []header

// zeroLength is added when a submission carries neither a body nor
// caller-supplied headers, so that servers rejecting an absent length
// still accept the request.
var zeroLength = header{name: "Content-Length", value: "0"}

// parseHeaders turns raw "Name: value" lines into a headerList, keeping
// input order. A line without a colon, or with an invalid name or value,
// is a contract violation.
func parseHeaders(lines []string) (headerList, error) {
	list := make(headerList, 0, len(lines))
	for i, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("header[%d] %q: missing ':'", i, line)
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("header[%d] %q: invalid name", i, line)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("header[%d] %q: invalid value", i, line)
		}

		list = append(list, header{name: textproto.CanonicalMIMEHeaderKey(name), value: value})
	}

	return list, nil
}

// apply writes every header to req in order. The first occurrence of a
// name replaces any value already on req; repeats add further values.
func (l headerList) apply(req *http.Request) {
	seen := make(map[string]bool, len(l))
	for _, h := range l {
		if h.name == "Host" {
			req.Host = h.value
			continue
		}

		if seen[h.name] {
			req.Header.Add(h.name, h.value)
			continue
		}
		seen[h.name] = true
		req.Header.Set(h.name, h.value)
	}
}
