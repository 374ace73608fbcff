// Package requests exposes the session builder and URL encoder of the
// client package for callers that only need the common path.
package requests

import (
	"github.com/adamwoolhether/requests/client"
)

// NewSession instantiates a new *client.Session with the provided options.
// If not specified, a private clone of http.DefaultTransport is used.
func NewSession(opts ...client.Option) (*client.Session, error) {
	return client.Build(opts...)
}

// Init builds a session and a request bound to rawURL.
func Init(rawURL string, opts ...client.Option) (*client.Session, *client.Request, error) {
	return client.Init(rawURL, opts...)
}

// URLEncode joins key/value pairs and percent-encodes the result.
// See client.URLEncode.
func URLEncode(pairs []string) (string, error) {
	return client.URLEncode(pairs)
}
