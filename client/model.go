package client

import (
	"net/http"
)

const (
	// Product and Version form the first token of the string built by [UserAgent].
	Product = "requests"
	Version = "0.1"

	formContentType = "application/x-www-form-urlencoded"

	// maxErrBodySize caps how much of a response is kept in debug
	// logs when a transfer fails mid-body.
	maxErrBodySize = 256
)

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error
