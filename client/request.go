package client

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Request holds the state of one HTTP exchange: the target URL, the
// accumulated response body and the status code reported by the server.
//
// A Request is owned by its caller and may be reused for sequential
// exchanges against the same URL. Every executor call resets Code and the
// body before the transfer starts. Handing a Request to two executors at
// once is rejected with [ErrInFlight].
type Request struct {
	// ID correlates log lines and trace spans for this Request.
	ID uuid.UUID
	// URL is the target of every exchange run with this Request.
	URL string
	// Code is 0 until a transfer completes, then the response status code.
	Code int

	body     bytes.Buffer
	maxBody  int64
	inFlight atomic.Bool
}

// NewRequest returns an empty Request bound to rawURL. The URL is only
// validated when an executor runs.
func NewRequest(rawURL string) *Request {
	return &Request{
		ID:  uuid.New(),
		URL: rawURL,
	}
}

// Write appends p to the response body. It is the accumulator the
// executors hand to the transport: a return value smaller than len(p)
// always carries an error and aborts the transfer.
func (r *Request) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if r.maxBody > 0 && int64(r.body.Len())+int64(len(p)) > r.maxBody {
		return 0, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, r.maxBody)
	}

	defer func() {
		if rec := recover(); rec != nil {
			if rec != bytes.ErrTooLarge {
				panic(rec)
			}
			n, err = 0, fmt.Errorf("%w: %d bytes held", ErrAllocation, r.body.Len())
		}
	}()

	return r.body.Write(p)
}

// Bytes returns the accumulated response body. The slice aliases the
// Request's buffer and is only valid until the next executor call.
func (r *Request) Bytes() []byte {
	return r.body.Bytes()
}

// Text returns the accumulated response body as a string.
func (r *Request) Text() string {
	return r.body.String()
}

// Len returns the number of accumulated body bytes.
func (r *Request) Len() int {
	return r.body.Len()
}

// CString returns a copy of the body followed by a single NUL byte, for
// callers handing the response to code that expects terminated text.
// The terminator is not part of Len.
func (r *Request) CString() []byte {
	out := make([]byte, r.body.Len()+1)
	copy(out, r.body.Bytes())

	return out
}

// Reset clears the status code and body, keeping the URL.
func (r *Request) Reset() {
	r.Code = 0
	r.body.Reset()
}

// release drops the body buffer so its memory can be reclaimed.
func (r *Request) release() {
	r.Code = 0
	r.body = bytes.Buffer{}
}

// acquire marks r as bound to a transfer. It reports false if another
// transfer already holds it.
func (r *Request) acquire() bool {
	return r.inFlight.CompareAndSwap(false, true)
}

func (r *Request) done() {
	r.inFlight.Store(false)
}
