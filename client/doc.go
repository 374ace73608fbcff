// Package client issues GET, POST and PUT requests through [net/http],
// accumulating each response body and status code into a [Request].
//
// # Sessions and Requests
//
// [Init] builds a [Session] and a [Request] bound to a URL in one call:
//
//	s, req, err := client.Init("https://api.example.com/items",
//		client.WithTimeout(10*time.Second),
//	)
//	if err != nil { ... }
//	defer s.Close(req)
//
// A Session can be shared, a Request cannot: give every concurrent
// exchange its own Request.
//
// # Executors
//
//	err = s.Get(ctx, req)
//	err = s.Post(ctx, req, []string{"name", "alice", "age", "30"})
//	err = s.PutWithHeaders(ctx, req, nil, []string{"X-Token: abc"})
//
// After an executor returns, req.Code holds the status code (0 when no
// response was obtained) and req.Bytes or req.Text the accumulated body.
// A failed transfer returns an error wrapping [ErrTransfer]; any bytes
// received before the failure stay in the Request.
//
// # Encoding
//
// POST and PUT data is a flat list of alternating keys and values.
// [URLEncode] joins the pairs and percent-encodes the result as a whole,
// delimiters included. Sessions built [WithFormEncoding] use [EncodeForm],
// which escapes keys and values separately.
//
// # Rate Limiting
//
// [WithThrottle] wraps the transport with the token bucket from the
// [github.com/adamwoolhether/requests/client/throttle] package.
package client
