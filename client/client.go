package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/requests/client/throttle"
)

// Session is the handle every executor transfers through. It wraps an
// *http.Client whose transport it owns unless one is injected via
// [WithClient] or [WithTransport]. A Session may be shared by goroutines
// as long as each of them uses its own [Request].
type Session struct {
	c         *http.Client
	logger    *slog.Logger
	tracer    trace.Tracer
	userAgent string
	maxBody   int64
	encode    func([]string) (string, error)
	closed    atomic.Bool
}

// Build creates a Session from the given options.
func Build(optFns ...Option) (*Session, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying session option: %w", err)
		}
	}

	s := &Session{
		c:         &http.Client{},
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("no-op tracer"),
		userAgent: UserAgent(),
		maxBody:   opts.maxBody,
		encode:    URLEncode,
	}

	if opts.client != nil {
		hc := *opts.client
		s.c = &hc
	}

	if opts.logger != nil {
		s.logger = opts.logger
	}

	if opts.tracer != nil {
		s.tracer = opts.tracer
	}

	if opts.userAgent != "" {
		s.userAgent = opts.userAgent
	}

	if opts.formEncoding {
		s.encode = EncodeForm
	}

	if opts.timeout != nil {
		s.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		s.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return s.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	s.c.Transport = transport

	return s, nil
}

// Init builds a Session and a [Request] bound to rawURL. Release both with
// [Session.Close].
func Init(rawURL string, optFns ...Option) (*Session, *Request, error) {
	s, err := Build(optFns...)
	if err != nil {
		return nil, nil, err
	}

	return s, NewRequest(rawURL), nil
}

// Close releases the idle connections held by the Session's transport and
// the body buffer of each given Request. Calling it more than once is harmless.
func (s *Session) Close(reqs ...*Request) {
	for _, r := range reqs {
		if r != nil {
			r.release()
		}
	}

	if s.closed.Swap(true) {
		return
	}

	s.c.CloseIdleConnections()
}

// Get fetches req.URL and accumulates the response into req.
// GET requests carry the transport's default User-Agent.
func (s *Session) Get(ctx context.Context, req *Request) error {
	return s.do(ctx, req, http.MethodGet, nil, nil)
}

// Post submits data, read as alternating keys and values, to req.URL.
// A nil data sends an empty body with an explicit zero Content-Length.
func (s *Session) Post(ctx context.Context, req *Request, data []string) error {
	return s.submit(ctx, req, http.MethodPost, data, nil)
}

// Put is [Session.Post] with the PUT method.
func (s *Session) Put(ctx context.Context, req *Request, data []string) error {
	return s.submit(ctx, req, http.MethodPut, data, nil)
}

// PostWithHeaders is [Session.Post] with additional raw "Name: value"
// header lines, sent in order. Supplying headers suppresses the explicit
// zero Content-Length of an empty submission.
func (s *Session) PostWithHeaders(ctx context.Context, req *Request, data, headers []string) error {
	return s.submit(ctx, req, http.MethodPost, data, headers)
}

// PutWithHeaders is [Session.PostWithHeaders] with the PUT method.
func (s *Session) PutWithHeaders(ctx context.Context, req *Request, data, headers []string) error {
	return s.submit(ctx, req, http.MethodPut, data, headers)
}

// submit runs a POST or PUT. Both share body and header handling; only
// the method differs.
func (s *Session) submit(ctx context.Context, req *Request, method string, data, headers []string) error {
	if method != http.MethodPost && method != http.MethodPut {
		return contractErr("submit", fmt.Errorf("method %q is neither POST nor PUT", method))
	}

	return s.do(ctx, req, method, data, headers)
}

// do validates the request, runs one transfer and records the status code.
func (s *Session) do(ctx context.Context, req *Request, method string, data, headers []string) error {
	op := strings.ToLower(method)

	if req == nil {
		return contractErr(op, errors.New("request must not be nil"))
	}

	if err := checkTarget(op, target{URL: req.URL, Method: method, Data: data}); err != nil {
		return err
	}

	if !req.acquire() {
		return contractErr(op, ErrInFlight)
	}
	defer req.done()

	ctx, span := s.tracer.Start(ctx, "requests."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", req.URL),
			attribute.String("requests.id", req.ID.String()),
		),
	)
	defer span.End()

	hreq, err := s.newHTTPRequest(ctx, req, method, data, headers)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	req.Reset()
	req.maxBody = s.maxBody

	s.logger.Debug("request started", "method", method, "url", req.URL, "request_id", req.ID)
	start := time.Now()

	code, err := s.exec(hreq, func(resp *http.Response) error {
		if _, err := io.Copy(req, resp.Body); err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("request failed", "method", method, "url", req.URL, "request_id", req.ID, "partial", snippet(req.Bytes()), "since", time.Since(start).String(), "error", err)
		return fmt.Errorf("%s %s: %w", method, req.URL, err)
	}

	req.Code = code
	span.SetAttributes(
		attribute.Int("http.response.status_code", code),
		attribute.Int("http.response.body.size", req.Len()),
	)

	s.logger.Debug("request completed", "method", method, "url", req.URL, "request_id", req.ID, "statusCode", code, "size", req.Len(), "since", time.Since(start).String())

	return nil
}

// newHTTPRequest assembles the outgoing request. Data is encoded into a
// form body. Without data or caller headers a submission carries an
// explicit zero Content-Length. Caller headers win over the defaults set here.
func (s *Session) newHTTPRequest(ctx context.Context, req *Request, method string, data, headers []string) (*http.Request, error) {
	op := strings.ToLower(method)

	var body io.Reader
	var list headerList
	switch {
	case data != nil:
		encoded, err := s.encode(data)
		if err != nil {
			return nil, err
		}
		body = strings.NewReader(encoded)
	case method != http.MethodGet && headers == nil:
		list = append(list, zeroLength)
	}

	if headers != nil {
		parsed, err := parseHeaders(headers)
		if err != nil {
			return nil, contractErr(op, err)
		}
		list = append(list, parsed...)
	}

	hreq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, contractErr(op, err)
	}

	if data != nil {
		hreq.Header.Set("Content-Type", formContentType)
	}

	if method != http.MethodGet {
		hreq.Header.Set("User-Agent", s.userAgent)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(hreq.Header))
	list.apply(hreq)

	return hreq, nil
}

// exec runs the request and hands the response to fn. It returns the
// status code only when fn consumed the response without error.
func (s *Session) exec(req *http.Request, fn execFn) (int, error) {
	resp, err := s.c.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				s.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			s.logger.Error("failed to close response body", "error", err)
		}
	}()

	if err := fn(resp); err != nil {
		discardBody = false
		return 0, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	return resp.StatusCode, nil
}

func snippet(b []byte) string {
	if len(b) > maxErrBodySize {
		b = b[:maxErrBodySize]
	}

	return string(b)
}
