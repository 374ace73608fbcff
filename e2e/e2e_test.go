//go:build integration

package e2e_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adamwoolhether/requests"
	"github.com/adamwoolhether/requests/client"
	"github.com/adamwoolhether/requests/internal/echo"
)

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func newEchoServer(t *testing.T) string {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}

	srv := &http.Server{
		Handler:           echo.Handler(log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("serving: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("shutting down: %v", err)
		}
	})

	return "http://" + ln.Addr().String()
}

func decode(t *testing.T, req *client.Request) echo.Reply {
	t.Helper()

	var reply echo.Reply
	if err := json.Unmarshal(req.Bytes(), &reply); err != nil {
		t.Fatalf("decoding %q: %v", req.Text(), err)
	}

	return reply
}

// -------------------------------------------------------------------------
// Tests
// -------------------------------------------------------------------------

func TestE2E_PostEchoesEncodedBody(t *testing.T) {
	baseURL := newEchoServer(t)

	s, req, err := requests.Init(baseURL + "/submit")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Close(req)

	if err := s.Post(t.Context(), req, []string{"name", "a b"}); err != nil {
		t.Fatalf("post: %v", err)
	}

	if req.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", req.Code)
	}

	reply := decode(t, req)
	if reply.Method != http.MethodPost {
		t.Errorf("method = %q", reply.Method)
	}
	if !strings.Contains(reply.Body, "name") || !strings.Contains(reply.Body, "a%20b") {
		t.Errorf("body = %q, want encoded name=a b", reply.Body)
	}
}

func TestE2E_PutReportsMethod(t *testing.T) {
	baseURL := newEchoServer(t)

	s, req, err := requests.Init(baseURL)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Close(req)

	if err := s.PutWithHeaders(t.Context(), req, []string{"name", "a b"}, []string{"X-Trace: e2e"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	reply := decode(t, req)
	if reply.Method != http.MethodPut {
		t.Errorf("method = %q, want PUT", reply.Method)
	}
	if got := reply.Headers["X-Trace"]; len(got) != 1 || got[0] != "e2e" {
		t.Errorf("X-Trace = %v", got)
	}
}

func TestE2E_EmptySubmissionLength(t *testing.T) {
	baseURL := newEchoServer(t)

	s, req, err := requests.Init(baseURL)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer s.Close(req)

	if err := s.Post(t.Context(), req, nil); err != nil {
		t.Fatalf("post: %v", err)
	}

	reply := decode(t, req)
	if reply.ContentLength != 0 || reply.Body != "" {
		t.Errorf("content length %d, body %q", reply.ContentLength, reply.Body)
	}
	if got := reply.Headers["Content-Length"]; len(got) != 1 || got[0] != "0" {
		t.Errorf("Content-Length header = %v", got)
	}
}

func TestE2E_ConcurrentRequestsShareSession(t *testing.T) {
	baseURL := newEchoServer(t)

	s, err := requests.NewSession(client.WithThrottle(100, 10))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer s.Close()

	var wg sync.WaitGroup
	reqs := make([]*client.Request, 8)
	errs := make([]error, len(reqs))
	for i := range reqs {
		reqs[i] = client.NewRequest(baseURL)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Post(t.Context(), reqs[i], []string{"i", strings.Repeat("x", i)})
		}(i)
	}
	wg.Wait()

	for i, req := range reqs {
		if errs[i] != nil {
			t.Errorf("request %d: %v", i, errs[i])
			continue
		}
		if req.Code != http.StatusOK {
			t.Errorf("request %d code = %d", i, req.Code)
		}
	}
}
