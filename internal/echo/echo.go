// Package echo provides an HTTP handler that reflects every request back
// to the caller as JSON. It backs the end-to-end tests and the
// `requests serve` command.
package echo

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Reply is the JSON document written for every request.
type Reply struct {
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	Query         string              `json:"query,omitempty"`
	Headers       map[string][]string `json:"headers"`
	ContentLength int64               `json:"content_length"`
	Body          string              `json:"body"`
	// Form holds Body decoded as a form, when it parses as one.
	Form url.Values `json:"form,omitempty"`
}

// Handler returns an http.Handler echoing each request. A "status" query
// parameter selects the response status code.
func Handler(log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
		}
		log.Info("request started", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

		status := http.StatusOK
		if s := r.URL.Query().Get("status"); s != "" {
			if _, err := fmt.Sscanf(s, "%d", &status); err != nil || status < 100 || status > 599 {
				status = http.StatusBadRequest
			}
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			status = http.StatusBadRequest
		}

		reply := Reply{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Headers:       r.Header,
			ContentLength: r.ContentLength,
			Body:          string(body),
		}
		if form, err := url.ParseQuery(string(body)); err == nil && len(body) > 0 {
			reply.Form = form
		}

		if err := respondJSON(w, status, reply); err != nil {
			log.Error("echo respond", "error", err)
		}

		log.Info("request completed", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr, "statusCode", status, "since", time.Since(start).String())
	}

	return http.HandlerFunc(h)
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}
