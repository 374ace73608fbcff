package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/requests/client"
	"github.com/adamwoolhether/requests/internal/echo"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "requests",
		Short:         "Issue GET, POST and PUT requests and print the response",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	bindSessionFlags(root.PersistentFlags())

	root.AddCommand(
		newGetCmd(),
		newSubmitCmd(http.MethodPost),
		newSubmitCmd(http.MethodPut),
		newServeCmd(),
	)

	return root
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get URL",
		Short: "Fetch URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], func(ctx context.Context, s *client.Session, req *client.Request) error {
				return s.Get(ctx, req)
			})
		},
	}
}

func newSubmitCmd(method string) *cobra.Command {
	var data, headers []string

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: "Submit key=value data to URL with " + method,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(data)
			if err != nil {
				return err
			}

			var lines []string
			if cmd.Flags().Changed("header") {
				lines = headers
			}

			return run(cmd, args[0], func(ctx context.Context, s *client.Session, req *client.Request) error {
				if method == http.MethodPut {
					return s.PutWithHeaders(ctx, req, pairs, lines)
				}
				return s.PostWithHeaders(ctx, req, pairs, lines)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "key=value pair, repeatable, sent in order")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "raw 'Name: value' header line, repeatable")

	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a handler that echoes every request as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, addr, echo.Handler(log), log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}

// run builds a session from the persistent flags, executes fn against
// rawURL and prints the status code followed by the body.
func run(cmd *cobra.Command, rawURL string, fn func(context.Context, *client.Session, *client.Request) error) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	s, req, err := client.Init(rawURL, cfg.options(log)...)
	if err != nil {
		return err
	}
	defer s.Close(req)

	if err := fn(cmd.Context(), s, req); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, req.Code)
	if _, err := out.Write(req.Bytes()); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	if req.Len() > 0 && req.Bytes()[req.Len()-1] != '\n' {
		fmt.Fprintln(out)
	}

	return nil
}

// parsePairs splits "key=value" flags into the flat key/value list the
// executors take. No flags yields nil, sending an empty body.
func parsePairs(flags []string) ([]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	pairs := make([]string, 0, 2*len(flags))
	for _, f := range flags {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("data %q: expected key=value", f)
		}
		pairs = append(pairs, k, v)
	}

	return pairs, nil
}

func serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("echo server started", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		log.Info("echo server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		return nil
	}
}
