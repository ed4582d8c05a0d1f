package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Config bounds the resources used by Serve.
type Config struct {
	// MaxConcurrency is the number of commands that may run at once.
	MaxConcurrency int
	// MaxMessageSize is the longest accepted request line in bytes.
	MaxMessageSize int64
}

// Server reads requests from an input stream and writes responses to an
// output stream.
type Server struct {
	router *Router
	cfg    Config
	logger *slog.Logger
}

// NewServer creates a server dispatching through router.
func NewServer(router *Router, cfg Config, logger *slog.Logger) *Server {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if cfg.MaxMessageSize < bufio.MaxScanTokenSize {
		cfg.MaxMessageSize = bufio.MaxScanTokenSize
	}
	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger.With("system", "bridge"),
	}
}

// Serve processes request lines from in until it is exhausted or ctx is
// cancelled. Each command runs in its own goroutine; responses are written to
// out one line at a time and may arrive in a different order than their
// requests. Serve waits for in-flight commands before returning.
//
// On cancellation Serve closes in when it implements io.Closer, which ends the
// reader goroutine. A reader that is not a Closer, or one whose Read does not
// return after Close, keeps that goroutine blocked until its next line or EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	w := &responseWriter{enc: json.NewEncoder(out)}
	sem := make(chan struct{}, s.cfg.MaxConcurrency)

	var wg sync.WaitGroup
	defer wg.Wait()

	lines := make(chan []byte)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), int(s.cfg.MaxMessageSize))
		for scanner.Scan() {
			line := bytes.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.logger.Info("bridge serving", "max_concurrency", s.cfg.MaxConcurrency)

	for {
		var line []byte
		var ok bool

		select {
		case <-ctx.Done():
			closeInput(in)
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			select {
			case err := <-scanErr:
				if err != nil {
					return fmt.Errorf("read request: %w", err)
				}
			default:
			}
			s.logger.Info("bridge input closed")
			return nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			closeInput(in)
			return ctx.Err()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := w.write(s.handle(ctx, line)); err != nil {
				s.logger.Error("write response failed", "error", err)
			}
		}()
	}
}

func (s *Server) handle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		err = fmt.Errorf("malformed request: %w", err)
		s.logger.Error("request rejected", "error", err)
		return errorResponse(nil, KindInvalidInput, err)
	}
	return s.router.Dispatch(ctx, req)
}

type responseWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func (w *responseWriter) write(resp Response) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func closeInput(in io.Reader) {
	if c, ok := in.(io.Closer); ok {
		c.Close()
	}
}
