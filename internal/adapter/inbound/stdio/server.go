package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/i2y/mcpmock/pkg/shared/mcpjsonrpc"
)

// Dispatcher handles decoded requests. *usecase.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *mcpjsonrpc.Request) *mcpjsonrpc.Response
	Close()
}

// Server is the protocol engine: it frames one JSON value per line on its
// input, drives the Dispatcher, and writes one compact JSON line per answer.
type Server struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewServer creates a new Server.
func NewServer(dispatcher Dispatcher, logger *slog.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		logger:     logger.With("component", "stdio_server"),
	}
}

type readResult struct {
	line []byte
	err  error
}

// Listen processes messages from in until end of input or until ctx is
// cancelled; both return nil. Messages are handled strictly one at a time
// and responses are written to out in request order. The dispatcher is
// closed when Listen returns.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	defer s.dispatcher.Close()

	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go readLines(in, lines, done)

	s.logger.Info("Listening for messages on stdio")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping message loop", slog.Any("reason", ctx.Err()))
			return nil
		case r := <-lines:
			if len(r.line) > 0 {
				s.handleLine(ctx, out, r.line)
			}
			if r.err == nil {
				continue
			}
			if errors.Is(r.err, io.EOF) {
				s.logger.Info("Input closed, stopping message loop")
				return nil
			}
			s.logger.Error("Failed to read input", slog.Any("error", r.err))
			return fmt.Errorf("failed to read message: %w", r.err)
		}
	}
}

// readLines reads newline-terminated lines of any length. A final line
// without a newline is delivered together with io.EOF.
func readLines(in io.Reader, lines chan<- readResult, done <-chan struct{}) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		select {
		case lines <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) handleLine(ctx context.Context, out io.Writer, line []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered from panic while handling message",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	resp := s.process(ctx, line)
	if resp == nil {
		return
	}
	if err := writeResponse(out, resp); err != nil {
		s.logger.Error("Failed to write response", slog.Any("error", err))
	}
}

// writeResponse writes resp as a single line of compact JSON.
func writeResponse(out io.Writer, resp *mcpjsonrpc.Response) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err := out.Write(buf.Bytes())
	return err
}

// process returns the response to write for line, or nil when nothing must
// be written.
func (s *Server) process(ctx context.Context, line []byte) *mcpjsonrpc.Response {
	req, err := mcpjsonrpc.DecodeRequest(line)
	var parseErr *mcpjsonrpc.ParseError
	switch {
	case errors.As(err, &parseErr):
		s.logger.Warn("Malformed message", slog.Any("error", err))
		return mcpjsonrpc.NewError(nil, mcpjsonrpc.CodeParseError, "Parse error: "+parseErr.Error())
	case err != nil:
		s.logger.Warn("Dropping message", slog.Any("error", err))
		return nil
	}

	resp := s.dispatcher.Dispatch(ctx, req)
	if req.IsNotification() {
		return nil
	}
	return resp
}
