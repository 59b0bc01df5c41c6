package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/mcpmock/internal/domain"
	"github.com/i2y/mcpmock/pkg/shared/mcpjsonrpc"
)

const instrumentationName = "github.com/i2y/mcpmock/internal/usecase"

// MethodNotificationInitialized is sent by the client once it has processed
// the initialize result.
const MethodNotificationInitialized = "notifications/initialized"

// Method is the closed set of methods the dispatcher understands.
type Method int

const (
	MethodUnknown Method = iota
	MethodInitialize
	MethodInitialized
	MethodToolsList
	MethodToolsCall
)

// ClassifyMethod maps a method name onto a Method by exact match.
func ClassifyMethod(name string) Method {
	switch name {
	case string(mcp.MethodInitialize):
		return MethodInitialize
	case MethodNotificationInitialized:
		return MethodInitialized
	case string(mcp.MethodToolsList):
		return MethodToolsList
	case string(mcp.MethodToolsCall):
		return MethodToolsCall
	default:
		return MethodUnknown
	}
}

func (m Method) String() string {
	switch m {
	case MethodInitialize:
		return string(mcp.MethodInitialize)
	case MethodInitialized:
		return MethodNotificationInitialized
	case MethodToolsList:
		return string(mcp.MethodToolsList)
	case MethodToolsCall:
		return string(mcp.MethodToolsCall)
	default:
		return "unknown"
	}
}

// State is the handshake state of the connection.
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	default:
		return "closed"
	}
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      mcp.Implementation `json:"serverInfo"`
}

type serverCapabilities struct {
	Tools struct{} `json:"tools"`
}

type listToolsResult struct {
	Tools []domain.Tool `json:"tools"`
}

// Dispatcher routes decoded requests to the handshake, tools/list and
// tools/call logic. It does not reject calls made before initialize.
type Dispatcher struct {
	identity   domain.ServerIdentity
	serveTools *ServeToolsUseCase
	invokeTool *InvokeToolUseCase
	state      atomic.Int32
	tracer     trace.Tracer
	requests   metric.Int64Counter
	logger     *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets the provider for dispatch spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) DispatcherOption {
	return func(o *dispatcherOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider for the request counter.
// The global provider is used by default.
func WithMeterProvider(mp metric.MeterProvider) DispatcherOption {
	return func(o *dispatcherOptions) { o.meterProvider = mp }
}

// NewDispatcher creates a Dispatcher in the uninitialized state.
func NewDispatcher(
	identity domain.ServerIdentity,
	serveTools *ServeToolsUseCase,
	invokeTool *InvokeToolUseCase,
	logger *slog.Logger,
	opts ...DispatcherOption,
) *Dispatcher {
	o := dispatcherOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dispatcher{
		identity:   identity,
		serveTools: serveTools,
		invokeTool: invokeTool,
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		logger:     logger.With("usecase", "Dispatch"),
	}

	counter, err := o.meterProvider.Meter(instrumentationName).Int64Counter(
		"mcpmock.requests",
		metric.WithDescription("JSON-RPC messages dispatched, by method and outcome."),
	)
	if err != nil {
		d.logger.Warn("Failed to create request counter, metrics disabled", slog.Any("error", err))
		counter = noop.Int64Counter{}
	}
	d.requests = counter
	return d
}

// State returns the current handshake state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Close moves the dispatcher to its terminal state.
func (d *Dispatcher) Close() {
	d.state.Store(int32(StateClosed))
	d.logger.Debug("Dispatcher closed")
}

// Dispatch handles one request. It returns nil when the method produces no
// response at all. Callers must still drop the response of a notification.
func (d *Dispatcher) Dispatch(ctx context.Context, req *mcpjsonrpc.Request) *mcpjsonrpc.Response {
	method := ClassifyMethod(req.Method)

	ctx, span := d.tracer.Start(ctx, "mcpmock.dispatch",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", req.Method),
			attribute.Bool("rpc.jsonrpc.notification", req.IsNotification()),
		),
	)
	defer span.End()

	resp := d.route(ctx, method, req)

	outcome := "ok"
	switch {
	case resp == nil:
		outcome = "silent"
	case resp.Error != nil:
		outcome = "error"
		span.SetAttributes(attribute.Int("rpc.jsonrpc.error_code", resp.Error.Code))
		span.SetStatus(codes.Error, resp.Error.Message)
	}
	d.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method.String()),
		attribute.String("outcome", outcome),
	))
	return resp
}

func (d *Dispatcher) route(ctx context.Context, method Method, req *mcpjsonrpc.Request) *mcpjsonrpc.Response {
	switch method {
	case MethodInitialize:
		return d.initialize(req)
	case MethodInitialized:
		d.logger.Debug("Client completed handshake", slog.String("state", d.State().String()))
		return nil
	case MethodToolsList:
		return d.listTools(ctx, req)
	case MethodToolsCall:
		return d.callTool(ctx, req)
	default:
		d.logger.Debug("Method not found", slog.String("method", req.Method))
		return mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (d *Dispatcher) initialize(req *mcpjsonrpc.Request) *mcpjsonrpc.Response {
	if d.state.CompareAndSwap(int32(StateUninitialized), int32(StateReady)) {
		d.logger.Info("Handshake completed", slog.String("protocol_version", d.identity.ProtocolVersion))
	}
	return mcpjsonrpc.NewResult(req.ID, initializeResult{
		ProtocolVersion: d.identity.ProtocolVersion,
		ServerInfo: mcp.Implementation{
			Name:    d.identity.Name,
			Version: d.identity.Version,
		},
	})
}

func (d *Dispatcher) listTools(ctx context.Context, req *mcpjsonrpc.Request) *mcpjsonrpc.Response {
	tools, err := d.serveTools.Execute(ctx)
	if err != nil {
		return internalError(req.ID, err)
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	return mcpjsonrpc.NewResult(req.ID, listToolsResult{Tools: tools})
}

func (d *Dispatcher) callTool(ctx context.Context, req *mcpjsonrpc.Request) *mcpjsonrpc.Response {
	params, err := decodeCallToolParams(req.Params)
	if err != nil {
		return internalError(req.ID, err)
	}

	result, err := d.invokeTool.Execute(ctx, params.Name, params.Arguments)
	if errors.Is(err, ErrToolNotFound) {
		return mcpjsonrpc.NewError(req.ID, mcpjsonrpc.CodeInvalidParams, "Unknown tool: "+params.Name)
	}
	if err != nil {
		return internalError(req.ID, err)
	}
	return mcpjsonrpc.NewResult(req.ID, result)
}

// internalError reports err as -32603. Tool failures carry their own message;
// the use-case wrapping around them is not shown to the client.
func internalError(id json.RawMessage, err error) *mcpjsonrpc.Response {
	msg := err.Error()
	var execErr *domain.ToolExecutionError
	if errors.As(err, &execErr) {
		msg = execErr.Error()
	}
	return mcpjsonrpc.NewError(id, mcpjsonrpc.CodeInternalError, "Internal error: "+msg)
}

type callToolParams struct {
	Name      string
	Arguments domain.Arguments
}

// decodeCallToolParams reads tools/call params. Absent params behave like
// an empty object, absent arguments like an empty arguments object. A
// missing name reads None, which never matches a registered tool.
func decodeCallToolParams(raw json.RawMessage) (callToolParams, error) {
	p := callToolParams{Name: mcpjsonrpc.RawText(nil)}
	if raw == nil {
		return p, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return p, domain.NewToolExecutionError("params must be an object")
	}
	p.Name = mcpjsonrpc.RawText(members["name"])
	p.Arguments = domain.NewArguments(members["arguments"])
	return p, nil
}
