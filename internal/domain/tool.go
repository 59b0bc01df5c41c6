package domain

import "context"

// Tool describes a callable operation exposed over MCP.
// Based on MCP Spec 2025-03-26: https://modelcontextprotocol.io/specification/2025-03-26
type Tool struct {
	// Name MUST be unique within the server. It is the registry key.
	Name string `json:"name"`

	// Description provides a natural language explanation of what the tool does.
	Description string `json:"description"`

	// InputSchema defines the arguments the tool accepts, in JSON Schema form.
	// It is advertised only; arguments are never validated against it.
	InputSchema InputSchema `json:"inputSchema"`
}

// Executor runs a tool. Executors read their arguments through the typed
// accessors on Arguments, which apply the default-on-missing policy.
// Any returned error is reported to the client as an internal error.
type Executor func(ctx context.Context, args Arguments) (*ToolResult, error)

// ContentTypeText is the only content type the shipped tools produce.
const ContentTypeText = "text"

// ToolResult is the payload of a successful tools/call.
type ToolResult struct {
	Content []Content `json:"content"`
}

// Content is a single item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextResult wraps a human-readable summary into a tool result.
func NewTextResult(text string) *ToolResult {
	return &ToolResult{Content: []Content{{Type: ContentTypeText, Text: text}}}
}
