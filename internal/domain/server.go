package domain

// DefaultProtocolVersion is the MCP revision advertised during the handshake.
const DefaultProtocolVersion = "2025-03-26"

// ServerIdentity is advertised in the initialize result.
type ServerIdentity struct {
	Name            string
	Version         string
	ProtocolVersion string
}
