package mcpjsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidMessage is returned by DecodeRequest for well-formed JSON that is
// not an object and therefore cannot be a request.
var ErrInvalidMessage = errors.New("message is not a JSON object")

// ParseError wraps a JSON syntax failure. Its message is the detail reported
// back to the client in a -32700 response. Line and Column are 1-based and
// Char is the 0-based byte offset; all three are zero when unknown.
type ParseError struct {
	Err    error
	Line   int
	Column int
	Char   int
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: line %d column %d (char %d)", e.Err, e.Line, e.Column, e.Char)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeRequest decodes a single framed message.
// It returns *ParseError for malformed JSON and ErrInvalidMessage (wrapped)
// when the value is valid JSON but not an object.
func DecodeRequest(data []byte) (*Request, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newParseError(data, err)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidMessage, describeJSON(raw))
	}

	req := &Request{}
	if v, ok := members["jsonrpc"]; ok {
		req.Version = RawText(v)
	}
	if v, ok := members["id"]; ok {
		req.ID = v
	}
	req.Method = RawText(members["method"])
	if v, ok := members["params"]; ok {
		req.Params = v
	}
	return req, nil
}

// newParseError locates a syntax error in data. The decoder reports the
// offset just past the offending byte, or the input length at end of input.
func newParseError(data []byte, err error) *ParseError {
	pe := &ParseError{Err: err}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return pe
	}
	pos := int(syntaxErr.Offset)
	if pos > len(data) {
		pos = len(data)
	}
	if pos > 0 && !(pos == len(data) && syntaxErr.Error() == "unexpected end of JSON input") {
		pos--
	}
	pe.Char = pos
	pe.Line = bytes.Count(data[:pos], []byte{'\n'}) + 1
	pe.Column = pos - bytes.LastIndexByte(data[:pos], '\n')
	return pe
}

// RawText renders a raw JSON value for use in messages. Strings are
// unquoted, a missing value or null reads None, booleans read True and
// False, and anything else is returned as its JSON text.
func RawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	switch string(v) {
	case "", "null":
		return "None"
	case "true":
		return "True"
	case "false":
		return "False"
	}
	var s string
	if v[0] == '"' && json.Unmarshal(v, &s) == nil {
		return s
	}
	return string(v)
}

func describeJSON(raw json.RawMessage) string {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return "array"
		case '"':
			return "string"
		case 'n':
			return "null"
		case 't', 'f':
			return "boolean"
		default:
			return "number"
		}
	}
	return "empty value"
}
