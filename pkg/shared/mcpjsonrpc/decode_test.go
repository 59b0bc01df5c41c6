package mcpjsonrpc_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/mcpmock/pkg/shared/mcpjsonrpc"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name             string
		in               string
		wantID           string // "" means absent
		wantMethod       string
		wantParams       string
		wantNotification bool
	}{
		{
			name:       "call with numeric id",
			in:         `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
			wantID:     "1",
			wantMethod: "tools/list",
		},
		{
			name:       "call with string id and params",
			in:         `{"jsonrpc":"2.0","id":"abc","method":"tools/call","params":{"name":"adder"}}`,
			wantID:     `"abc"`,
			wantMethod: "tools/call",
			wantParams: `{"name":"adder"}`,
		},
		{
			name:       "explicit null id is still a call",
			in:         `{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			wantID:     "null",
			wantMethod: "initialize",
		},
		{
			name:             "notification has no id",
			in:               `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			wantMethod:       "notifications/initialized",
			wantNotification: true,
		},
		{
			name:       "non-string method keeps its JSON text",
			in:         `{"id":7,"method":42}`,
			wantID:     "7",
			wantMethod: "42",
		},
		{
			name:       "missing method reads None",
			in:         `{"id":1}`,
			wantID:     "1",
			wantMethod: "None",
		},
		{
			name:       "null method reads None",
			in:         `{"id":1,"method":null}`,
			wantID:     "1",
			wantMethod: "None",
		},
		{
			name:       "boolean method",
			in:         `{"id":1,"method":true}`,
			wantID:     "1",
			wantMethod: "True",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := mcpjsonrpc.DecodeRequest([]byte(tt.in))
			require.NoError(t, err)

			if tt.wantID == "" {
				assert.Nil(t, req.ID)
			} else {
				assert.Equal(t, tt.wantID, string(req.ID))
			}
			assert.Equal(t, tt.wantMethod, req.Method)
			if tt.wantParams == "" {
				assert.Nil(t, req.Params)
			} else {
				assert.JSONEq(t, tt.wantParams, string(req.Params))
			}
			assert.Equal(t, tt.wantNotification, req.IsNotification())
		})
	}
}

func TestDecodeRequest_Errors(t *testing.T) {
	t.Run("malformed JSON is a parse error", func(t *testing.T) {
		_, err := mcpjsonrpc.DecodeRequest([]byte(`{"jsonrpc":"2.0",`))
		require.Error(t, err)

		var parseErr *mcpjsonrpc.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "unexpected end of JSON input: line 1 column 18 (char 17)", parseErr.Error())
	})

	positions := []struct {
		in   string
		want string
	}{
		{in: `not json`, want: "invalid character 'o' in literal null (expecting 'u'): line 1 column 2 (char 1)"},
		{in: `{"a":1} x`, want: "invalid character 'x' after top-level value: line 1 column 9 (char 8)"},
		{in: "{\n\"a\":}", want: "invalid character '}' looking for beginning of value: line 2 column 5 (char 6)"},
	}
	for _, tt := range positions {
		t.Run("position of "+tt.in, func(t *testing.T) {
			_, err := mcpjsonrpc.DecodeRequest([]byte(tt.in))
			var parseErr *mcpjsonrpc.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.want, parseErr.Error())
		})
	}

	for _, in := range []string{`[1,2]`, `"text"`, `42`, `null`, `true`} {
		t.Run("non-object "+in, func(t *testing.T) {
			_, err := mcpjsonrpc.DecodeRequest([]byte(in))
			require.Error(t, err)
			assert.ErrorIs(t, err, mcpjsonrpc.ErrInvalidMessage)

			var parseErr *mcpjsonrpc.ParseError
			assert.False(t, errors.As(err, &parseErr))
		})
	}
}

func TestRawText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{``, "None"},
		{`null`, "None"},
		{`true`, "True"},
		{` false `, "False"},
		{`"adder"`, "adder"},
		{`""`, ""},
		{`"caf\u00e9"`, "café"},
		{`12`, "12"},
		{`[1,2]`, "[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, mcpjsonrpc.RawText(json.RawMessage(tt.in)))
		})
	}
	assert.Equal(t, "None", mcpjsonrpc.RawText(nil))
}

func TestResponseEncoding(t *testing.T) {
	tests := []struct {
		name string
		resp *mcpjsonrpc.Response
		want string
	}{
		{
			name: "result keeps jsonrpc id result order",
			resp: mcpjsonrpc.NewResult(json.RawMessage(`1`), map[string]string{"k": "v"}),
			want: `{"jsonrpc":"2.0","id":1,"result":{"k":"v"}}`,
		},
		{
			name: "error with unknown id renders null",
			resp: mcpjsonrpc.NewError(nil, mcpjsonrpc.CodeParseError, "Parse error: boom"),
			want: `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error: boom"}}`,
		},
		{
			name: "string id is echoed verbatim",
			resp: mcpjsonrpc.NewError(json.RawMessage(`"req-1"`), mcpjsonrpc.CodeMethodNotFound, "Method not found: x"),
			want: `{"jsonrpc":"2.0","id":"req-1","error":{"code":-32601,"message":"Method not found: x"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, -32700, mcpjsonrpc.CodeParseError)
	assert.Equal(t, -32601, mcpjsonrpc.CodeMethodNotFound)
	assert.Equal(t, -32602, mcpjsonrpc.CodeInvalidParams)
	assert.Equal(t, -32603, mcpjsonrpc.CodeInternalError)
	assert.Equal(t, "2.0", mcpjsonrpc.Version)
}
