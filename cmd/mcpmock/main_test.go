package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/mcpmock/configs"
	"github.com/i2y/mcpmock/internal/adapter/outbound/toolset"
)

func testConfig(name string) *configs.Config {
	return &configs.Config{
		Toolset:         name,
		LogLevel:        "debug",
		LogFormat:       "text",
		ShutdownTimeout: time.Second,
	}
}

func TestRun_Session(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"calculator","arguments":{"operation":"divide","x":7,"y":2}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"calculator","arguments":{"operation":"divide","x":7,"y":0}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	err := run(context.Background(), testConfig(toolset.Calculator), logger, strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t,
		`{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2025-03-26","capabilities":{"tools":{}},"serverInfo":{"name":"calculator-server","version":"1.0.0"}}}`+"\n"+
			`{"jsonrpc":"2.0","id":2,"result":{"content":[{"type":"text","text":"Calculator: 7 divide 2 = 3.5"}]}}`+"\n"+
			`{"jsonrpc":"2.0","id":3,"error":{"code":-32603,"message":"Internal error: Division by zero"}}`+"\n",
		out.String())
}

func TestRun_IdentityOverrides(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := testConfig(toolset.Adder)
	cfg.ServerName = "renamed-server"
	cfg.ProtocolVersion = "2024-11-05"

	var out bytes.Buffer
	err := run(context.Background(), cfg, logger, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`), &out)
	require.NoError(t, err)
	assert.Equal(t,
		`{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","capabilities":{"tools":{}},"serverInfo":{"name":"renamed-server","version":"1.0.0"}}}`+"\n",
		out.String())
}

func TestRun_UnknownToolset(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var out bytes.Buffer
	err := run(context.Background(), testConfig("weather"), logger, strings.NewReader(""), &out)
	assert.ErrorContains(t, err, "unknown toolset")
	assert.Empty(t, out.String())
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcpmock.log")
	cfg := testConfig(toolset.Simple)
	cfg.LogFile = path
	cfg.LogFormat = "json"

	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello", slog.String("toolset", cfg.Toolset))
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"toolset":"simple"`)
}
