package toolset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/i2y/mcpmock/internal/domain"
)

// Names of the shipped toolsets.
const (
	Adder         = "adder"
	Calculator    = "calculator"
	FileSystem    = "filesystem"
	TextProcessor = "text_processor"
	Simple        = "simple"
)

const serverVersion = "1.0.0"

// ErrUnknownToolset is returned by New for a name not listed in Names.
var ErrUnknownToolset = errors.New("unknown toolset")

// Names returns the shipped toolsets in a stable order.
func Names() []string {
	return []string{Adder, Calculator, FileSystem, TextProcessor, Simple}
}

// Toolset is a fixed set of tools together with the identity the server
// advertises while serving them. It implements usecase.ToolSource.
type Toolset struct {
	name      string
	identity  domain.ServerIdentity
	tools     []domain.Tool
	executors []domain.Executor
}

// Option configures a Toolset.
type Option func(*options)

type options struct {
	lookupEnv func(string) (string, bool)
}

// WithLookupEnv replaces os.LookupEnv for the environment tool.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) { o.lookupEnv = fn }
}

// New returns the named toolset.
func New(name string, opts ...Option) (*Toolset, error) {
	o := options{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	switch name {
	case Adder:
		return newAdder(), nil
	case Calculator:
		return newCalculator(), nil
	case FileSystem:
		return newFileSystem(), nil
	case TextProcessor:
		return newTextProcessor(), nil
	case Simple:
		return newSimple(o.lookupEnv), nil
	default:
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownToolset, name, strings.Join(Names(), ", "))
	}
}

func newToolset(name, serverName string) *Toolset {
	return &Toolset{
		name: name,
		identity: domain.ServerIdentity{
			Name:            serverName,
			Version:         serverVersion,
			ProtocolVersion: domain.DefaultProtocolVersion,
		},
	}
}

func (t *Toolset) add(tool domain.Tool, execute domain.Executor) {
	t.tools = append(t.tools, tool)
	t.executors = append(t.executors, execute)
}

// Name returns the toolset name.
func (t *Toolset) Name() string { return t.name }

// Identity returns the server identity advertised with this toolset.
func (t *Toolset) Identity() domain.ServerIdentity { return t.identity }

// Generate returns copies of the tool descriptors and their executors,
// in registration order.
func (t *Toolset) Generate(ctx context.Context) ([]domain.Tool, []domain.Executor, error) {
	tools := make([]domain.Tool, len(t.tools))
	copy(tools, t.tools)
	executors := make([]domain.Executor, len(t.executors))
	copy(executors, t.executors)
	return tools, executors, nil
}

func numberProperty(name, description string) domain.Property {
	return domain.Property{Name: name, Type: "number", Description: description}
}

func stringProperty(name, description string) domain.Property {
	return domain.Property{Name: name, Type: "string", Description: description}
}

func enumProperty(name, description string, options []string) domain.Property {
	return domain.Property{Name: name, Type: "string", Enum: options, Description: description}
}
