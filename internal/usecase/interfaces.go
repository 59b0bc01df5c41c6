package usecase

import (
	"context"
	"errors"

	"github.com/i2y/mcpmock/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrToolNotFound = errors.New("tool not found")
)

// --- Tool Registry ---

// ToolRegistry is the contract for the static tool registry.
// It is filled once at startup and read-only afterwards.
type ToolRegistry interface {
	// Save stores tools and their executors. The slices correspond by index.
	Save(ctx context.Context, tools []domain.Tool, executors []domain.Executor) error

	// Describe returns all tools in registration order.
	Describe(ctx context.Context) ([]domain.Tool, error)

	// Lookup returns the executor registered under the exact name,
	// or ErrToolNotFound.
	Lookup(ctx context.Context, name string) (domain.Executor, error)
}

// --- Toolset loading ---

// ToolSource produces the descriptors and executors of one toolset.
type ToolSource interface {
	Name() string
	Generate(ctx context.Context) ([]domain.Tool, []domain.Executor, error)
}

// SchemaValidator checks that a tool descriptor is well formed before it is
// advertised. It never sees call arguments.
type SchemaValidator interface {
	ValidateTool(ctx context.Context, tool domain.Tool) error
}
