package memrepo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/i2y/mcpmock/internal/domain"
	"github.com/i2y/mcpmock/internal/usecase"
)

type entry struct {
	tool    domain.Tool
	execute domain.Executor
}

// InMemoryToolRegistry provides an in-memory implementation of usecase.ToolRegistry.
// Tools are kept in registration order, which is the order tools/list reports.
type InMemoryToolRegistry struct {
	mu      sync.RWMutex
	order   []string         // Tool names in registration order
	entries map[string]entry // Map tool name to descriptor and executor
	logger  *slog.Logger
}

// NewInMemoryToolRegistry creates a new, empty registry.
func NewInMemoryToolRegistry(logger *slog.Logger) *InMemoryToolRegistry {
	return &InMemoryToolRegistry{
		entries: make(map[string]entry),
		logger:  logger.With("component", "mem_registry"),
	}
}

// Save stores the given tools and their corresponding executors.
// The slices must correspond by index. Empty or duplicate names, and nil
// executors, are rejected; nothing is stored if any entry is rejected.
func (r *InMemoryToolRegistry) Save(ctx context.Context, tools []domain.Tool, executors []domain.Executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(tools) != len(executors) {
		msg := fmt.Sprintf("mismatch between number of tools (%d) and executors (%d)", len(tools), len(executors))
		r.logger.Error("Failed to save tools", slog.String("reason", msg))
		return fmt.Errorf("save failed: %s", msg)
	}

	seen := make(map[string]bool, len(tools))
	for i, tool := range tools {
		switch {
		case tool.Name == "":
			return fmt.Errorf("save failed: tool at index %d has an empty name", i)
		case executors[i] == nil:
			return fmt.Errorf("save failed: tool %s has no executor", tool.Name)
		case seen[tool.Name]:
			return fmt.Errorf("save failed: duplicate tool name %s", tool.Name)
		}
		if _, exists := r.entries[tool.Name]; exists {
			return fmt.Errorf("save failed: tool %s is already registered", tool.Name)
		}
		seen[tool.Name] = true
	}

	for i, tool := range tools {
		r.entries[tool.Name] = entry{tool: tool, execute: executors[i]}
		r.order = append(r.order, tool.Name)
	}
	r.logger.Info("Saved tools", slog.Int("count", len(tools)), slog.Int("total_tools", len(r.order)))
	return nil
}

// Describe returns all tools in registration order.
func (r *InMemoryToolRegistry) Describe(ctx context.Context) ([]domain.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.entries[name].tool)
	}
	r.logger.Debug("Described tools", slog.Int("count", len(list)))
	return list, nil
}

// Lookup returns the executor registered under name.
func (r *InMemoryToolRegistry) Lookup(ctx context.Context, name string) (domain.Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		r.logger.Debug("Tool not registered", slog.String("tool_name", name))
		return nil, usecase.ErrToolNotFound
	}
	return e.execute, nil
}
