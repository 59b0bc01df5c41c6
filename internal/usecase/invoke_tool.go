package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i2y/mcpmock/internal/domain"
)

// InvokeToolUseCase handles a tool invocation request and executes it.
// Executor failures, panics included, never escape as anything other than
// a wrapped *domain.ToolExecutionError.
type InvokeToolUseCase struct {
	registry ToolRegistry
	logger   *slog.Logger
}

// NewInvokeToolUseCase creates a new InvokeToolUseCase.
func NewInvokeToolUseCase(registry ToolRegistry, logger *slog.Logger) *InvokeToolUseCase {
	return &InvokeToolUseCase{
		registry: registry,
		logger:   logger.With("usecase", "InvokeTool"),
	}
}

// Execute looks the tool up by exact name and runs its executor.
// It returns an error wrapping ErrToolNotFound for unknown names.
func (uc *InvokeToolUseCase) Execute(ctx context.Context, toolName string, args domain.Arguments) (*domain.ToolResult, error) {
	log := uc.logger.With(slog.String("tool_name", toolName))
	log.Debug("Executing tool invocation", slog.String("arguments", args.Kind().String()))

	execute, err := uc.registry.Lookup(ctx, toolName)
	if err != nil {
		log.Warn("Tool not found", slog.Any("error", err))
		return nil, fmt.Errorf("tool '%s' not found: %w", toolName, err)
	}

	result, err := run(ctx, execute, args)
	if err != nil {
		log.Warn("Tool execution failed", slog.Any("error", err))
		return nil, fmt.Errorf("failed to invoke tool %s: %w", toolName, domain.AsToolExecutionError(err))
	}
	if result == nil {
		result = &domain.ToolResult{Content: []domain.Content{}}
	}

	log.Debug("Tool invocation successful")
	return result, nil
}

func run(ctx context.Context, execute domain.Executor, args domain.Arguments) (result *domain.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.NewToolExecutionError("%v", r)
		}
	}()
	return execute(ctx, args)
}
