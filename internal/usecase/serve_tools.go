package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i2y/mcpmock/internal/domain"
)

// ServeToolsUseCase provides the functionality to list available tools.
type ServeToolsUseCase struct {
	registry ToolRegistry
	logger   *slog.Logger
}

// NewServeToolsUseCase creates a new ServeToolsUseCase.
func NewServeToolsUseCase(registry ToolRegistry, logger *slog.Logger) *ServeToolsUseCase {
	return &ServeToolsUseCase{
		registry: registry,
		logger:   logger.With("usecase", "ServeTools"),
	}
}

// Execute retrieves all registered tools, in registration order.
func (uc *ServeToolsUseCase) Execute(ctx context.Context) ([]domain.Tool, error) {
	uc.logger.Debug("Listing tools")
	tools, err := uc.registry.Describe(ctx)
	if err != nil {
		uc.logger.Error("Failed to list tools from registry", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list tools from registry: %w", err)
	}
	uc.logger.Debug("Successfully listed tools", slog.Int("count", len(tools)))
	return tools, nil
}
