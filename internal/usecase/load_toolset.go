package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// LoadToolsetUseCase orchestrates generating, validating and storing the
// tools of a toolset. It runs once, before the message loop starts.
type LoadToolsetUseCase struct {
	validator SchemaValidator
	registry  ToolRegistry
	logger    *slog.Logger
}

// NewLoadToolsetUseCase creates a new LoadToolsetUseCase.
// A nil validator skips descriptor validation.
func NewLoadToolsetUseCase(validator SchemaValidator, registry ToolRegistry, logger *slog.Logger) *LoadToolsetUseCase {
	return &LoadToolsetUseCase{
		validator: validator,
		registry:  registry,
		logger:    logger.With("usecase", "LoadToolset"),
	}
}

// Execute generates the source's tools, validates every descriptor and saves
// them to the registry. Nothing is saved if any descriptor is invalid.
func (uc *LoadToolsetUseCase) Execute(ctx context.Context, source ToolSource) error {
	log := uc.logger.With(slog.String("toolset", source.Name()))
	log.Info("Starting server initialization")

	tools, executors, err := source.Generate(ctx)
	if err != nil {
		log.Error("Failed to generate tools", slog.Any("error", err))
		return fmt.Errorf("failed to generate tools for toolset %s: %w", source.Name(), err)
	}

	if uc.validator != nil {
		for _, tool := range tools {
			if err := uc.validator.ValidateTool(ctx, tool); err != nil {
				log.Error("Invalid tool descriptor", slog.String("tool_name", tool.Name), slog.Any("error", err))
				return fmt.Errorf("invalid descriptor for tool %s: %w", tool.Name, err)
			}
		}
	}

	if err := uc.registry.Save(ctx, tools, executors); err != nil {
		log.Error("Failed to save tools", slog.Any("error", err))
		return fmt.Errorf("failed to save tools for toolset %s: %w", source.Name(), err)
	}

	log.Info("Server initialization complete", slog.Int("tool_count", len(tools)))
	return nil
}
