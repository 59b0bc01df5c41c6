package openapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/mcpmock/internal/domain"
)

// SchemaValidator implements usecase.SchemaValidator by converting a tool's
// input schema into an OpenAPI 3 schema and validating it with kin-openapi.
type SchemaValidator struct {
	logger *slog.Logger
}

// NewSchemaValidator creates a new SchemaValidator.
func NewSchemaValidator(logger *slog.Logger) *SchemaValidator {
	return &SchemaValidator{
		logger: logger.With("component", "openapi_validator"),
	}
}

// ValidateTool checks that the descriptor is well formed: known property
// types, enum values of the declared type, and required names that exist.
// Call arguments are never validated here.
func (v *SchemaValidator) ValidateTool(ctx context.Context, tool domain.Tool) error {
	log := v.logger.With(slog.String("tool_name", tool.Name))

	schema, err := convertInputSchema(tool.InputSchema)
	if err != nil {
		return err
	}
	if err := schema.Validate(ctx); err != nil {
		return fmt.Errorf("input schema is invalid: %w", err)
	}

	for _, prop := range tool.InputSchema.Properties {
		propSchema := schema.Properties[prop.Name].Value
		for _, value := range prop.Enum {
			if err := propSchema.VisitJSON(value); err != nil {
				return fmt.Errorf("enum value %q of property %s does not match its type: %w", value, prop.Name, err)
			}
		}
	}

	for _, name := range tool.InputSchema.Required {
		if _, ok := tool.InputSchema.Properties.Lookup(name); !ok {
			return fmt.Errorf("required property %s is not declared", name)
		}
	}

	log.Debug("Tool descriptor validated", slog.Int("properties", len(tool.InputSchema.Properties)))
	return nil
}

// convertInputSchema converts a domain.InputSchema into an openapi3.Schema.
func convertInputSchema(in domain.InputSchema) (*openapi3.Schema, error) {
	if in.Type != openapi3.TypeObject {
		return nil, fmt.Errorf("input schema type must be %q, got %q", openapi3.TypeObject, in.Type)
	}

	schema := openapi3.NewObjectSchema()
	schema.Required = in.Required
	for _, prop := range in.Properties {
		if prop.Name == "" {
			return nil, fmt.Errorf("property with empty name")
		}
		if _, dup := schema.Properties[prop.Name]; dup {
			return nil, fmt.Errorf("property %s declared twice", prop.Name)
		}

		propSchema := &openapi3.Schema{
			Type:        &openapi3.Types{prop.Type},
			Description: prop.Description,
		}
		for _, value := range prop.Enum {
			propSchema.Enum = append(propSchema.Enum, value)
		}
		schema.WithProperty(prop.Name, propSchema)
	}
	return schema, nil
}
