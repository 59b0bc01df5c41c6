package toolset

import (
	"context"
	"fmt"

	"github.com/i2y/mcpmock/internal/domain"
)

func newSimple(lookupEnv func(string) (string, bool)) *Toolset {
	t := newToolset(Simple, "simple-test-server")
	t.add(domain.Tool{
		Name:        "echo",
		Description: "Echoes back the input text",
		InputSchema: domain.ObjectSchema([]string{"text"},
			stringProperty("text", "Text to echo back"),
		),
	}, runEcho)
	t.add(domain.Tool{
		Name:        "add",
		Description: "Adds two numbers together",
		InputSchema: domain.ObjectSchema([]string{"a", "b"},
			numberProperty("a", "First number"),
			numberProperty("b", "Second number"),
		),
	}, runAdd)
	t.add(domain.Tool{
		Name:        "environment",
		Description: "Returns environment variable value",
		InputSchema: domain.ObjectSchema([]string{"var"},
			stringProperty("var", "Environment variable name"),
		),
	}, environment(lookupEnv))
	t.add(domain.Tool{
		Name:        "fail",
		Description: "Always fails for testing error handling",
		InputSchema: domain.ObjectSchema(nil),
	}, runFail)
	return t
}

func runEcho(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	text, err := args.String("text", "")
	if err != nil {
		return nil, err
	}
	return domain.NewTextResult("Echo: " + text), nil
}

func runAdd(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	a, b, err := operands(args, "a", "b")
	if err != nil {
		return nil, err
	}
	return domain.NewTextResult(fmt.Sprintf("%s + %s = %s", a, b, a.Add(b))), nil
}

func environment(lookupEnv func(string) (string, bool)) domain.Executor {
	return func(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
		name, err := args.String("var", "")
		if err != nil {
			return nil, err
		}
		value, ok := lookupEnv(name)
		if !ok {
			value = fmt.Sprintf("Environment variable '%s' not found", name)
		}
		return domain.NewTextResult(name + "=" + value), nil
	}
}

func runFail(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	return nil, domain.NewToolExecutionError("This tool always fails")
}
