package toolset

import (
	"context"
	"fmt"

	"github.com/i2y/mcpmock/internal/domain"
)

var calculatorOperations = []string{"add", "subtract", "multiply", "divide"}

func newAdder() *Toolset {
	t := newToolset(Adder, "adder-server")
	t.add(domain.Tool{
		Name:        "adder",
		Description: "Adds two numbers together",
		InputSchema: domain.ObjectSchema([]string{"a", "b"},
			numberProperty("a", "First number to add"),
			numberProperty("b", "Second number to add"),
		),
	}, runAdder)
	return t
}

func runAdder(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	a, b, err := operands(args, "a", "b")
	if err != nil {
		return nil, err
	}
	return domain.NewTextResult(fmt.Sprintf("Adder: %s + %s = %s", a, b, a.Add(b))), nil
}

func newCalculator() *Toolset {
	t := newToolset(Calculator, "calculator-server")
	t.add(domain.Tool{
		Name:        "calculator",
		Description: "Performs basic mathematical calculations including addition, subtraction, multiplication and division with advanced error handling for edge cases",
		InputSchema: domain.ObjectSchema([]string{"operation", "x", "y"},
			enumProperty("operation", "Mathematical operation to perform", calculatorOperations),
			numberProperty("x", "First operand"),
			numberProperty("y", "Second operand"),
		),
	}, runCalculator)
	return t
}

func runCalculator(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	operation, err := args.Enum("operation", calculatorOperations)
	if err != nil {
		return nil, err
	}
	x, y, err := operands(args, "x", "y")
	if err != nil {
		return nil, err
	}

	var result domain.Number
	switch operation {
	case "add":
		result = x.Add(y)
	case "subtract":
		result = x.Sub(y)
	case "multiply":
		result = x.Mul(y)
	case "divide":
		if y.IsZero() {
			return nil, domain.NewToolExecutionError("Division by zero")
		}
		result = x.Div(y)
	default:
		return nil, domain.NewToolExecutionError("Unknown operation: %s", operation)
	}
	return domain.NewTextResult(fmt.Sprintf("Calculator: %s %s %s = %s", x, operation, y, result)), nil
}

// operands reads two numeric arguments, each defaulting to 0.
func operands(args domain.Arguments, first, second string) (domain.Number, domain.Number, error) {
	a, err := args.Number(first, domain.IntNumber(0))
	if err != nil {
		return domain.Number{}, domain.Number{}, err
	}
	b, err := args.Number(second, domain.IntNumber(0))
	if err != nil {
		return domain.Number{}, domain.Number{}, err
	}
	return a, b, nil
}
