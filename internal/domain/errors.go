package domain

import (
	"errors"
	"fmt"
)

// ToolExecutionError is a domain-level failure raised while running a tool,
// such as a division by zero or an unsupported enum value. Its message is
// reported to the client verbatim after the "Internal error: " prefix.
type ToolExecutionError struct {
	Message string
	Err     error
}

// NewToolExecutionError formats a new ToolExecutionError.
func NewToolExecutionError(format string, args ...any) *ToolExecutionError {
	return &ToolExecutionError{Message: fmt.Sprintf(format, args...)}
}

func (e *ToolExecutionError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// AsToolExecutionError returns err as a *ToolExecutionError, wrapping it if
// it is some other error. It returns nil for a nil error.
func AsToolExecutionError(err error) *ToolExecutionError {
	if err == nil {
		return nil
	}
	var execErr *ToolExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}
	return &ToolExecutionError{Message: err.Error(), Err: err}
}
