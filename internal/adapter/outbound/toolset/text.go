package toolset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i2y/mcpmock/internal/domain"
)

var (
	fileSystemOperations = []string{"list", "create", "delete", "exists"}
	textActions          = []string{"uppercase", "lowercase", "reverse", "word_count"}
)

// The filesystem tool is a mock. It never touches the disk.
func newFileSystem() *Toolset {
	t := newToolset(FileSystem, "filesystem-server")
	t.add(domain.Tool{
		Name:        "filesystem",
		Description: "Manages files and directories with operations like listing, creating, and deleting",
		InputSchema: domain.ObjectSchema([]string{"path", "operation"},
			stringProperty("path", "File or directory path"),
			enumProperty("operation", "Filesystem operation to perform", fileSystemOperations),
		),
	}, runFileSystem)
	return t
}

func runFileSystem(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	path, err := args.String("path", "/tmp")
	if err != nil {
		return nil, err
	}
	operation, err := args.Enum("operation", fileSystemOperations)
	if err != nil {
		return nil, err
	}

	var result string
	switch operation {
	case "list":
		result = fmt.Sprintf("Contents of %s: file1.txt, file2.txt, directory1/", path)
	case "create":
		result = "Created: " + path
	case "delete":
		result = "Deleted: " + path
	case "exists":
		result = fmt.Sprintf("Path %s exists: true", path)
	default:
		return nil, domain.NewToolExecutionError("Unknown operation: %s", operation)
	}
	return domain.NewTextResult("FileSystem: " + result), nil
}

func newTextProcessor() *Toolset {
	t := newToolset(TextProcessor, "text-processor-server")
	t.add(domain.Tool{
		Name:        "text_processor",
		Description: "Processes text with various string manipulation operations like case conversion and reversal",
		InputSchema: domain.ObjectSchema([]string{"text", "action"},
			stringProperty("text", "Input text to process"),
			enumProperty("action", "Action to perform on the text", textActions),
		),
	}, runTextProcessor)
	return t
}

func runTextProcessor(ctx context.Context, args domain.Arguments) (*domain.ToolResult, error) {
	text, err := args.String("text", "")
	if err != nil {
		return nil, err
	}
	action, err := args.Enum("action", textActions)
	if err != nil {
		return nil, err
	}

	var result string
	switch action {
	case "uppercase":
		result = cases.Upper(language.Und).String(text)
	case "lowercase":
		result = cases.Lower(language.Und).String(text)
	case "reverse":
		result = reverse(text)
	case "word_count":
		result = strconv.Itoa(countWords(text))
	default:
		return nil, domain.NewToolExecutionError("Unknown action: %s", action)
	}
	return domain.NewTextResult(fmt.Sprintf("TextProcessor: %s('%s') = '%s'", action, text, result)), nil
}

// countWords counts runs of non-space characters. The ASCII information
// separators U+001C to U+001F also split words.
func countWords(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	}))
}

// reverse reverses s by code point.
func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
