package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// Tool name constants.
const (
	ToolNameTranspile = "swift_transpile"
	ToolNameParse     = "swift_parse"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

const (
	defaultFileName = "Main.swift"
	formatTree      = "tree"
	formatJSON      = "json"
)

// Sentinel errors for tool input validation.
var (
	ErrEmptyCode     = errors.New("code parameter is required and must not be empty")
	ErrCodeTooLarge  = errors.New("code input exceeds maximum size")
	ErrUnknownFormat = errors.New("format must be json or tree")
)

// TranspileInput is the input schema for the swift_transpile tool.
type TranspileInput struct {
	Code     string `json:"code"                jsonschema:"Swift source code to translate"`
	FileName string `json:"file_name,omitempty" jsonschema:"source file name used to derive the output path (default Main.swift)"`
	Validate bool   `json:"validate,omitempty"  jsonschema:"check that the emitted TypeScript parses"`
}

// ParseInput is the input schema for the swift_parse tool.
type ParseInput struct {
	Code   string `json:"code"             jsonschema:"Swift source code to parse"`
	Format string `json:"format,omitempty" jsonschema:"json (default) or tree"`
}

// TranspileResult is the structured payload of swift_transpile.
type TranspileResult struct {
	Path       string `json:"path"`
	TypeScript string `json:"typescript"`
	Validated  bool   `json:"validated,omitempty"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleTranspile(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input TranspileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCodeInput(input.Code)
	if err != nil {
		return errorResult(err)
	}

	name := input.FileName
	if name == "" {
		name = defaultFileName
	}

	file, err := s.transpiler.Transpile(ctx, name, []byte(input.Code))
	if err != nil {
		return errorResult(err)
	}

	result := TranspileResult{Path: file.Path(), TypeScript: file.Text()}

	if input.Validate {
		err = tsmodel.Validate(ctx, result.TypeScript)
		if err != nil {
			return errorResult(err)
		}

		result.Validated = true
	}

	return jsonResult(result)
}

func (s *Server) handleParse(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateCodeInput(input.Code)
	if err != nil {
		return errorResult(err)
	}

	format := strings.ToLower(input.Format)
	if format == "" {
		format = formatJSON
	}

	if format != formatJSON && format != formatTree {
		return errorResult(fmt.Errorf("%w: %q", ErrUnknownFormat, input.Format))
	}

	root, err := s.parser.Parse(ctx, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("parse: %w", err))
	}

	if format == formatJSON {
		return jsonResult(root)
	}

	var sb strings.Builder

	err = cst.Dump(&sb, root)
	if err != nil {
		return errorResult(err)
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: sb.String()}},
	}, ToolOutput{Data: sb.String()}, nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateCodeInput(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}
