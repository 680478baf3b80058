package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tracelens/internal/frame"
	"github.com/mvp-joe/tracelens/internal/source"
)

// AddCodeContextTool registers the code_context tool with an MCP server.
// This function is composable - it can be combined with other tool
// registrations.
func AddCodeContextTool(s *server.MCPServer, extractor *source.Extractor) {
	tool := mcp.NewTool(
		"code_context",
		mcp.WithDescription("Extract the function definition that contains a source line. Given a file path, a line number and optionally a symbol name (as found in a stack trace), returns a bounded snippet of the enclosing function with the target line marked. Degrades to a raw context window when no function can be located."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path to the source file (C, C++ or C#)")),
		mcp.WithNumber("line",
			mcp.Required(),
			mcp.Description("1-based line number, typically from a stack trace; may be imprecise")),
		mcp.WithString("symbol",
			mcp.Description("Symbol text from the stack frame, e.g. 'MyApp.Service.Run' or 'ns::widget::draw(int)'; improves anchoring when present")),
		mcp.WithNumber("max_lines",
			mcp.Description("Crop snippets to at most this many lines (default from server config)")),
	)

	s.AddTool(tool, createCodeContextHandler(extractor))
}

func createCodeContextHandler(extractor *source.Extractor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		file, err := parseStringArg(argsMap, "file", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		line := parseIntArg(argsMap, "line", 0)
		if line <= 0 {
			return mcp.NewToolResultError("line parameter is required and must be positive"), nil
		}
		symbol, err := parseStringArg(argsMap, "symbol", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := extractor.Context(source.Request{
			Path:     file,
			Line:     line,
			Symbol:   frame.ShortName(symbol),
			MaxLines: parseIntArg(argsMap, "max_lines", 0),
		})
		if err != nil && !errors.Is(err, source.ErrMissingLocation) && !errors.Is(err, source.ErrFileNotFound) {
			return nil, fmt.Errorf("extraction failed: %w", err)
		}

		return jsonResult(CodeContextResponse{
			OK:        result.OK,
			Status:    result.Status,
			Strategy:  string(result.Strategy),
			StartLine: result.StartLine,
			EndLine:   result.EndLine,
			Snippet:   result.Text,
		})
	}
}

// AddStackContextTool registers the stack_context tool: a whole stack trace
// in, one snippet per resolvable frame out.
func AddStackContextTool(s *server.MCPServer, extractor *source.Extractor) {
	tool := mcp.NewTool(
		"stack_context",
		mcp.WithDescription("Parse a stack trace (.NET, WinDbg/Visual Studio, gdb/lldb or generic path:line formats) and return a source snippet for every frame that carries file and line information."),
		mcp.WithString("trace",
			mcp.Required(),
			mcp.Description("The raw stack trace text, one frame per line")),
		mcp.WithNumber("max_lines",
			mcp.Description("Crop each snippet to at most this many lines (default from server config)")),
	)

	s.AddTool(tool, createStackContextHandler(extractor))
}

func createStackContextHandler(extractor *source.Extractor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		trace, err := parseStringArg(argsMap, "trace", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		maxLines := parseIntArg(argsMap, "max_lines", 0)

		report := frame.Parse(trace)
		if len(report.Frames) == 0 {
			return mcp.NewToolResultError("no stack frames recognized in trace"), nil
		}

		resp := StackContextResponse{ReportID: report.ID}
		for _, f := range report.Frames {
			fc := FrameContext{
				Index:  f.Index,
				Symbol: f.Symbol,
				Module: f.Module,
				File:   f.Path,
				Line:   f.Line,
			}

			result, err := extractor.Context(source.Request{
				Path:     f.Path,
				Line:     f.Line,
				Symbol:   frame.ShortName(f.Symbol),
				MaxLines: maxLines,
			})
			fc.OK = result.OK
			fc.Status = result.Status
			fc.Snippet = result.Text
			if err != nil && fc.Status == "" {
				fc.Status = err.Error()
			}

			resp.Frames = append(resp.Frames, fc)
		}

		return jsonResult(resp)
	}
}

// jsonResult marshals a response payload into an MCP text result.
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
