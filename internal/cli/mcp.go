package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tracelens/internal/mcp"
)

var mcpWatchRoot string

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for stack-frame source context",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered
coding assistants resolve stack traces to source snippets.

The MCP server:
- Exposes the code_context tool (one file/line/symbol lookup)
- Exposes the stack_context tool (whole trace in, per-frame snippets out)
- Communicates via stdio (standard MCP transport)

With --watch-root, source files under that directory are watched and
evicted from the snippet cache when they change on disk.

Example:
  tracelens mcp --watch-root .`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpWatchRoot, "watch-root", "", "directory tree to watch for source changes")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Tracelens MCP Server %s\n", Version)
	if mcpWatchRoot != "" {
		fmt.Fprintf(os.Stderr, "Watching: %s\n", mcpWatchRoot)
	}
	fmt.Fprintf(os.Stderr, "\n")

	server, err := mcp.NewServer(&mcp.ServerConfig{
		Options:   cfg.Options(),
		Resolver:  resolver,
		WatchRoot: mcpWatchRoot,
		Version:   Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	return server.Serve(context.Background())
}
