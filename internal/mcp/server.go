// Package mcp serves the extraction core over the Model Context Protocol so
// LLM-powered assistants can resolve stack frames to source snippets.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tracelens/internal/source"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Options tune the extraction core.
	Options source.Options
	// Resolver decides per-file dialect rules; nil uses the built-in table.
	Resolver *source.DialectResolver
	// WatchRoot, when set, is watched recursively; changed source files are
	// evicted from the view cache so a long-lived server never serves
	// snippets of rewritten files.
	WatchRoot string
	// Version is reported to MCP clients.
	Version string
}

// Server manages the MCP server lifecycle.
type Server struct {
	config    *ServerConfig
	extractor *source.Extractor
	watcher   *CacheWatcher
	mcp       *server.MCPServer
}

// NewServer creates an MCP server exposing the code_context and
// stack_context tools.
func NewServer(config *ServerConfig) (*Server, error) {
	if config == nil {
		config = &ServerConfig{Options: source.DefaultOptions()}
	}
	if config.Version == "" {
		config.Version = "dev"
	}

	extractor, err := source.NewExtractor(config.Resolver, config.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"tracelens",
		config.Version,
		server.WithToolCapabilities(true),
	)
	AddCodeContextTool(mcpServer, extractor)
	AddStackContextTool(mcpServer, extractor)

	var watcher *CacheWatcher
	if config.WatchRoot != "" {
		watcher, err = NewCacheWatcher(extractor.Cache(), config.WatchRoot)
		if err != nil {
			extractor.Close()
			return nil, fmt.Errorf("failed to create cache watcher: %w", err)
		}
	}

	return &Server{
		config:    config,
		extractor: extractor,
		watcher:   watcher,
		mcp:       mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.extractor != nil {
		s.extractor.Close()
	}
}
