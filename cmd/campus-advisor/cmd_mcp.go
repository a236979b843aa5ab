package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	advisormcp "github.com/ajitpratap0/campus-advisor/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  query_events               campus events by date, category and price
  get_category_event_counts  event counts per category
  get_event_categories       all event categories
  get_teacher_ratings        professor ratings with student reviews
  get_assignments            current class assignments
  search_courses             course catalog by code or instructor

The calendar write tool is only offered to the chat assistant.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			srv, err := advisormcp.NewServer(newDispatcher(newStore(logger), newCalendar(logger), logger), logger)
			if err != nil {
				return fmt.Errorf("mcp: %w", err)
			}

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: campus-advisor MCP server starting", "transport", "stdio", "tools", len(srv.ToolNames()))

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
