package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/mcp"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// The server exposes four tools over stdio:
// catalog_search, catalog_feedback, catalog_recent and catalog_prune.
func NewServeCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the catalog-search MCP server using stdio transport.

The server exposes 4 tools to AI clients:
  • catalog_search   - Ranked suggestions for a partial query
  • catalog_feedback - Record that a suggestion was shown or selected
  • catalog_recent   - List or add recent searches
  • catalog_prune    - Drop feedback older than N days

Old feedback is pruned in the background according to history.retentionDays.`,
		Example: `  # Run directly
  catalog-search serve --catalog ./catalog.yaml

  # Add to Claude Code
  claude mcp add catalog-search -- catalog-search serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// SIGINT, SIGTERM and SIGQUIT shut it down gracefully.
func runServe(opts *Options) error {
	log := logger.New("serve")

	svc, cfg, err := opts.OpenService()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	svc.StartSweeper(ctx, cfg.SweepInterval(), cfg.Retention())

	server := mcp.NewServer(svc)
	log.Info("serving", "catalog", cfg.Catalog, "items", svc.Catalog().Len(), "history", cfg.History.Backend)

	// Run server in separate goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	// Wait for either signal or server error
	select {
	case <-ctx.Done():
		log.Info("received signal, shutting down")
		if err := closeService(svc); err != nil {
			log.Error("error during shutdown", "err", err)
			return err
		}
		log.Info("shutdown complete")
		return nil

	case err := <-errChan:
		// stdin closed or read error; resources still need cleanup
		if closeErr := closeService(svc); closeErr != nil {
			log.Error("error during cleanup", "err", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
