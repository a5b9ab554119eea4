/*
Package main is the entry point for the catalog-search CLI.

catalog-search turns partial search queries into ranked, typed suggestions
over a product catalog, and serves them to AI clients over MCP.

Usage:

	catalog-search [command]

Available Commands:

	search      Suggest completions for a search query
	serve       Run the MCP server (stdio transport)
	recent      List recent searches
	feedback    Manage suggestion feedback
	catalog     Inspect the configured catalog
	verify      Verify configuration and catalog
	benchmark   Measure search latency over the configured catalog
	config      Create or show the configuration file
	version     Show version information

Examples:

	# Write ~/.catalog-search.json pointing at a catalog
	catalog-search config init --catalog ~/catalog.yaml

	# Query from the terminal
	catalog-search search "notion vs obsidian"

	# Run as MCP server
	catalog-search serve
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/catalog-search/internal/cli"
	"github.com/khanglvm/catalog-search/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.Version = version.GetVersion()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
