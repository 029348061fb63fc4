package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe - web page to markdown conversion gateway",
	Long: `Scribe is an HTTP service that fetches web pages and converts them to
clean markdown or structured JSON.

Append the target URL to the service address and get the converted page
back:

  curl http://localhost:8080/https://example.com
  curl "http://localhost:8080/https://example.com?format=json"

The service rate-limits per client identity, caches conversion results,
and resolves client identity from RFC 7239 Forwarded headers sent by
trusted reverse proxies.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
