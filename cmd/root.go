package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kopi-shop",
	Short: "Kopi shop backend",
	Long: `Kopi shop backend: users, products, orders and addresses behind a REST API.

Examples:
  kopi-shop serve                                # Start the API server
  kopi-shop serve --port 8080                    # Override PORT
  kopi-shop promote --email boss@example.com     # Grant the admin role`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
