// Package cli implements the appsim command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appsim/appsim/pkg/config"
)

var (
	// Persistent flags available to all subcommands
	configPath string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "appsim",
	Short: "appsim simulates an authenticated app against a mock API",
	Long: `appsim is a self-contained simulation of an authenticated application:
observable state stores with selective persistence, an auth flow with
simulated latency, and a user directory backed by an in-process mock API.

Run 'appsim demo' for an interactive walkthrough, or 'appsim serve' to
expose the mock API over HTTP.`,
	// No Run function here means 'appsim' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: the --config file
// if given, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}
