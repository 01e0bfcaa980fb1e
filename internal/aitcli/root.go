// Package aitcli implements the aitctl command line client.
package aitcli

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL    string
	apiToken     string
	outputFormat string
)

// Execute runs the CLI.
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "aitctl",
	Short: "Talk to an AI teacher canvas server",
	Long: `aitctl is the command line client for the AI teacher service.
It sends prompts, watches the resulting drawing command stream, inspects
the canvas, and exports it.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("AIT_SERVER", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("AIT_TOKEN"), "API token for protected endpoints")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text|json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(narrationCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statusCmd)
}

func newClient() *Client {
	return &Client{
		BaseURL: strings.TrimRight(serverURL, "/"),
		Token:   apiToken,
		Timeout: 15 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
