package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agent",
	Short: "NexSales Agent - AI-assisted inventory and order management",
	Long: `NexSales Agent keeps the product catalog, customers and orders of a small
business and lets an AI assistant act on them through plain language.

The agent can run as an HTTP API server, or be used from the terminal to
chat with the assistant, check provider connectivity and preview mock data.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search ./deploy, ., $HOME/.nexsales, /etc/nexsales)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
