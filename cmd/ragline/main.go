package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/cli"
	"github.com/stratosoft/ragline/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragline",
		Short: "Ragline CLI - Knowledge base extraction and querying",
		Long: `Ragline CLI provides commands to extract content, refresh knowledge
base embeddings and query agents.

Environment variables:
  RAGLINE_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ExtractCmd())
	rootCmd.AddCommand(client.EmbedCmd())
	rootCmd.AddCommand(client.AskCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
