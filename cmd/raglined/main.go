package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/cli"
	"github.com/stratosoft/ragline/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "raglined",
		Short: "Ragline daemon and admin CLI",
		Long:  "Ragline daemon for running the knowledge base API server and managing knowledge bases and agents",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.KBCmd())
	rootCmd.AddCommand(admin.AgentCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
