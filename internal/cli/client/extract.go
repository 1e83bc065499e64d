package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/api"
)

func ExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract text content from documents",
		Long:  "Extract plain text from a PDF file or a web page",
	}

	cmd.AddCommand(ExtractPDFCmd())
	cmd.AddCommand(ExtractURLCmd())

	return cmd
}

func ExtractPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <file>",
		Short: "Extract text from a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			env, err := apiClient.PostFile("/extract/pdf", "file", args[0])
			if err != nil {
				return err
			}

			return printEnvelope(cmd, env)
		},
	}
}

func ExtractURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>",
		Short: "Extract text from a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			env, err := apiClient.Post("/extract/url", map[string]string{"url": args[0]})
			if err != nil {
				return err
			}

			return printEnvelope(cmd, env)
		},
	}
}

// printEnvelope prints title and content, or the raw envelope with --output.
func printEnvelope(cmd *cobra.Command, env *api.Envelope) error {
	if jsonOutput, _ := cmd.Flags().GetBool("output"); jsonOutput {
		jsonBytes, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	if env.Title != "" {
		fmt.Printf("%s\n\n", env.Title)
	}
	fmt.Println(env.Content)
	return nil
}
