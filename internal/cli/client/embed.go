package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func EmbedCmd() *cobra.Command {
	var (
		userID string
		async  bool
	)

	cmd := &cobra.Command{
		Use:   "embed <knowledge-base-id>",
		Short: "Recompute a knowledge base embedding",
		Long:  "Combine the knowledge base's completed items and regenerate its embedding; with --async the work is queued and processed in the background",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			path := "/knowledge_embedding"
			if async {
				path = "/knowledge_embedding/async"
			}

			env, err := apiClient.Post(path, map[string]string{
				"user_id":           userID,
				"knowledge_base_id": args[0],
			})
			if err != nil {
				return err
			}

			if jsonOutput, _ := cmd.Flags().GetBool("output"); jsonOutput {
				return printEnvelope(cmd, env)
			}

			if async {
				fmt.Printf("%s (job %s)\n", env.Title, env.Content)
				return nil
			}
			fmt.Println(env.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Owning user ID (required)")
	cmd.Flags().BoolVar(&async, "async", false, "Queue the embedding as a background job")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
