package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

func AskCmd() *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask an agent a question",
		Long:  "Retrieve matching knowledge and generate an answer through the given agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := NewAPIClient(cmd)
			if err != nil {
				return err
			}

			env, err := apiClient.Post("/query", map[string]string{
				"query":    args[0],
				"agent_id": agentID,
			})
			if err != nil {
				return err
			}

			if jsonOutput, _ := cmd.Flags().GetBool("output"); jsonOutput {
				return printEnvelope(cmd, env)
			}

			fmt.Println(env.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID (required)")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}
