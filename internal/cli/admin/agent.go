package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/repository"
)

func AgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage query agents",
		Long:  "Create and inspect the agents that answer queries against a knowledge base",
	}

	cmd.AddCommand(AgentCreateCmd())
	cmd.AddCommand(AgentShowCmd())

	return cmd
}

func AgentCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new agent",
		Long:  "Create an agent bound to a user and knowledge base, with an optional persona prompt",
		RunE:  runAgentCreate,
	}

	cmd.Flags().StringP("user", "u", "", "Owning user ID (required)")
	cmd.Flags().StringP("kb", "k", "", "Knowledge base ID (required)")
	cmd.Flags().StringP("prompt", "p", "", "Persona prompt (optional, default persona is used when empty)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("kb")

	return cmd
}

func runAgentCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID, _ := cmd.Flags().GetString("user")
	knowledgeBaseID, _ := cmd.Flags().GetString("kb")
	prompt, _ := cmd.Flags().GetString("prompt")
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	agent := &domain.Agent{
		ID:              uuid.NewString(),
		UserID:          userID,
		KnowledgeBaseID: knowledgeBaseID,
		PromptContent:   prompt,
		CreatedAt:       time.Now().UTC(),
	}

	agentRepo := repository.NewAgentRepository(pool)
	if err := agentRepo.Create(ctx, agent); err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":                agent.ID,
			"user_id":           agent.UserID,
			"knowledge_base_id": agent.KnowledgeBaseID,
			"created_at":        agent.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Agent created: %s (knowledge base %s)\n", agent.ID, agent.KnowledgeBaseID)
	}

	return nil
}

func AgentShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show an agent",
		Long:  "Show an agent's binding and whether it is configured for querying",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentShow,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runAgentShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	agentID := args[0]
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	agentRepo := repository.NewAgentRepository(pool)
	agent, err := agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return fmt.Errorf("failed to get agent: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":                agent.ID,
			"user_id":           agent.UserID,
			"knowledge_base_id": agent.KnowledgeBaseID,
			"prompt_content":    agent.PromptContent,
			"configured":        agent.Configured(),
			"created_at":        agent.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Agent %s\n", agent.ID)
		fmt.Printf("  user:           %s\n", agent.UserID)
		fmt.Printf("  knowledge base: %s\n", agent.KnowledgeBaseID)
		fmt.Printf("  configured:     %t\n", agent.Configured())
		if agent.PromptContent != "" {
			fmt.Printf("  prompt:         %s\n", agent.PromptContent)
		}
	}

	return nil
}
