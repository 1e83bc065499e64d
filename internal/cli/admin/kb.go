package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stratosoft/ragline/internal/config"
	"github.com/stratosoft/ragline/internal/domain"
	"github.com/stratosoft/ragline/internal/pagination"
	"github.com/stratosoft/ragline/internal/repository"
)

func KBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage knowledge bases",
		Long:  "Create, list and populate knowledge bases",
	}

	cmd.AddCommand(KBCreateCmd())
	cmd.AddCommand(KBListCmd())
	cmd.AddCommand(KBAddItemCmd())

	return cmd
}

func KBCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new knowledge base",
		Long:  "Create an empty knowledge base owned by the given user",
		Args:  cobra.ExactArgs(1),
		RunE:  runKBCreate,
	}

	cmd.Flags().StringP("user", "u", "", "Owning user ID (required)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runKBCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]
	userID, _ := cmd.Flags().GetString("user")
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	now := time.Now().UTC()
	kb := &domain.KnowledgeBase{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	baseRepo := repository.NewKnowledgeBaseRepository(pool)
	if err := baseRepo.Create(ctx, kb); err != nil {
		return fmt.Errorf("failed to create knowledge base: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":         kb.ID,
			"user_id":    kb.UserID,
			"name":       kb.Name,
			"created_at": kb.CreatedAt,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Knowledge base created: %s (%s)\n", kb.Name, kb.ID)
	}

	return nil
}

func KBListCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge bases",
		Long:  "List the knowledge bases owned by the given user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			outputFormat, _ := cmd.Flags().GetString("output")
			return runKBList(userID, outputFormat, limit, cursor)
		},
	}

	cmd.Flags().StringP("user", "u", "", "Owning user ID (required)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runKBList(userID, outputFormat string, limit int, cursorStr string) error {
	ctx := context.Background()

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	baseRepo := repository.NewKnowledgeBaseRepository(pool)

	cursor, err := pagination.DecodeCursor(cursorStr)
	if err != nil {
		return fmt.Errorf("invalid cursor: %w", err)
	}
	result, err := baseRepo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return fmt.Errorf("failed to list knowledge bases: %w", err)
	}

	if outputFormat == "json" {
		data := make([]map[string]interface{}, len(result.Items))
		for i, kb := range result.Items {
			data[i] = map[string]interface{}{
				"id":         kb.ID,
				"name":       kb.Name,
				"created_at": kb.CreatedAt,
			}
		}
		output := map[string]interface{}{
			"items":    data,
			"cursor":   result.Cursor,
			"has_more": result.HasMore,
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		if len(result.Items) == 0 {
			fmt.Println("No knowledge bases found")
			return nil
		}
		fmt.Println("Knowledge bases:")
		for _, kb := range result.Items {
			fmt.Printf("  %s: %s (created: %s)\n", kb.ID, kb.Name, kb.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		if result.HasMore && result.Cursor != "" {
			fmt.Printf("\nMore results available. Use --cursor %s\n", result.Cursor)
		}
	}

	return nil
}

func KBAddItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-item <knowledge-base-id>",
		Short: "Add a content item to a knowledge base",
		Long:  "Add a completed content item from a file or inline text; run the embedding endpoint afterwards to refresh the vector",
		Args:  cobra.ExactArgs(1),
		RunE:  runKBAddItem,
	}

	cmd.Flags().StringP("user", "u", "", "Owning user ID (required)")
	cmd.Flags().StringP("content", "c", "", "Inline content text")
	cmd.Flags().StringP("file", "f", "", "Read content from file")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runKBAddItem(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	knowledgeBaseID := args[0]
	userID, _ := cmd.Flags().GetString("user")
	content, _ := cmd.Flags().GetString("content")
	filePath, _ := cmd.Flags().GetString("file")
	outputFormat, _ := cmd.Flags().GetString("output")

	if content == "" && filePath == "" {
		return fmt.Errorf("either --content or --file is required")
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		content = string(data)
	}

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	item := &domain.KnowledgeItem{
		ID:              uuid.NewString(),
		UserID:          userID,
		KnowledgeBaseID: knowledgeBaseID,
		Content:         content,
		Status:          domain.KnowledgeItemStatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return err
	}

	itemRepo := repository.NewKnowledgeItemRepository(pool)
	if err := itemRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create knowledge item: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"id":                item.ID,
			"knowledge_base_id": item.KnowledgeBaseID,
			"status":            item.Status,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Knowledge item created: %s (%d bytes)\n", item.ID, len(content))
	}

	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
