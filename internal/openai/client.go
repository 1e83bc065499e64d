package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stratosoft/ragline/internal/textutil"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings.
	// Ingestion and query paths share this constant; mixing models across the
	// two paths produces incomparable vectors.
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
	// DefaultEmbeddingMaxTokens is the per-request token budget of ada-002
	DefaultEmbeddingMaxTokens = 8191

	// DefaultChatModel is the chat model used for answer synthesis
	DefaultChatModel = openai.GPT3Dot5Turbo
	// DefaultChatMaxTokens bounds the generated answer length
	DefaultChatMaxTokens = 150
	// DefaultChatTemperature is the fixed sampling temperature for synthesis
	DefaultChatTemperature = 0.7
)

var (
	// ErrEmptyText is returned when text is empty after normalization
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// EmbeddingAPI defines the interface for a single embedding request
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// ChatAPI defines the interface for a chat completion request
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, system, user string) (string, error)
}

// Client wraps the OpenAI API client for embeddings and chat completions
type Client struct {
	api        EmbeddingAPI
	chat       ChatAPI
	dimensions int
	maxTokens  int
	codec      tokenCodec
}

// OpenAIAdapter implements EmbeddingAPI and ChatAPI against the real provider
type OpenAIAdapter struct {
	client          *openai.Client
	embeddingModel  openai.EmbeddingModel
	chatModel       string
	chatMaxTokens   int
	chatTemperature float32
}

func NewOpenAIAdapter(apiKey string, cfg Config) *OpenAIAdapter {
	model := openai.EmbeddingModel(cfg.EmbeddingModel)
	if model == "" {
		model = DefaultEmbeddingModel
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	chatMaxTokens := cfg.ChatMaxTokens
	if chatMaxTokens <= 0 {
		chatMaxTokens = DefaultChatMaxTokens
	}
	chatTemperature := cfg.ChatTemperature
	if chatTemperature <= 0 {
		chatTemperature = DefaultChatTemperature
	}
	return &OpenAIAdapter{
		client:          openai.NewClient(apiKey),
		embeddingModel:  model,
		chatModel:       chatModel,
		chatMaxTokens:   chatMaxTokens,
		chatTemperature: chatTemperature,
	}
}

// CreateEmbeddings calls the OpenAI API to create a single embedding
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// CreateChatCompletion requests a bounded-length completion and returns the
// first choice's content, or "" when the provider returns no usable choice.
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   a.chatMaxTokens,
		Temperature: a.chatTemperature,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// Config holds provider configuration shared by the ingestion and query paths
type Config struct {
	APIKey              string
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingMaxTokens  int
	ChatModel           string
	ChatMaxTokens       int
	ChatTemperature     float32
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	maxTokens := cfg.EmbeddingMaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultEmbeddingMaxTokens
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = string(DefaultEmbeddingModel)
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg)
	return &Client{
		api:        adapter,
		chat:       adapter,
		dimensions: dimensions,
		maxTokens:  maxTokens,
		codec:      codecForModel(model),
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// Dimensions returns the output dimensionality of the configured embedding model
func (c *Client) Dimensions() int {
	if c.dimensions <= 0 {
		return DefaultEmbeddingDimensions
	}
	return c.dimensions
}

// GenerateEmbedding generates an embedding for the given text. Text longer
// than the model's token budget is split into consecutive non-overlapping
// token windows, each window is embedded independently, and the result is
// the element-wise mean of the window vectors. Averaging loses word-order
// signal across window boundaries; that approximation is accepted for texts
// beyond the per-request budget.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(textutil.Flatten(text))
	if text == "" {
		return nil, ErrEmptyText
	}

	windows := splitWindows(text, c.maxTokens, c.codec)
	if len(windows) == 0 {
		return nil, ErrEmptyText
	}

	vectors := make([][]float32, 0, len(windows))
	for _, window := range windows {
		embedding, err := c.api.CreateEmbeddings(ctx, window)
		if err != nil {
			// No partial results: one failed window aborts the whole embed.
			return nil, fmt.Errorf("failed to create embedding: %w", err)
		}
		if len(embedding) != c.Dimensions() {
			return nil, ErrWrongDimensions
		}
		vectors = append(vectors, embedding)
	}

	if len(vectors) == 1 {
		return vectors[0], nil
	}

	return meanVectors(vectors), nil
}

// Complete requests a chat completion with the given system persona and user
// prompt. Returns the trimmed first choice, or "" when the provider produces
// no usable content.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	content, err := c.chat.CreateChatCompletion(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func meanVectors(vectors [][]float32) []float32 {
	mean := make([]float32, len(vectors[0]))
	for _, vec := range vectors {
		for i, v := range vec {
			mean[i] += v
		}
	}
	n := float32(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
