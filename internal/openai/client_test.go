package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteCodec treats every byte as one token; good enough to exercise window
// splitting deterministically without real BPE data.
type byteCodec struct{}

func (byteCodec) Encode(text string) []int {
	tokens := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		tokens[i] = int(text[i])
	}
	return tokens
}

func (byteCodec) Decode(tokens []int) string {
	buf := make([]byte, len(tokens))
	for i, t := range tokens {
		buf[i] = byte(t)
	}
	return string(buf)
}

type fakeEmbeddingAPI struct {
	inputs  []string
	vectors [][]float32
	errs    []error
}

func (f *fakeEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	call := len(f.inputs)
	f.inputs = append(f.inputs, text)
	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	return f.vectors[call], nil
}

type fakeChatAPI struct {
	system  string
	user    string
	content string
	err     error
}

func (f *fakeChatAPI) CreateChatCompletion(ctx context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.content, f.err
}

func TestGenerateEmbedding_SingleWindow(t *testing.T) {
	api := &fakeEmbeddingAPI{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	client := &Client{api: api, dimensions: 3, maxTokens: 100, codec: byteCodec{}}

	got, err := client.GenerateEmbedding(context.Background(), "short text")

	require.NoError(t, err)
	// One provider call, vector returned unmodified.
	assert.Equal(t, []string{"short text"}, api.inputs)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
}

func TestGenerateEmbedding_NormalizesNewlines(t *testing.T) {
	api := &fakeEmbeddingAPI{vectors: [][]float32{{1, 2}}}
	client := &Client{api: api, dimensions: 2, maxTokens: 100, codec: byteCodec{}}

	_, err := client.GenerateEmbedding(context.Background(), "line one\nline two")

	require.NoError(t, err)
	assert.Equal(t, []string{"line one line two"}, api.inputs)
}

func TestGenerateEmbedding_MultiWindowMean(t *testing.T) {
	api := &fakeEmbeddingAPI{vectors: [][]float32{
		{1, 3},
		{3, 5},
	}}
	client := &Client{api: api, dimensions: 2, maxTokens: 4, codec: byteCodec{}}

	got, err := client.GenerateEmbedding(context.Background(), "abcdefgh")

	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh"}, api.inputs)
	// Element-wise mean of the window vectors, same dimensionality.
	assert.Equal(t, []float32{2, 4}, got)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	client := &Client{api: &fakeEmbeddingAPI{}, dimensions: 3, maxTokens: 10, codec: byteCodec{}}

	_, err := client.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = client.GenerateEmbedding(context.Background(), "\n\n  \n")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGenerateEmbedding_WindowFailureAborts(t *testing.T) {
	providerErr := errors.New("rate limit exceeded")
	api := &fakeEmbeddingAPI{
		vectors: [][]float32{{1, 1}, nil},
		errs:    []error{nil, providerErr},
	}
	client := &Client{api: api, dimensions: 2, maxTokens: 4, codec: byteCodec{}}

	got, err := client.GenerateEmbedding(context.Background(), "abcdefgh")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, providerErr)
	assert.Contains(t, err.Error(), "failed to create embedding")
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := &fakeEmbeddingAPI{vectors: [][]float32{{1, 2, 3}}}
	client := &Client{api: api, dimensions: 1536, maxTokens: 100, codec: byteCodec{}}

	_, err := client.GenerateEmbedding(context.Background(), "text")
	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_WordFallback(t *testing.T) {
	api := &fakeEmbeddingAPI{vectors: [][]float32{{1, 1}, {2, 2}, {3, 3}}}
	// nil codec: tokenizer unavailable, fall back to word-count windows.
	client := &Client{api: api, dimensions: 2, maxTokens: 2, codec: nil}

	got, err := client.GenerateEmbedding(context.Background(), "one two three four five")

	require.NoError(t, err)
	assert.Equal(t, []string{"one two", "three four", "five"}, api.inputs)
	assert.Equal(t, []float32{2, 2}, got)
}

func TestSplitWindows_ShortTextSingleWindow(t *testing.T) {
	windows := splitWindows("tiny", 100, byteCodec{})
	assert.Equal(t, []string{"tiny"}, windows)
}

func TestSplitWindows_NoOverlap(t *testing.T) {
	windows := splitWindows("abcdefghij", 3, byteCodec{})
	assert.Equal(t, []string{"abc", "def", "ghi", "j"}, windows)
}

func TestComplete_TrimsContent(t *testing.T) {
	chat := &fakeChatAPI{content: "  The Eiffel Tower is in Paris.  \n"}
	client := &Client{chat: chat}

	got, err := client.Complete(context.Background(), "persona", "question")

	require.NoError(t, err)
	assert.Equal(t, "The Eiffel Tower is in Paris.", got)
	assert.Equal(t, "persona", chat.system)
	assert.Equal(t, "question", chat.user)
}

func TestComplete_NoUsableChoice(t *testing.T) {
	client := &Client{chat: &fakeChatAPI{content: ""}}

	got, err := client.Complete(context.Background(), "persona", "question")

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestComplete_ProviderError(t *testing.T) {
	providerErr := errors.New("model overloaded")
	client := &Client{chat: &fakeChatAPI{err: providerErr}}

	_, err := client.Complete(context.Background(), "persona", "question")

	assert.ErrorIs(t, err, providerErr)
	assert.Contains(t, err.Error(), "failed to create chat completion")
}
