package openai

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// tokenCodec abstracts the model tokenizer so window splitting can fall back
// to word counting when no encoding is available.
type tokenCodec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}

// codecForModel resolves the tiktoken encoding for the model. Returns nil
// when the encoding cannot be loaded (unknown model, no cached BPE data);
// callers then use the word-count fallback.
func codecForModel(model string) tokenCodec {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil
	}
	return &tiktokenCodec{enc: enc}
}

// splitWindows splits text into consecutive windows of at most maxTokens
// tokens each, no overlap. With a nil codec it splits on fixed-size word
// windows instead; word count is not token count, so fallback windows may
// under- or over-fill the true token budget. That inexactness is accepted:
// the fallback exists to avoid failing outright when no tokenizer is
// available.
func splitWindows(text string, maxTokens int, codec tokenCodec) []string {
	if text == "" || maxTokens <= 0 {
		return nil
	}

	if codec == nil {
		return splitWordWindows(text, maxTokens)
	}

	tokens := codec.Encode(text)
	if len(tokens) <= maxTokens {
		return []string{text}
	}

	windows := make([]string, 0, (len(tokens)+maxTokens-1)/maxTokens)
	for start := 0; start < len(tokens); start += maxTokens {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, codec.Decode(tokens[start:end]))
	}
	return windows
}

func splitWordWindows(text string, windowSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= windowSize {
		return []string{text}
	}

	windows := make([]string, 0, (len(words)+windowSize-1)/windowSize)
	for start := 0; start < len(words); start += windowSize {
		end := start + windowSize
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
	}
	return windows
}
