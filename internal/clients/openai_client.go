package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
)

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
}

func GetOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		panic("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
	}
	openAIOnce.Do(func() {
		config := openai.DefaultConfig(apiKey)
		httpClient := &http.Client{
			Timeout: openAIRequestTimeout,
		}
		config.HTTPClient = httpClient

		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClientWithConfig(config),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout", slog.Duration("timeout", openAIRequestTimeout))
	})
	return openAIClientInstance
}

// TextGenerator is the synchronous generation collaborator: prompt in,
// raw text out. Callers own parsing, validation and fallback.
type OpenAIGenerator struct {
	client      *OpenAIClient
	model       string
	temperature float32
}

func NewOpenAIGenerator(model string, temperature float32) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      GetOpenAIClient(),
		model:       model,
		temperature: temperature,
	}
}

// Generate sends a single chat completion request and returns the raw
// message content. No retries; one call per classification or reply
// generation keeps external-call volume predictable.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("[OpenAIGenerator] completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("[OpenAIGenerator] completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
