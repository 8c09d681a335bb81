package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/DhanaAnjana/DocuMind/internal/metrics"
)

const DefaultGenerativeModel = "gemini-2.5-flash"

// ChatAPI defines the interface for single-turn text generation
type ChatAPI interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type chatAdapter struct {
	client      *openai.Client
	model       string
	temperature float32
}

func (a *chatAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// Generator produces text completions for prompts.
type Generator struct {
	api   ChatAPI
	model string
}

// NewGenerator creates a chat completion client. The API key is required.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGenerativeModel
	}
	return &Generator{
		api: &chatAdapter{
			client:      openai.NewClientWithConfig(clientConfig(cfg.APIKey, cfg.BaseURL)),
			model:       cfg.Model,
			temperature: cfg.Temperature,
		},
		model: cfg.Model,
	}, nil
}

// Generate returns the model output for prompt verbatim.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	began := time.Now()
	text, err := g.api.Complete(ctx, prompt)
	metrics.ObserveExternalCall(metrics.ServiceGeneration, g.model, err, time.Since(began))
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	return text, nil
}
