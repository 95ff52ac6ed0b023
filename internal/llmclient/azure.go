package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// AzureClient talks to an Azure OpenAI chat deployment.
type AzureClient struct {
	cli        *openai.Client
	deployment string
}

// NewAzureClient builds a client for the given endpoint and deployment.
// apiVersion may be empty to use the library default.
func NewAzureClient(endpoint, apiKey, apiVersion, deployment string) (*AzureClient, error) {
	if endpoint == "" || apiKey == "" || deployment == "" {
		return nil, fmt.Errorf("llmclient: azure endpoint, api key and deployment are required")
	}
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	return &AzureClient{cli: openai.NewClientWithConfig(cfg), deployment: deployment}, nil
}

func (a *AzureClient) Name() string { return "AzureOpenAI:" + a.deployment }
func (a *AzureClient) Close() error { return nil }

// Generate sends the prompt as the system message, temperature 0.1.
func (a *AzureClient) Generate(ctx context.Context, systemPrompt string) (string, error) {
	resp, err := a.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.deployment,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusBadRequest &&
			strings.Contains(fmt.Sprint(apiErr.Code), "context_length_exceeded") {
			return "", NewPermanentError(fmt.Errorf("azure openai: %w", err))
		}
		return "", fmt.Errorf("azure openai: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
