package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/geniehq/genie-backend/internal/platform/envutil"
	"github.com/geniehq/genie-backend/internal/platform/logger"
)

type chatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIClient struct {
	log         *logger.Logger
	url         string
	headers     map[string]string
	model       string
	temperature float64
	httpClient  *http.Client
}

func newOpenAIClient(log *logger.Logger, model string, temperature float64) (Client, error) {
	apiKey, err := requireEnv("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(envutil.Str("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/")
	return &openAIClient{
		log:         log,
		url:         base + "/chat/completions",
		headers:     map[string]string{"Authorization": "Bearer " + apiKey},
		model:       model,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Azure serves the same chat-completions shape under a deployment-scoped
// path with api-key auth; the deployment name doubles as the model name.
func newAzureOpenAIClient(log *logger.Logger, model string, temperature float64) (Client, error) {
	apiKey, err := requireEnv("AZURE_OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	endpoint, err := requireEnv("AZURE_OPENAI_ENDPOINT")
	if err != nil {
		return nil, err
	}
	apiVersion := envutil.Str("AZURE_OPENAI_API_VERSION", "2024-10-21")
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(endpoint, "/"), model, apiVersion)
	return &openAIClient{
		log:         log,
		url:         url,
		headers:     map[string]string{"api-key": apiKey},
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *openAIClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := chatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var resp chatCompletionResponse
	if err := postJSON(ctx, c.httpClient, c.url, c.headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
