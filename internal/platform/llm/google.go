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

type googleClient struct {
	log         *logger.Logger
	url         string
	temperature float64
	httpClient  *http.Client
}

func newGoogleClient(log *logger.Logger, model string, temperature float64) (Client, error) {
	apiKey, err := requireEnv("GOOGLE_API_KEY")
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(envutil.Str("GOOGLE_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"), "/")
	return &googleClient{
		log:         log,
		url:         fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, model, apiKey),
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type googleGenerateRequest struct {
	SystemInstruction *googleContent   `json:"systemInstruction,omitempty"`
	Contents          []googleContent  `json:"contents"`
	GenerationConfig  googleGenConfig  `json:"generationConfig"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenConfig struct {
	Temperature float64 `json:"temperature"`
}

type googleGenerateResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

func (c *googleClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := googleGenerateRequest{
		Contents:         []googleContent{{Role: "user", Parts: []googlePart{{Text: user}}}},
		GenerationConfig: googleGenConfig{Temperature: c.temperature},
	}
	if system != "" {
		req.SystemInstruction = &googleContent{Parts: []googlePart{{Text: system}}}
	}
	var resp googleGenerateResponse
	if err := postJSON(ctx, c.httpClient, c.url, nil, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
