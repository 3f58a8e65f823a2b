package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geniehq/genie-backend/internal/platform/envutil"
	"github.com/geniehq/genie-backend/internal/platform/logger"
)

const (
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure-openai"
	ProviderGoogle      = "google"
)

// Client is a minimal chat-model handle: one prompt in, one completion out.
// Turn execution goes through the agent engine; this client only serves
// lightweight side calls such as title summarization.
type Client interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// New is the central factory branching on provider name. Unknown providers
// fall back to google, matching the product default.
func New(baseLog *logger.Logger, provider, model string, temperature float64) (Client, error) {
	log := baseLog.With("client", "LLMClient", "provider", provider, "model", model)
	switch provider {
	case ProviderOpenAI:
		return newOpenAIClient(log, model, temperature)
	case ProviderAzureOpenAI:
		return newAzureOpenAIClient(log, model, temperature)
	case ProviderGoogle:
		fallthrough
	default:
		return newGoogleClient(log, model, temperature)
	}
}

// postJSON issues one JSON request with a bounded retry on throttling and
// server errors, and decodes the response into out.
func postJSON(ctx context.Context, httpClient *http.Client, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			lastErr = fmt.Errorf("model call failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return fmt.Errorf("model call failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

func requireEnv(name string) (string, error) {
	v := envutil.Str(name, "")
	if v == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return v, nil
}
