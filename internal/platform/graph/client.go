package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geniehq/genie-backend/internal/platform/logger"
)

// Streamer is the surface the chat pipeline depends on. The engine owns
// agent execution, tool invocation and checkpoint persistence; this client
// only starts runs and reads their update streams.
type Streamer interface {
	StreamRun(ctx context.Context, req RunRequest, onChunk func(RawChunk) error) error
	ThreadState(ctx context.Context, threadID string) ([]map[string]any, error)
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, baseLog *logger.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing graph engine base URL")
	}
	return &Client{
		log:     baseLog.With("client", "GraphClient"),
		baseURL: baseURL,
		apiKey:  apiKey,
		// No overall timeout: runs are long-lived streams bounded by the
		// request context and the engine's own recursion limit.
		httpClient: &http.Client{},
	}, nil
}

// StreamRun posts a run and feeds every streamed chunk to onChunk in arrival
// order. A non-nil error from onChunk aborts the read and is returned as-is.
func (c *Client) StreamRun(ctx context.Context, req RunRequest, onChunk func(RawChunk) error) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode run request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/runs/stream", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("engine run failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return readEventStream(resp.Body, func(event, data string) error {
		switch event {
		case "error":
			var payload struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal([]byte(data), &payload); err != nil || payload.Message == "" {
				return fmt.Errorf("engine stream error: %s", data)
			}
			return fmt.Errorf("engine stream error: %s", payload.Message)
		case "end":
			return nil
		}
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			// Malformed frames are the engine's problem, not ours; skip.
			c.log.Debug("skipping undecodable stream frame", "event", event)
			return nil
		}
		kind := event
		if kind == "" {
			kind = "updates"
		}
		return onChunk(RawChunk{Kind: kind, Payload: payload})
	})
}

// ThreadState fetches the persisted message channel for a thread from the
// engine's checkpoint store. Missing threads come back as an empty slice.
func (c *Client) ThreadState(ctx context.Context, threadID string) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/threads/"+threadID+"/state", nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch thread state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch thread state (%d)", resp.StatusCode)
	}

	var payload struct {
		Values struct {
			Messages []map[string]any `json:"messages"`
		} `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode thread state: %w", err)
	}
	return payload.Values.Messages, nil
}
