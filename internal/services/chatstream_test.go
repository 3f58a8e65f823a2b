package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/normalization"
	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/mcp"
	"github.com/geniehq/genie-backend/internal/repos"
)

type fakeStreamer struct {
	chunks   []graph.RawChunk
	runErr   error
	messages []map[string]any
	lastReq  graph.RunRequest
}

func (f *fakeStreamer) StreamRun(_ context.Context, req graph.RunRequest, onChunk func(graph.RawChunk) error) error {
	f.lastReq = req
	for _, chunk := range f.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return f.runErr
}

func (f *fakeStreamer) ThreadState(context.Context, string) ([]map[string]any, error) {
	return f.messages, nil
}

func updatesChunk(t *testing.T, payload map[string]any) graph.RawChunk {
	t.Helper()
	raw := make(map[string]json.RawMessage, len(payload))
	for node, v := range payload {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal node %s: %v", node, err)
		}
		raw[node] = b
	}
	return graph.RawChunk{Kind: "updates", Payload: raw}
}

func aiMessage(id, content string) map[string]any {
	return map[string]any{"type": "ai", "id": id, "content": content}
}

func newChatFixture(t *testing.T, streamer graph.Streamer) ChatStreamService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	registry := NewToolRegistryService(repos.NewMCPServerRepo(gdb, log), mcp.NewClient(log), log)
	threads := NewThreadService(repos.NewThreadRepo(gdb, log), log)
	agents := NewAgentService(repos.NewAgentRepo(gdb, log), registry, "azure-openai", "gpt-4o", log)
	docs := NewDocumentService(repos.NewDocumentRepo(gdb, log), log)
	return NewChatStreamService(threads, agents, docs, streamer, log)
}

func TestStreamTurnEmitsInOrderAndAccumulatesText(t *testing.T) {
	streamer := &fakeStreamer{
		chunks: []graph.RawChunk{
			updatesChunk(t, map[string]any{
				"model_request": map[string]any{"messages": []any{aiMessage("m1", "Hello")}},
			}),
			updatesChunk(t, map[string]any{
				"model_request": map[string]any{"messages": []any{aiMessage("m1", " world")}},
			}),
		},
	}
	svc := newChatFixture(t, streamer)

	var got []normalization.StreamEvent
	_, text, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID: uuid.New().String(),
		Text:     "hi",
	}, func(e normalization.StreamEvent) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("accumulated text = %q", text)
	}
	if len(got) != 2 || got[0].Type != normalization.EventAI || got[1].Type != normalization.EventAI {
		t.Fatalf("events = %+v", got)
	}
	if got[0].AI.Content != "Hello" || got[1].AI.Content != " world" {
		t.Errorf("deltas out of order: %q, %q", got[0].AI.Content, got[1].AI.Content)
	}
}

func TestStreamTurnBuildsUserInput(t *testing.T) {
	streamer := &fakeStreamer{}
	svc := newChatFixture(t, streamer)

	threadID := uuid.New().String()
	if _, _, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID: threadID,
		Text:     "what is up",
	}, func(normalization.StreamEvent) error { return nil }); err != nil {
		t.Fatalf("stream: %v", err)
	}

	req := streamer.lastReq
	if req.ThreadID != threadID {
		t.Errorf("thread id = %q", req.ThreadID)
	}
	if len(req.Input) != 1 || req.Input[0].Role != "user" || req.Input[0].Content != "what is up" {
		t.Errorf("input = %+v", req.Input)
	}
	if req.RecursionLimit != 25 {
		t.Errorf("recursion limit = %d, want default 25", req.RecursionLimit)
	}
}

func TestStreamTurnAppliesRequestOverrides(t *testing.T) {
	streamer := &fakeStreamer{}
	svc := newChatFixture(t, streamer)

	if _, _, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID:    uuid.New().String(),
		Text:        "hi",
		Provider:    "google",
		Model:       "gemini-2.5-flash",
		AutoApprove: true,
	}, func(normalization.StreamEvent) error { return nil }); err != nil {
		t.Fatalf("stream: %v", err)
	}

	agent := streamer.lastReq.Agent
	if agent.Provider != "google" || agent.Model != "gemini-2.5-flash" {
		t.Errorf("agent spec = %+v", agent)
	}
	if !agent.AutoApprove {
		t.Error("auto-approve not carried into the run")
	}
}

func TestStreamTurnResumeSkipsInput(t *testing.T) {
	streamer := &fakeStreamer{}
	svc := newChatFixture(t, streamer)

	resume := &graph.ResumeCommand{Action: "accept", Data: map[string]any{"tool": "x"}}
	if _, _, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID: uuid.New().String(),
		Resume:   resume,
	}, func(normalization.StreamEvent) error { return nil }); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if streamer.lastReq.Resume == nil || streamer.lastReq.Resume.Action != "accept" {
		t.Errorf("resume not forwarded: %+v", streamer.lastReq.Resume)
	}
	if len(streamer.lastReq.Input) != 0 {
		t.Errorf("resume turn must not carry new input, got %+v", streamer.lastReq.Input)
	}
}

func TestStreamTurnEngineErrorReturnsPartialText(t *testing.T) {
	streamer := &fakeStreamer{
		chunks: []graph.RawChunk{
			updatesChunk(t, map[string]any{
				"model_request": map[string]any{"messages": []any{aiMessage("m1", "partial")}},
			}),
		},
		runErr: errors.New("engine exploded"),
	}
	svc := newChatFixture(t, streamer)

	var emitted int
	_, text, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID: uuid.New().String(),
		Text:     "hi",
	}, func(normalization.StreamEvent) error {
		emitted++
		return nil
	})
	if err == nil {
		t.Fatal("expected engine error")
	}
	if emitted != 1 {
		t.Errorf("events before failure = %d", emitted)
	}
	if text != "partial" {
		t.Errorf("partial text = %q", text)
	}
}

func TestStreamTurnEmitErrorAbortsRun(t *testing.T) {
	streamer := &fakeStreamer{
		chunks: []graph.RawChunk{
			updatesChunk(t, map[string]any{
				"model_request": map[string]any{"messages": []any{aiMessage("m1", "a")}},
			}),
			updatesChunk(t, map[string]any{
				"model_request": map[string]any{"messages": []any{aiMessage("m2", "b")}},
			}),
		},
	}
	svc := newChatFixture(t, streamer)

	sentinel := errors.New("client went away")
	_, _, err := svc.StreamTurn(context.Background(), testRequestData(), StreamParams{
		ThreadID: uuid.New().String(),
		Text:     "hi",
	}, func(normalization.StreamEvent) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected emit error surfaced, got %v", err)
	}
}
