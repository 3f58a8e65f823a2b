package normalization

import "encoding/json"

type EventType string

const (
	EventAI    EventType = "ai"
	EventHuman EventType = "human"
	EventTool  EventType = "tool"
	EventError EventType = "error"
)

// AIMessageData is the payload of one normalized AI event. Content carries
// the textual delta for this record; tool-call fields pass through as the
// engine shaped them.
type AIMessageData struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	ToolCalls        []any          `json:"tool_calls,omitempty"`
	ToolCallChunks   []any          `json:"tool_call_chunks,omitempty"`
	AdditionalKwargs map[string]any `json:"additional_kwargs,omitempty"`
	ResponseMetadata map[string]any `json:"response_metadata,omitempty"`
}

type ToolMessageData struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
}

type HumanMessageData struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// StreamEvent is the discriminated union handed to the transport layer.
// Exactly one payload pointer matches Type.
type StreamEvent struct {
	Type  EventType
	AI    *AIMessageData
	Human *HumanMessageData
	Tool  *ToolMessageData
	Err   *ErrorData
}

// MarshalJSON produces the wire shape {"type": ..., "data": {...}}.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	var data any
	switch {
	case e.AI != nil:
		data = e.AI
	case e.Human != nil:
		data = e.Human
	case e.Tool != nil:
		data = e.Tool
	case e.Err != nil:
		data = e.Err
	default:
		data = struct{}{}
	}
	return json.Marshal(struct {
		Type EventType `json:"type"`
		Data any       `json:"data"`
	}{Type: e.Type, Data: data})
}

// MessageID returns the payload id, used by history consumers to dedupe
// records that arrived fragmented across multiple chunks.
func (e StreamEvent) MessageID() string {
	switch {
	case e.AI != nil:
		return e.AI.ID
	case e.Human != nil:
		return e.Human.ID
	case e.Tool != nil:
		return e.Tool.ID
	}
	return ""
}
