package normalization

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Class is the explicit tagged union replacing the engine's duck-typed
// message shapes. Anything not recognizably AI- or tool-shaped is Unknown
// and dropped without error: the engine's internal event shapes evolve and
// the pipeline must tolerate records it has never seen.
type Class int

const (
	ClassUnknown Class = iota
	ClassAIMessage
	ClassHumanMessage
	ClassToolMessage
)

// Classify inspects a small, fixed set of fields. Serialized constructor
// records carry type=="constructor" and a class path in "id"; live records
// carry a plain type tag.
func Classify(msg map[string]any) Class {
	if msg == nil {
		return ClassUnknown
	}
	t, _ := msg["type"].(string)
	if t == "constructor" {
		switch {
		case idPathContains(msg["id"], "AIMessage"):
			return ClassAIMessage
		case idPathContains(msg["id"], "ToolMessage"):
			return ClassToolMessage
		case idPathContains(msg["id"], "HumanMessage"):
			return ClassHumanMessage
		default:
			return ClassUnknown
		}
	}
	switch t {
	case "ai", "AIMessage", "AIMessageChunk":
		return ClassAIMessage
	case "human", "HumanMessage":
		return ClassHumanMessage
	case "tool", "ToolMessage", "ToolMessageChunk":
		return ClassToolMessage
	default:
		return ClassUnknown
	}
}

// Fields unwraps a serialized constructor record to its kwargs; live
// records are returned unchanged.
func Fields(msg map[string]any) map[string]any {
	if t, _ := msg["type"].(string); t == "constructor" {
		if kwargs, ok := msg["kwargs"].(map[string]any); ok {
			return kwargs
		}
	}
	return msg
}

func idPathContains(id any, name string) bool {
	path, ok := id.([]any)
	if !ok {
		return false
	}
	for _, part := range path {
		if s, ok := part.(string); ok && strings.Contains(s, name) {
			return true
		}
	}
	return false
}

// BuildAIEvent converts an AI-shaped record to an event. Records with no
// tool-call data and only blank text produce nothing (ok=false): the engine
// emits empty heartbeat deltas that carry no information.
func BuildAIEvent(msg map[string]any) (StreamEvent, bool) {
	fields := Fields(msg)

	toolCalls := asList(fields["tool_calls"])
	toolCallChunks := asList(fields["tool_call_chunks"])
	hasToolData := len(toolCalls) > 0 || len(toolCallChunks) > 0 || hasLegacyFunctionCall(fields["content"])

	text := flattenContent(fields["content"])
	if !hasToolData && strings.TrimSpace(text) == "" {
		return StreamEvent{}, false
	}

	data := &AIMessageData{
		ID:      stringField(fields, "id"),
		Content: text,
	}
	if data.ID == "" {
		data.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if len(toolCalls) > 0 {
		data.ToolCalls = toolCalls
	}
	if len(toolCallChunks) > 0 {
		data.ToolCallChunks = toolCallChunks
	}
	if kwargs, ok := fields["additional_kwargs"].(map[string]any); ok && len(kwargs) > 0 {
		data.AdditionalKwargs = kwargs
	}
	if meta, ok := fields["response_metadata"].(map[string]any); ok && len(meta) > 0 {
		data.ResponseMetadata = meta
	}
	return StreamEvent{Type: EventAI, AI: data}, true
}

// BuildToolEvent converts a tool-result record to an event. Non-string
// content is JSON-encoded rather than discarded.
func BuildToolEvent(msg map[string]any) StreamEvent {
	fields := Fields(msg)

	content := ""
	switch c := fields["content"].(type) {
	case string:
		content = c
	case nil:
	default:
		if raw, err := json.Marshal(c); err == nil {
			content = string(raw)
		} else {
			content = fmt.Sprint(c)
		}
	}

	id := stringField(fields, "id")
	if id == "" {
		id = "tool-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return StreamEvent{Type: EventTool, Tool: &ToolMessageData{
		ID:         id,
		Content:    content,
		ToolCallID: stringField(fields, "tool_call_id"),
		Name:       stringField(fields, "name"),
	}}
}

// BuildHumanEvent is only used when reconstructing history; live human
// input never round-trips through the stream.
func BuildHumanEvent(msg map[string]any) StreamEvent {
	fields := Fields(msg)
	id := stringField(fields, "id")
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return StreamEvent{Type: EventHuman, Human: &HumanMessageData{
		ID:      id,
		Content: flattenContent(fields["content"]),
	}}
}

// flattenContent joins a content value into plain text. Multimodal arrays
// contribute their string members and "text" block fields.
func flattenContent(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case []any:
		var b strings.Builder
		for _, item := range c {
			switch v := item.(type) {
			case string:
				b.WriteString(v)
			case map[string]any:
				if text, ok := v["text"].(string); ok {
					b.WriteString(text)
				}
			}
		}
		return b.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}

func hasLegacyFunctionCall(content any) bool {
	items, ok := content.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if _, has := m["functionCall"]; has {
				return true
			}
		}
	}
	return false
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
