package graph

import "encoding/json"

// RawChunk is one update record off the engine's run stream: a tagged pair
// of stream kind and a per-node payload. Only "updates" chunks carry
// content; other kinds pass through and are dropped downstream.
type RawChunk struct {
	Kind    string
	Payload map[string]json.RawMessage
}

// ToolDefinition describes one remote tool the engine may invoke. Name is
// fully qualified as "server__tool". For stdio servers the engine spawns the
// command itself; for http servers it calls the URL directly.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
	Transport   string         `json:"transport,omitempty"`
	ServerURL   string         `json:"server_url,omitempty"`
	Command     string         `json:"command,omitempty"`
	Args        []string       `json:"args,omitempty"`
	Env         map[string]any `json:"env,omitempty"`
	Headers     map[string]any `json:"headers,omitempty"`
}

// AgentSpec configures one agent node on the engine side. A non-empty
// SubAgents list asks the engine to build a supervisor graph.
type AgentSpec struct {
	Name         string           `json:"name,omitempty"`
	SystemPrompt string           `json:"system_prompt,omitempty"`
	Provider     string           `json:"provider"`
	Model        string           `json:"model"`
	Temperature  float64          `json:"temperature"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	SubAgents    []AgentSpec      `json:"sub_agents,omitempty"`
	AutoApprove  bool             `json:"auto_approve_tools,omitempty"`
}

// InputMessage is one message handed to the engine for a new turn.
// Content is either a string or a list of multimodal content blocks.
type InputMessage struct {
	Role             string         `json:"role"`
	Content          any            `json:"content"`
	AdditionalKwargs map[string]any `json:"additional_kwargs,omitempty"`
}

// ResumeCommand resumes a run paused on a tool-approval interrupt.
type ResumeCommand struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

type RunRequest struct {
	ThreadID       string         `json:"thread_id"`
	Input          []InputMessage `json:"input,omitempty"`
	Resume         *ResumeCommand `json:"resume,omitempty"`
	Agent          AgentSpec      `json:"agent"`
	StreamMode     []string       `json:"stream_mode"`
	RecursionLimit int            `json:"recursion_limit,omitempty"`
}
