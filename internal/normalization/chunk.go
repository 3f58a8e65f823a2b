package normalization

import (
	"encoding/json"
	"sort"

	"github.com/geniehq/genie-backend/internal/platform/graph"
)

// NodeKind names the execution-node families found in an "updates" chunk.
// Anything outside the known set is a dynamically named sub-agent node in
// supervisor mode and gets scanned the same way.
type NodeKind int

const (
	NodeModel NodeKind = iota
	NodeTools
	NodeInterrupt
	NodeAgent
)

const (
	nodeNameModel     = "model_request"
	nodeNameTools     = "tools"
	nodeNameInterrupt = "__interrupt__"
)

func ResolveNodeKind(name string) NodeKind {
	switch name {
	case nodeNameModel:
		return NodeModel
	case nodeNameTools:
		return NodeTools
	case nodeNameInterrupt:
		return NodeInterrupt
	default:
		return NodeAgent
	}
}

// NormalizeChunk converts one raw engine chunk into zero or more stream
// events. It is pure and never fails: unrecognized kinds, node shapes and
// message shapes are dropped silently. Within a chunk the model node is
// scanned first, then the tools node, then dynamic agent nodes in name
// order, so output is deterministic despite map iteration.
func NormalizeChunk(chunk graph.RawChunk) []StreamEvent {
	if chunk.Kind != "updates" || len(chunk.Payload) == 0 {
		return nil
	}

	var out []StreamEvent
	if raw, ok := chunk.Payload[nodeNameModel]; ok {
		out = append(out, normalizeNode(raw, NodeModel)...)
	}
	if raw, ok := chunk.Payload[nodeNameTools]; ok {
		out = append(out, normalizeNode(raw, NodeTools)...)
	}

	agentNodes := make([]string, 0, len(chunk.Payload))
	for name := range chunk.Payload {
		if ResolveNodeKind(name) == NodeAgent {
			agentNodes = append(agentNodes, name)
		}
	}
	sort.Strings(agentNodes)
	for _, name := range agentNodes {
		out = append(out, normalizeNode(chunk.Payload[name], NodeAgent)...)
	}
	return out
}

// normalizeNode scans one node delta for message records. The model node
// yields AI events only, the tools node tool events only; dynamic agent
// nodes may carry either.
func normalizeNode(raw json.RawMessage, kind NodeKind) []StreamEvent {
	var out []StreamEvent
	for _, msg := range nodeMessages(raw) {
		switch Classify(msg) {
		case ClassAIMessage:
			if kind == NodeModel || kind == NodeAgent {
				if ev, ok := BuildAIEvent(msg); ok {
					out = append(out, ev)
				}
			}
		case ClassToolMessage:
			if kind == NodeTools || kind == NodeAgent {
				out = append(out, BuildToolEvent(msg))
			}
		}
	}
	return out
}

// nodeMessages extracts the "messages" list from a node delta, tolerating a
// single bare message object in place of a list.
func nodeMessages(raw json.RawMessage) []map[string]any {
	var delta struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(raw, &delta); err != nil || len(delta.Messages) == 0 {
		return nil
	}

	var list []map[string]any
	if err := json.Unmarshal(delta.Messages, &list); err == nil {
		return list
	}
	var single map[string]any
	if err := json.Unmarshal(delta.Messages, &single); err == nil && single != nil {
		return []map[string]any{single}
	}
	return nil
}
