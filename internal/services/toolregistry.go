package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/mcp"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

// ToolNameSeparator joins server and tool into the fully qualified names
// agents use in their allow-lists, e.g. "github__create_issue".
const ToolNameSeparator = "__"

// ToolRegistryService turns the user's registered tool servers into engine
// tool definitions. HTTP servers are interrogated for their tool lists;
// stdio servers are handed over whole, since only the engine can spawn them.
type ToolRegistryService interface {
	// Definitions resolves tool definitions for a turn. An empty allow list
	// means every tool of every enabled server.
	Definitions(ctx context.Context, userID string, allow []string) ([]graph.ToolDefinition, error)
	// ListAvailable enumerates qualified tool names per enabled server, for
	// the agent-builder UI.
	ListAvailable(ctx context.Context, userID string) (map[string][]mcp.Tool, error)
}

type toolRegistryService struct {
	log     *logger.Logger
	servers repos.MCPServerRepo
	client  *mcp.Client
}

func NewToolRegistryService(servers repos.MCPServerRepo, client *mcp.Client, baseLog *logger.Logger) ToolRegistryService {
	return &toolRegistryService{
		log:     baseLog.With("service", "ToolRegistryService"),
		servers: servers,
		client:  client,
	}
}

func QualifiedToolName(server, tool string) string {
	return server + ToolNameSeparator + tool
}

func allowed(allow []string, name string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, a := range allow {
		if a == name {
			return true
		}
	}
	return false
}

// serverAllowed reports whether any allow-list entry targets this server.
func serverAllowed(allow []string, server string) bool {
	if len(allow) == 0 {
		return true
	}
	prefix := server + ToolNameSeparator
	for _, a := range allow {
		if strings.HasPrefix(a, prefix) {
			return true
		}
	}
	return false
}

func decodeArgs(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var args []string
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil
	}
	return args
}

func (s *toolRegistryService) Definitions(ctx context.Context, userID string, allow []string) ([]graph.ToolDefinition, error) {
	servers, err := s.servers.ListEnabledByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, nil
	}

	results := make([][]graph.ToolDefinition, len(servers))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, server := range servers {
		if !serverAllowed(allow, server.Name) {
			continue
		}
		group.Go(func() error {
			defs, err := s.resolveServer(groupCtx, server, allow)
			if err != nil {
				// A dead tool server degrades the turn, it must not kill it.
				s.log.Warn("Skipping unreachable tool server", "server", server.Name, "error", err)
				return nil
			}
			results[i] = defs
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var defs []graph.ToolDefinition
	for _, r := range results {
		defs = append(defs, r...)
	}
	return defs, nil
}

func (s *toolRegistryService) resolveServer(ctx context.Context, server *types.MCPServer, allow []string) ([]graph.ToolDefinition, error) {
	if server.Type == types.MCPServerTypeStdio {
		return []graph.ToolDefinition{{
			Name:      server.Name,
			Transport: types.MCPServerTypeStdio,
			Command:   server.Command,
			Args:      decodeArgs(server.Args),
			Env:       server.Env,
		}}, nil
	}

	tools, err := s.client.ListTools(ctx, server.URL, server.Headers)
	if err != nil {
		return nil, err
	}
	defs := make([]graph.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		name := QualifiedToolName(server.Name, tool.Name)
		if !allowed(allow, name) {
			continue
		}
		defs = append(defs, graph.ToolDefinition{
			Name:        name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
			Transport:   types.MCPServerTypeHTTP,
			ServerURL:   server.URL,
			Headers:     server.Headers,
		})
	}
	return defs, nil
}

func (s *toolRegistryService) ListAvailable(ctx context.Context, userID string) (map[string][]mcp.Tool, error) {
	servers, err := s.servers.ListEnabledByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make(map[string][]mcp.Tool, len(servers))
	group, groupCtx := errgroup.WithContext(ctx)
	for _, server := range servers {
		if server.Type != types.MCPServerTypeHTTP {
			continue
		}
		group.Go(func() error {
			tools, err := s.client.ListTools(groupCtx, server.URL, server.Headers)
			if err != nil {
				s.log.Warn("Skipping unreachable tool server", "server", server.Name, "error", err)
				return nil
			}
			mu.Lock()
			out[server.Name] = tools
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
