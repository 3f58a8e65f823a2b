package app

import (
	"context"
	"fmt"

	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/mcp"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/sse"
)

type Services struct {
	Auth      services.AuthService
	Thread    services.ThreadService
	Agent     services.AgentService
	Registry  services.ToolRegistryService
	Document  services.DocumentService
	Title     services.TitleService
	Chat      services.ChatStreamService
	History   services.HistoryService
	Feedback  services.FeedbackService
	Prompt    services.PromptService
	MCPServer services.MCPServerService
	Catalog   *services.ModelCatalog
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, reposet Repos, hub *sse.Hub) (Services, sse.Bus, error) {
	auth, err := services.NewAuthService(cfg.JWTSecretKey, log)
	if err != nil {
		return Services{}, nil, fmt.Errorf("init auth service: %w", err)
	}

	streamer, err := graph.NewClient(cfg.GraphBaseURL, cfg.GraphAPIKey, log)
	if err != nil {
		return Services{}, nil, fmt.Errorf("init graph client: %w", err)
	}

	catalog, err := services.LoadModelCatalog()
	if err != nil {
		return Services{}, nil, fmt.Errorf("load model catalog: %w", err)
	}

	// Without redis, notifications stay instance-local.
	var bus sse.Bus
	var notifier services.Notifier
	if cfg.RedisAddr != "" {
		bus, err = sse.NewRedisBus(cfg.RedisAddr, cfg.RedisChannel, log)
		if err != nil {
			return Services{}, nil, fmt.Errorf("init redis bus: %w", err)
		}
		if err := bus.StartForwarder(ctx, func(m sse.Message) { hub.Broadcast(m) }); err != nil {
			return Services{}, nil, fmt.Errorf("start redis forwarder: %w", err)
		}
		notifier = &services.BusNotifier{Bus: bus, Log: log}
	} else {
		notifier = &services.HubNotifier{Hub: hub}
	}

	registry := services.NewToolRegistryService(reposet.MCPServer, mcp.NewClient(log), log)
	thread := services.NewThreadService(reposet.Thread, log)
	agent := services.NewAgentService(reposet.Agent, registry, cfg.DefaultProvider, cfg.DefaultModel, log)
	document := services.NewDocumentService(reposet.Document, log)
	title := services.NewTitleService(reposet.Thread, notifier, cfg.DefaultProvider, cfg.DefaultModel, log)
	chat := services.NewChatStreamService(thread, agent, document, streamer, log)
	history := services.NewHistoryService(reposet.Thread, streamer, log)

	return Services{
		Auth:      auth,
		Thread:    thread,
		Agent:     agent,
		Registry:  registry,
		Document:  document,
		Title:     title,
		Chat:      chat,
		History:   history,
		Feedback:  services.NewFeedbackService(reposet.Feedback, log),
		Prompt:    services.NewPromptService(reposet.Prompt, log),
		MCPServer: services.NewMCPServerService(reposet.MCPServer, log),
		Catalog:   catalog,
	}, bus, nil
}
