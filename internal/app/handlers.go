package app

import (
	"github.com/geniehq/genie-backend/internal/handlers"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/sse"
)

type Handlers struct {
	Stream    *handlers.ChatStreamHandler
	Thread    *handlers.ThreadHandler
	History   *handlers.HistoryHandler
	Feedback  *handlers.FeedbackHandler
	Agent     *handlers.AgentHandler
	MCPServer *handlers.MCPServerHandler
	Prompt    *handlers.PromptHandler
	Document  *handlers.DocumentHandler
	Models    *handlers.ModelsHandler
	Events    *handlers.EventsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *sse.Hub) Handlers {
	return Handlers{
		Stream:    handlers.NewChatStreamHandler(serviceset.Chat, serviceset.Title, log),
		Thread:    handlers.NewThreadHandler(serviceset.Thread, log),
		History:   handlers.NewHistoryHandler(serviceset.History, log),
		Feedback:  handlers.NewFeedbackHandler(serviceset.Feedback, log),
		Agent:     handlers.NewAgentHandler(serviceset.Agent, serviceset.Catalog, log),
		MCPServer: handlers.NewMCPServerHandler(serviceset.MCPServer, serviceset.Registry, log),
		Prompt:    handlers.NewPromptHandler(serviceset.Prompt, log),
		Document:  handlers.NewDocumentHandler(serviceset.Document, log),
		Models:    handlers.NewModelsHandler(serviceset.Catalog),
		Events:    handlers.NewEventsHandler(hub, log),
	}
}
