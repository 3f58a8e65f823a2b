package app

import (
	"github.com/gin-gonic/gin"

	"github.com/geniehq/genie-backend/internal/middleware"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/server"
)

func wireRouter(cfg Config, log *logger.Logger, serviceset Services, handlerset Handlers) *gin.Engine {
	authMiddleware := middleware.NewAuthMiddleware(serviceset.Auth, log)
	return server.NewRouter(server.RouterConfig{
		ServiceName:      cfg.ServiceName,
		AllowOrigins:     cfg.AllowOrigins,
		AuthMiddleware:   authMiddleware,
		StreamHandler:    handlerset.Stream,
		ThreadHandler:    handlerset.Thread,
		HistoryHandler:   handlerset.History,
		FeedbackHandler:  handlerset.Feedback,
		AgentHandler:     handlerset.Agent,
		MCPServerHandler: handlerset.MCPServer,
		PromptHandler:    handlerset.Prompt,
		DocumentHandler:  handlerset.Document,
		ModelsHandler:    handlerset.Models,
		EventsHandler:    handlerset.Events,
	})
}
