package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geniehq/genie-backend/internal/handlers"
	"github.com/geniehq/genie-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowOrigins     []string
	AuthMiddleware   *middleware.AuthMiddleware
	StreamHandler    *handlers.ChatStreamHandler
	ThreadHandler    *handlers.ThreadHandler
	HistoryHandler   *handlers.HistoryHandler
	FeedbackHandler  *handlers.FeedbackHandler
	AgentHandler     *handlers.AgentHandler
	MCPServerHandler *handlers.MCPServerHandler
	PromptHandler    *handlers.PromptHandler
	DocumentHandler  *handlers.DocumentHandler
	ModelsHandler    *handlers.ModelsHandler
	EventsHandler    *handlers.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Conversation surface
	agent := api.Group("/agent")
	agent.GET("/stream", cfg.StreamHandler.Stream)
	agent.GET("/history/:threadId", cfg.HistoryHandler.List)

	agent.GET("/threads", cfg.ThreadHandler.List)
	agent.POST("/threads", cfg.ThreadHandler.Create)
	agent.GET("/threads/:id", cfg.ThreadHandler.Get)
	agent.PATCH("/threads/:id", cfg.ThreadHandler.Rename)
	agent.DELETE("/threads/:id", cfg.ThreadHandler.Delete)

	agent.GET("/feedback", cfg.FeedbackHandler.ListByThread)
	agent.POST("/feedback", cfg.FeedbackHandler.Submit)

	// Custom agents
	api.POST("/custom-agents", cfg.AgentHandler.Create)
	api.GET("/custom-agents", cfg.AgentHandler.List)
	api.GET("/custom-agents/:id", cfg.AgentHandler.Get)
	api.PUT("/custom-agents/:id", cfg.AgentHandler.Update)
	api.DELETE("/custom-agents/:id", cfg.AgentHandler.Delete)

	// Tool servers
	api.POST("/mcp-servers", cfg.MCPServerHandler.Create)
	api.GET("/mcp-servers", cfg.MCPServerHandler.List)
	api.PATCH("/mcp-servers/:id", cfg.MCPServerHandler.Update)
	api.DELETE("/mcp-servers/:id", cfg.MCPServerHandler.Delete)
	api.GET("/mcp-servers/tools", cfg.MCPServerHandler.ListTools)

	// Prompts
	api.POST("/prompts", cfg.PromptHandler.Create)
	api.GET("/prompts", cfg.PromptHandler.List)
	api.PUT("/prompts/:id", cfg.PromptHandler.Update)
	api.DELETE("/prompts/:id", cfg.PromptHandler.Delete)

	// Documents
	api.POST("/upload", cfg.DocumentHandler.Upload)
	api.GET("/document/:id", cfg.DocumentHandler.Get)
	api.DELETE("/document/:id", cfg.DocumentHandler.Delete)

	// Models and notifications
	api.GET("/models", cfg.ModelsHandler.List)
	api.GET("/events", cfg.EventsHandler.Subscribe)

	return router
}
