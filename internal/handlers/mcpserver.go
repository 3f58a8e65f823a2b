package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/types"
)

type mcpServerRequest struct {
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Enabled *bool          `json:"enabled"`
	Command string         `json:"command"`
	Args    []string       `json:"args"`
	Env     map[string]any `json:"env"`
	URL     string         `json:"url"`
	Headers map[string]any `json:"headers"`
}

func (r mcpServerRequest) toServer() *types.MCPServer {
	args, _ := json.Marshal(r.Args)
	server := &types.MCPServer{
		Name:    r.Name,
		Type:    r.Type,
		Enabled: true,
		Command: r.Command,
		Args:    datatypes.JSON(args),
		Env:     datatypes.JSONMap(r.Env),
		URL:     r.URL,
		Headers: datatypes.JSONMap(r.Headers),
	}
	if r.Enabled != nil {
		server.Enabled = *r.Enabled
	}
	return server
}

type MCPServerHandler struct {
	log      *logger.Logger
	servers  services.MCPServerService
	registry services.ToolRegistryService
}

func NewMCPServerHandler(servers services.MCPServerService, registry services.ToolRegistryService, baseLog *logger.Logger) *MCPServerHandler {
	return &MCPServerHandler{
		log:      baseLog.With("handler", "MCPServerHandler"),
		servers:  servers,
		registry: registry,
	}
}

func (h *MCPServerHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req mcpServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	server, err := h.servers.Create(c.Request.Context(), rd.UserID, rd.UserName, rd.UserEmail, req.toServer())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, server)
}

func (h *MCPServerHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	servers, err := h.servers.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, servers)
}

func (h *MCPServerHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	var req mcpServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	server, err := h.servers.Update(c.Request.Context(), rd.UserID, id, req.toServer())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, server)
}

func (h *MCPServerHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	if err := h.servers.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// ListTools enumerates live tools per enabled server for the agent builder.
func (h *MCPServerHandler) ListTools(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	tools, err := h.registry.ListAvailable(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tools)
}
