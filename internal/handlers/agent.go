package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/types"
)

type agentRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SystemPrompt   string   `json:"systemPrompt"`
	ModelName      string   `json:"modelName"`
	Provider       string   `json:"provider"`
	Tools          []string `json:"tools"`
	SubAgentIDs    []string `json:"subAgentIds"`
	RecursionLimit int      `json:"recursionLimit"`
}

func (r agentRequest) toAgent() *types.Agent {
	return &types.Agent{
		Name:           r.Name,
		Description:    r.Description,
		SystemPrompt:   r.SystemPrompt,
		ModelName:      r.ModelName,
		Provider:       r.Provider,
		Tools:          datatypes.JSONSlice[string](r.Tools),
		SubAgentIDs:    datatypes.JSONSlice[string](r.SubAgentIDs),
		RecursionLimit: r.RecursionLimit,
	}
}

type AgentHandler struct {
	log     *logger.Logger
	agents  services.AgentService
	catalog *services.ModelCatalog
}

func NewAgentHandler(agents services.AgentService, catalog *services.ModelCatalog, baseLog *logger.Logger) *AgentHandler {
	return &AgentHandler{
		log:     baseLog.With("handler", "AgentHandler"),
		agents:  agents,
		catalog: catalog,
	}
}

func (h *AgentHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !h.catalog.Valid(req.Provider, req.ModelName) {
		RespondError(c, http.StatusBadRequest, "bad_request", errUnknownModel)
		return
	}
	agent, err := h.agents.Create(c.Request.Context(), rd.UserID, rd.UserName, rd.UserEmail, req.toAgent())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, agent)
}

func (h *AgentHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	agents, err := h.agents.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, agents)
}

func (h *AgentHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	agent, err := h.agents.Get(c.Request.Context(), rd.UserID, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, agent)
}

func (h *AgentHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if !h.catalog.Valid(req.Provider, req.ModelName) {
		RespondError(c, http.StatusBadRequest, "bad_request", errUnknownModel)
		return
	}
	agent, err := h.agents.Update(c.Request.Context(), rd.UserID, id, req.toAgent())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, agent)
}

func (h *AgentHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	if err := h.agents.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
