package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/types"
)

type promptRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type PromptHandler struct {
	log     *logger.Logger
	prompts services.PromptService
}

func NewPromptHandler(prompts services.PromptService, baseLog *logger.Logger) *PromptHandler {
	return &PromptHandler{
		log:     baseLog.With("handler", "PromptHandler"),
		prompts: prompts,
	}
}

func (h *PromptHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	prompt, err := h.prompts.Create(c.Request.Context(), rd.UserID, &types.Prompt{Name: req.Name, Content: req.Content})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompt)
}

func (h *PromptHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	prompts, err := h.prompts.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompts)
}

func (h *PromptHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	prompt, err := h.prompts.Update(c.Request.Context(), rd.UserID, id, &types.Prompt{Name: req.Name, Content: req.Content})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompt)
}

func (h *PromptHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	if err := h.prompts.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
