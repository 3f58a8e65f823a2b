package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
)

type ThreadHandler struct {
	log     *logger.Logger
	threads services.ThreadService
}

func NewThreadHandler(threads services.ThreadService, baseLog *logger.Logger) *ThreadHandler {
	return &ThreadHandler{
		log:     baseLog.With("handler", "ThreadHandler"),
		threads: threads,
	}
}

// Create registers a placeholder thread so the client can navigate to it
// before the first turn. The client may mint the id itself.
func (h *ThreadHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var body struct {
		ID      string `json:"id"`
		AgentID string `json:"agentId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err != io.EOF {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	id := uuid.Nil
	if body.ID != "" {
		parsed, err := uuid.Parse(body.ID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
			return
		}
		id = parsed
	}
	var agentID *uuid.UUID
	if body.AgentID != "" {
		parsed, err := uuid.Parse(body.AgentID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", errBadAgentID)
			return
		}
		agentID = &parsed
	}

	thread, err := h.threads.Create(c.Request.Context(), rd, id, agentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, thread)
}

func (h *ThreadHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	threads, err := h.threads.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, threads)
}

func (h *ThreadHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	thread, err := h.threads.Get(c.Request.Context(), rd.UserID, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, thread)
}

func (h *ThreadHandler) Rename(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	thread, err := h.threads.Rename(c.Request.Context(), rd.UserID, id, body.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, thread)
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errBadID)
		return
	}
	if err := h.threads.Delete(c.Request.Context(), rd.UserID, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
