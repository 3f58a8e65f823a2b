package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
)

type HistoryHandler struct {
	log     *logger.Logger
	history services.HistoryService
}

func NewHistoryHandler(history services.HistoryService, baseLog *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		log:     baseLog.With("handler", "HistoryHandler"),
		history: history,
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	threadID := strings.TrimSpace(c.Param("threadId"))
	if threadID == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingThreadID)
		return
	}
	events, err := h.history.List(c.Request.Context(), rd.UserID, threadID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": events})
}
