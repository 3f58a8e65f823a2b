package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
)

type FeedbackHandler struct {
	log      *logger.Logger
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService, baseLog *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		log:      baseLog.With("handler", "FeedbackHandler"),
		feedback: feedback,
	}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var body struct {
		MessageID string `json:"messageId"`
		ThreadID  string `json:"threadId"`
		Feedback  string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	fb, err := h.feedback.Submit(c.Request.Context(), rd.UserID, body.MessageID, body.ThreadID, body.Feedback)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, fb)
}

func (h *FeedbackHandler) ListByThread(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	threadID := c.Query("threadId")
	if threadID == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingThreadID)
		return
	}
	byMessage, err := h.feedback.MapByThread(c.Request.Context(), rd.UserID, threadID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, byMessage)
}
