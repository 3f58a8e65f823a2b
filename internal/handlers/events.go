package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/sse"
)

// EventsHandler serves the long-lived per-user notification stream that
// carries events born outside any request, like thread_title_updated for a
// thread streaming in another tab.
type EventsHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub, baseLog *logger.Logger) *EventsHandler {
	return &EventsHandler{
		log: baseLog.With("handler", "EventsHandler"),
		hub: hub,
	}
}

func (h *EventsHandler) Subscribe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	client := h.hub.Register(rd.UserID)
	defer h.hub.Unregister(client)

	if err := h.hub.Serve(c.Request.Context(), c.Writer, client); err != nil {
		h.log.Debug("Event stream ended", "client_id", client.ID, "error", err)
	}
}
