package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/normalization"
	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/sse"
)

type ChatStreamHandler struct {
	log    *logger.Logger
	chat   services.ChatStreamService
	titles services.TitleService
}

func NewChatStreamHandler(chat services.ChatStreamService, titles services.TitleService, baseLog *logger.Logger) *ChatStreamHandler {
	return &ChatStreamHandler{
		log:    baseLog.With("handler", "ChatStreamHandler"),
		chat:   chat,
		titles: titles,
	}
}

// Stream runs one turn as an SSE response. The request arrives as a GET
// with query parameters because EventSource cannot send a body. Message
// events are unnamed; error, title_generated and done are named. A
// successful run always ends with done; a failed run ends with a single
// error frame instead, since the 200 header is long gone by the time
// anything fails.
func (h *ChatStreamHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	params, err := parseStreamQuery(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	writer, err := sse.NewWriter(c.Writer)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}
	defer writer.Close()
	writer.Comment("connected")

	ctx := c.Request.Context()
	thread, aiText, err := h.chat.StreamTurn(ctx, rd, params, func(event normalization.StreamEvent) error {
		return writer.Data(event)
	})
	if err != nil {
		h.log.Error("Turn failed", "thread_id", params.ThreadID, "error", err)
		_ = writer.Event("error", gin.H{
			"message":  err.Error(),
			"threadId": params.ThreadID,
		})
		return
	}

	if title, ok := h.titles.MaybeGenerate(ctx, thread, params.Text, aiText); ok {
		_ = writer.Event("title_generated", gin.H{
			"threadId": params.ThreadID,
			"title":    title,
		})
	}
	_ = writer.Event("done", gin.H{})
}

func parseStreamQuery(c *gin.Context) (services.StreamParams, error) {
	params := services.StreamParams{
		ThreadID:    strings.TrimSpace(c.Query("threadId")),
		Text:        c.Query("content"),
		Provider:    c.Query("provider"),
		Model:       c.Query("model"),
		Tools:       splitQueryList(c.Query("tools")),
		AutoApprove: c.Query("approveAllTools") == "true",
	}
	if params.ThreadID == "" {
		return params, errMissingThreadID
	}

	// allowTool carries the user's decision on a pending tool-approval
	// interrupt: allow continues the paused run, deny resumes it with an
	// update so the agent can react to the refusal.
	if allowTool := c.Query("allowTool"); allowTool != "" {
		var action string
		switch allowTool {
		case "allow":
			action = "continue"
		case "deny":
			action = "update"
		default:
			return params, errBadAllowTool
		}
		params.Resume = &graph.ResumeCommand{
			Action: action,
			Data:   map[string]any{},
		}
	} else if strings.TrimSpace(params.Text) == "" {
		return params, errEmptyTurn
	}

	if raw := c.Query("agentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errBadAgentID
		}
		params.AgentID = &id
	}
	for _, raw := range splitQueryList(c.Query("documentIds")) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, errBadDocumentID
		}
		params.DocumentIDs = append(params.DocumentIDs, id)
	}
	return params, nil
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
