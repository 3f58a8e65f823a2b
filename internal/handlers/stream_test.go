package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/normalization"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/services"
	"github.com/geniehq/genie-backend/internal/types"
)

type fakeChat struct {
	events     []normalization.StreamEvent
	text       string
	err        error
	thread     *types.Thread
	lastParams services.StreamParams
}

func (f *fakeChat) StreamTurn(_ context.Context, _ *requestdata.RequestData, params services.StreamParams, emit func(normalization.StreamEvent) error) (*types.Thread, string, error) {
	f.lastParams = params
	for _, e := range f.events {
		if err := emit(e); err != nil {
			return f.thread, f.text, err
		}
	}
	return f.thread, f.text, f.err
}

type fakeTitles struct {
	title string
	ok    bool
}

func (f *fakeTitles) MaybeGenerate(context.Context, *types.Thread, string, string) (string, bool) {
	return f.title, f.ok
}

func newStreamRouter(t *testing.T, chat services.ChatStreamService, titles services.TitleService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		rd := &requestdata.RequestData{UserID: "user-1"}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
	})
	router.GET("/api/agent/stream", NewChatStreamHandler(chat, titles, log).Stream)
	return router
}

func getStream(t *testing.T, router *gin.Engine, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/agent/stream?"+query.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// frames splits an SSE body into its event blocks.
func frames(body string) []string {
	var out []string
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) != "" {
			out = append(out, block)
		}
	}
	return out
}

func TestStreamHappyPathFraming(t *testing.T) {
	threadID := uuid.New().String()
	chat := &fakeChat{
		events: []normalization.StreamEvent{
			{Type: normalization.EventAI, AI: &normalization.AIMessageData{ID: "m1", Content: "Hello"}},
			{Type: normalization.EventTool, Tool: &normalization.ToolMessageData{ID: "t1", Content: "42", ToolCallID: "c1", Name: "calc"}},
		},
		text: "Hello",
	}
	titles := &fakeTitles{title: "Greeting", ok: true}
	router := newStreamRouter(t, chat, titles)

	w := getStream(t, router, url.Values{"threadId": {threadID}, "content": {"hi"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}

	got := frames(w.Body.String())
	if len(got) != 5 {
		t.Fatalf("frames = %#v", got)
	}
	if got[0] != ": connected" {
		t.Errorf("first frame = %q", got[0])
	}
	if !strings.Contains(got[1], `"type":"ai"`) || strings.Contains(got[1], "event:") {
		t.Errorf("message frames must be unnamed, got %q", got[1])
	}
	if !strings.Contains(got[2], `"type":"tool"`) {
		t.Errorf("tool frame = %q", got[2])
	}
	if !strings.HasPrefix(got[3], "event: title_generated") || !strings.Contains(got[3], "Greeting") {
		t.Errorf("title frame = %q", got[3])
	}
	if !strings.HasPrefix(got[4], "event: done") {
		t.Errorf("final frame = %q", got[4])
	}
}

func TestStreamErrorTravelsInBand(t *testing.T) {
	threadID := uuid.New().String()
	chat := &fakeChat{err: errors.New("engine exploded")}
	router := newStreamRouter(t, chat, &fakeTitles{})

	w := getStream(t, router, url.Values{"threadId": {threadID}, "content": {"hi"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, SSE errors must not change the status", w.Code)
	}

	got := frames(w.Body.String())
	if len(got) != 2 {
		t.Fatalf("frames = %#v", got)
	}
	if !strings.HasPrefix(got[1], "event: error") || !strings.Contains(got[1], "engine exploded") || !strings.Contains(got[1], threadID) {
		t.Errorf("error frame = %q", got[1])
	}
	if strings.Contains(w.Body.String(), "event: done") {
		t.Error("a failed stream must not emit done")
	}
}

func TestStreamQueryOptionsReachService(t *testing.T) {
	chat := &fakeChat{text: "answer"}
	router := newStreamRouter(t, chat, &fakeTitles{})
	agentID := uuid.New()

	w := getStream(t, router, url.Values{
		"threadId":        {uuid.New().String()},
		"content":         {"hi"},
		"provider":        {"google"},
		"model":           {"gemini-2.5-flash"},
		"tools":           {"web__search,web__fetch"},
		"approveAllTools": {"true"},
		"agentId":         {agentID.String()},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	p := chat.lastParams
	if p.Provider != "google" || p.Model != "gemini-2.5-flash" {
		t.Errorf("overrides = %q/%q", p.Provider, p.Model)
	}
	if len(p.Tools) != 2 || p.Tools[0] != "web__search" {
		t.Errorf("tools = %v", p.Tools)
	}
	if !p.AutoApprove {
		t.Error("approveAllTools not propagated")
	}
	if p.AgentID == nil || *p.AgentID != agentID {
		t.Errorf("agentId = %v", p.AgentID)
	}
}

func TestStreamResumeOnAllowTool(t *testing.T) {
	cases := []struct {
		decision string
		action   string
	}{
		{"allow", "continue"},
		{"deny", "update"},
	}
	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			chat := &fakeChat{}
			router := newStreamRouter(t, chat, &fakeTitles{})

			// The decision alone is a valid turn: it resumes an
			// interrupted run without new content.
			w := getStream(t, router, url.Values{
				"threadId":  {uuid.New().String()},
				"allowTool": {tc.decision},
			})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			resume := chat.lastParams.Resume
			if resume == nil {
				t.Fatal("expected a resume command")
			}
			if resume.Action != tc.action {
				t.Errorf("%s decision was sent as action %q, want %q", tc.decision, resume.Action, tc.action)
			}
			if len(resume.Data) != 0 {
				t.Errorf("resume data = %#v, want empty", resume.Data)
			}
		})
	}
}

func TestStreamNoTitleWhenNotGenerated(t *testing.T) {
	chat := &fakeChat{text: "answer"}
	router := newStreamRouter(t, chat, &fakeTitles{ok: false})

	w := getStream(t, router, url.Values{"threadId": {uuid.New().String()}, "content": {"hi"}})
	if strings.Contains(w.Body.String(), "title_generated") {
		t.Error("unexpected title frame")
	}
}

func TestStreamValidatesRequest(t *testing.T) {
	router := newStreamRouter(t, &fakeChat{}, &fakeTitles{})

	cases := []struct {
		name  string
		query url.Values
	}{
		{"missing thread", url.Values{"content": {"hi"}}},
		{"empty turn", url.Values{"threadId": {uuid.New().String()}}},
		{"bad agent id", url.Values{"threadId": {uuid.New().String()}, "content": {"hi"}, "agentId": {"nope"}}},
		{"bad document id", url.Values{"threadId": {uuid.New().String()}, "content": {"hi"}, "documentIds": {"nope"}}},
		{"unknown tool decision", url.Values{"threadId": {uuid.New().String()}, "allowTool": {"maybe"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := getStream(t, router, tc.query)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d", w.Code)
			}
		})
	}
}
