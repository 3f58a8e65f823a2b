package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// Writer frames one streaming response as server-sent events. It is safe
// for the close path and the write path to race: writes after Close are
// no-ops and Close itself is idempotent.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return &Writer{w: w, flusher: flusher}, nil
}

// Comment writes an SSE comment frame. Used once up front (": connected")
// to establish the channel before any data arrives.
func (wr *Writer) Comment(text string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.closed {
		return
	}
	fmt.Fprintf(wr.w, ": %s\n\n", text)
	wr.flusher.Flush()
}

// Data writes an unnamed event with a JSON body.
func (wr *Writer) Data(v any) error {
	return wr.write("", v)
}

// Event writes a named event with a JSON body.
func (wr *Writer) Event(name string, v any) error {
	return wr.write(name, v)
}

func (wr *Writer) write(event string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.closed {
		return nil
	}
	if event != "" {
		fmt.Fprintf(wr.w, "event: %s\n", event)
	}
	fmt.Fprintf(wr.w, "data: %s\n\n", raw)
	wr.flusher.Flush()
	return nil
}

// Close marks the writer closed. The channel must be closed exactly once on
// every exit path; repeated calls are no-ops.
func (wr *Writer) Close() {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.closed = true
}
