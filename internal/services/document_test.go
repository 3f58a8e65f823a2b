package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/repos"
)

func newDocFixture(t *testing.T) DocumentService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewDocumentService(repos.NewDocumentRepo(gdb, log), log)
}

func TestUploadTextDocument(t *testing.T) {
	svc := newDocFixture(t)

	doc, err := svc.Upload(context.Background(), "user-1", "notes.txt", "text/plain", 11, strings.NewReader("hello notes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.FullTextContent != "hello notes" {
		t.Errorf("content = %q", doc.FullTextContent)
	}
	if doc.IsImage() {
		t.Error("text/plain must not be an image")
	}
}

func TestUploadPreviewKeepsRuneBoundary(t *testing.T) {
	svc := newDocFixture(t)

	// Multibyte text longer than the preview window: truncation must cut
	// on rune boundaries, not bytes.
	text := strings.Repeat("é", 600)
	doc, err := svc.Upload(context.Background(), "user-1", "notes.txt", "text/plain", int64(len(text)), strings.NewReader(text))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !utf8.ValidString(doc.ContentPreview) {
		t.Error("preview is not valid UTF-8")
	}
	if got := len([]rune(doc.ContentPreview)); got != 500 {
		t.Errorf("preview runes = %d, want 500", got)
	}
}

func TestUploadImageStoresDataURL(t *testing.T) {
	svc := newDocFixture(t)

	doc, err := svc.Upload(context.Background(), "user-1", "pic.png", "image/png", 4, strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(doc.FullTextContent, "data:image/png;base64,") {
		t.Errorf("content = %q", doc.FullTextContent)
	}
}

func TestBuildTurnContentPlainText(t *testing.T) {
	svc := newDocFixture(t)

	content, err := svc.BuildTurnContent(context.Background(), "user-1", "just text", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if content != "just text" {
		t.Errorf("content = %v", content)
	}
}

func TestBuildTurnContentWithTextAttachment(t *testing.T) {
	svc := newDocFixture(t)
	doc, err := svc.Upload(context.Background(), "user-1", "notes.txt", "text/plain", 5, strings.NewReader("facts"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	content, err := svc.BuildTurnContent(context.Background(), "user-1", "summarize this", []uuid.UUID{doc.ID})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	text, ok := content.(string)
	if !ok {
		t.Fatalf("expected string content, got %T", content)
	}
	if !strings.HasPrefix(text, "Attached Documents:") || !strings.Contains(text, "facts") || !strings.Contains(text, "summarize this") {
		t.Errorf("content = %q", text)
	}
}

func TestBuildTurnContentWithImageBecomesBlocks(t *testing.T) {
	svc := newDocFixture(t)
	doc, err := svc.Upload(context.Background(), "user-1", "pic.png", "image/png", 4, strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	content, err := svc.BuildTurnContent(context.Background(), "user-1", "what is this", []uuid.UUID{doc.ID})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	blocks, ok := content.([]map[string]any)
	if !ok {
		t.Fatalf("expected block list, got %T", content)
	}
	if len(blocks) != 2 || blocks[0]["type"] != "text" || blocks[1]["type"] != "image_url" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestBuildTurnContentRejectsForeignDocument(t *testing.T) {
	svc := newDocFixture(t)
	doc, err := svc.Upload(context.Background(), "someone-else", "notes.txt", "text/plain", 5, strings.NewReader("their"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.BuildTurnContent(context.Background(), "user-1", "hi", []uuid.UUID{doc.ID}); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
