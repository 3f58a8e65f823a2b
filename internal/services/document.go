package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

const (
	// maxDocumentBytes bounds uploads; content is stored inline.
	maxDocumentBytes = 10 << 20

	documentPreviewLen = 500
)

type DocumentService interface {
	// Upload ingests one file. Images are stored as data URLs; everything
	// else is treated as text.
	Upload(ctx context.Context, userID, name, contentType string, size int64, r io.Reader) (*types.Document, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*types.Document, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// BuildTurnContent assembles the user message content for a turn. With
	// no attachments it is the plain text string; with attachments it
	// becomes a multimodal block list with document context prepended.
	BuildTurnContent(ctx context.Context, userID, text string, documentIDs []uuid.UUID) (any, error)
}

type documentService struct {
	log  *logger.Logger
	docs repos.DocumentRepo
}

func NewDocumentService(docs repos.DocumentRepo, baseLog *logger.Logger) DocumentService {
	return &documentService{
		log:  baseLog.With("service", "DocumentService"),
		docs: docs,
	}
}

func (s *documentService) Upload(ctx context.Context, userID, name, contentType string, size int64, r io.Reader) (*types.Document, error) {
	if size > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalid, maxDocumentBytes)
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxDocumentBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrInvalid, maxDocumentBytes)
	}

	doc := &types.Document{
		UserID:      userID,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(raw)),
		Status:      types.DocumentStatusReady,
	}

	if strings.HasPrefix(contentType, "image/") {
		doc.FullTextContent = fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(raw))
		doc.ContentPreview = fmt.Sprintf("[image: %s]", name)
	} else {
		text := string(raw)
		doc.FullTextContent = text
		if runes := []rune(text); len(runes) > documentPreviewLen {
			text = string(runes[:documentPreviewLen])
		}
		doc.ContentPreview = text
	}

	created, err := s.docs.Create(ctx, nil, doc)
	if err != nil {
		return nil, err
	}
	s.log.Info("Document uploaded", "document_id", created.ID, "user_id", userID, "size", created.Size)
	return created, nil
}

func (s *documentService) Get(ctx context.Context, userID string, id uuid.UUID) (*types.Document, error) {
	doc, err := s.docs.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if doc.UserID != userID {
		return nil, ErrNotOwner
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	deleted, err := s.docs.Delete(ctx, nil, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *documentService) BuildTurnContent(ctx context.Context, userID, text string, documentIDs []uuid.UUID) (any, error) {
	if len(documentIDs) == 0 {
		return text, nil
	}

	docs, err := s.docs.GetByIDs(ctx, nil, documentIDs)
	if err != nil {
		return nil, err
	}

	var contextParts []string
	var imageBlocks []map[string]any
	for _, doc := range docs {
		if doc.UserID != userID {
			return nil, ErrNotOwner
		}
		if doc.IsImage() {
			imageBlocks = append(imageBlocks, map[string]any{
				"type":      "image_url",
				"image_url": map[string]any{"url": doc.FullTextContent},
			})
			continue
		}
		contextParts = append(contextParts, fmt.Sprintf("Document: %s\n%s", doc.Name, doc.FullTextContent))
	}

	body := text
	if len(contextParts) > 0 {
		body = fmt.Sprintf("Attached Documents:\n%s\n\n%s", strings.Join(contextParts, "\n\n"), text)
	}

	if len(imageBlocks) == 0 {
		return body, nil
	}
	blocks := []map[string]any{{"type": "text", "text": body}}
	blocks = append(blocks, imageBlocks...)
	return blocks, nil
}
