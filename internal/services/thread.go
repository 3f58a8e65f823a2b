package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("not owner")
	ErrInvalid  = errors.New("invalid request")
)

const (
	// listThreadsLimit caps the sidebar listing; older threads stay
	// reachable by id.
	listThreadsLimit = 50

	// seedTitleMaxLen bounds the provisional title taken from the first
	// user message.
	seedTitleMaxLen = 100
)

type ThreadService interface {
	// Ensure makes sure the thread exists and belongs to the caller,
	// creating it with a provisional title on first contact. Transient ids
	// (anything that is not a UUID) are never persisted and come back nil.
	Ensure(ctx context.Context, rd *requestdata.RequestData, threadID, seedText string, agentID *uuid.UUID) (*types.Thread, error)
	// Create registers an empty thread up front so the client can navigate
	// to it before the first turn. A zero id gets a server-minted one.
	Create(ctx context.Context, rd *requestdata.RequestData, id uuid.UUID, agentID *uuid.UUID) (*types.Thread, error)
	List(ctx context.Context, userID string) ([]*types.Thread, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*types.Thread, error)
	Rename(ctx context.Context, userID string, id uuid.UUID, title string) (*types.Thread, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type threadService struct {
	log        *logger.Logger
	threadRepo repos.ThreadRepo
}

func NewThreadService(threadRepo repos.ThreadRepo, baseLog *logger.Logger) ThreadService {
	return &threadService{
		log:        baseLog.With("service", "ThreadService"),
		threadRepo: threadRepo,
	}
}

// SeedTitle derives the provisional title shown until summarization runs:
// the first user message truncated, or a placeholder when the turn starts
// with no text (resume, attachment-only).
func SeedTitle(seedText string) string {
	seedText = strings.TrimSpace(seedText)
	if seedText == "" {
		return types.TitlePlaceholders[0]
	}
	runes := []rune(seedText)
	if len(runes) > seedTitleMaxLen {
		return string(runes[:seedTitleMaxLen])
	}
	return seedText
}

func (s *threadService) Ensure(ctx context.Context, rd *requestdata.RequestData, threadID, seedText string, agentID *uuid.UUID) (*types.Thread, error) {
	id, err := uuid.Parse(threadID)
	if err != nil {
		// Transient conversation: the engine still checkpoints it under the
		// raw id, but nothing is stored on our side.
		s.log.Debug("Skipping persistence for transient thread", "thread_id", threadID)
		return nil, nil
	}

	existing, err := s.threadRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID != rd.UserID {
			return nil, ErrNotOwner
		}
		// Remember which agent drove the latest turn.
		if agentID != nil && (existing.AgentID == nil || *existing.AgentID != *agentID) {
			existing.AgentID = agentID
			if err := s.threadRepo.Update(ctx, nil, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	thread := &types.Thread{
		ID:        id,
		UserID:    rd.UserID,
		UserName:  rd.UserName,
		UserEmail: rd.UserEmail,
		Title:     SeedTitle(seedText),
		AgentID:   agentID,
	}
	created, err := s.threadRepo.Create(ctx, nil, thread)
	if err != nil {
		return nil, err
	}
	s.log.Info("Thread created", "thread_id", id, "user_id", rd.UserID)
	return created, nil
}

func (s *threadService) Create(ctx context.Context, rd *requestdata.RequestData, id uuid.UUID, agentID *uuid.UUID) (*types.Thread, error) {
	if id != uuid.Nil {
		existing, err := s.threadRepo.GetByID(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.UserID != rd.UserID {
				return nil, ErrNotOwner
			}
			return existing, nil
		}
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	thread := &types.Thread{
		ID:        id,
		UserID:    rd.UserID,
		UserName:  rd.UserName,
		UserEmail: rd.UserEmail,
		Title:     types.TitlePlaceholders[0],
		AgentID:   agentID,
	}
	created, err := s.threadRepo.Create(ctx, nil, thread)
	if err != nil {
		return nil, err
	}
	s.log.Info("Thread created", "thread_id", created.ID, "user_id", rd.UserID)
	return created, nil
}

func (s *threadService) List(ctx context.Context, userID string) ([]*types.Thread, error) {
	return s.threadRepo.ListByUser(ctx, nil, userID, listThreadsLimit)
}

func (s *threadService) Get(ctx context.Context, userID string, id uuid.UUID) (*types.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrNotFound
	}
	if thread.UserID != userID {
		return nil, ErrNotOwner
	}
	return thread, nil
}

func (s *threadService) Rename(ctx context.Context, userID string, id uuid.UUID, title string) (*types.Thread, error) {
	thread, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	thread.Title = title
	if err := s.threadRepo.Update(ctx, nil, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *threadService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	deleted, err := s.threadRepo.Delete(ctx, nil, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
