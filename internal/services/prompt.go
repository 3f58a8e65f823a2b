package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

type PromptService interface {
	Create(ctx context.Context, userID string, prompt *types.Prompt) (*types.Prompt, error)
	List(ctx context.Context, userID string) ([]*types.Prompt, error)
	Update(ctx context.Context, userID string, id uuid.UUID, updates *types.Prompt) (*types.Prompt, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type promptService struct {
	log     *logger.Logger
	prompts repos.PromptRepo
}

func NewPromptService(prompts repos.PromptRepo, baseLog *logger.Logger) PromptService {
	return &promptService{
		log:     baseLog.With("service", "PromptService"),
		prompts: prompts,
	}
}

func validatePrompt(prompt *types.Prompt) error {
	if strings.TrimSpace(prompt.Name) == "" {
		return fmt.Errorf("%w: prompt name must not be empty", ErrInvalid)
	}
	if strings.TrimSpace(prompt.Content) == "" {
		return fmt.Errorf("%w: prompt content must not be empty", ErrInvalid)
	}
	return nil
}

func (s *promptService) Create(ctx context.Context, userID string, prompt *types.Prompt) (*types.Prompt, error) {
	prompt.ID = uuid.Nil
	prompt.UserID = userID
	if err := validatePrompt(prompt); err != nil {
		return nil, err
	}
	return s.prompts.Create(ctx, nil, prompt)
}

func (s *promptService) List(ctx context.Context, userID string) ([]*types.Prompt, error) {
	return s.prompts.ListByUser(ctx, nil, userID)
}

func (s *promptService) Update(ctx context.Context, userID string, id uuid.UUID, updates *types.Prompt) (*types.Prompt, error) {
	prompt, err := s.prompts.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrNotFound
	}
	if prompt.UserID != userID {
		return nil, ErrNotOwner
	}
	prompt.Name = updates.Name
	prompt.Content = updates.Content
	if err := validatePrompt(prompt); err != nil {
		return nil, err
	}
	if err := s.prompts.Update(ctx, nil, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *promptService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	deleted, err := s.prompts.Delete(ctx, nil, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
