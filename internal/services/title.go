package services

import (
	"context"
	"strings"
	"time"

	"github.com/geniehq/genie-backend/internal/platform/llm"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

const (
	titleTemperature  = 0.5
	titleSourceMaxLen = 1000
	titleTimeout      = 30 * time.Second
	titleSystemPrompt = "You generate short, descriptive conversation titles."
	titleInstruction  = "Summarize the following exchange as a thread title of 3 to 6 words. Respond with the title only, no quotes, no trailing punctuation."

	// TitleNotifyEvent is the bus event other tabs and instances subscribe
	// to; the live stream frames the title itself.
	TitleNotifyEvent = "thread_title_updated"
)

// titleModelFactory lets tests substitute a fake chat model.
type titleModelFactory func(provider, model string, temperature float64) (llm.Client, error)

type TitleService interface {
	// MaybeGenerate summarizes the first exchange into a real title when the
	// thread still carries a placeholder. It is called after the stream has
	// ended and must never fail the turn: errors are logged and swallowed.
	// The generated title is returned so the live stream can frame it;
	// connected clients elsewhere hear about it through the notifier.
	MaybeGenerate(ctx context.Context, thread *types.Thread, userText, aiText string) (string, bool)
}

type titleService struct {
	log      *logger.Logger
	threads  repos.ThreadRepo
	notifier Notifier
	provider string
	model    string
	newModel titleModelFactory
}

func NewTitleService(threads repos.ThreadRepo, notifier Notifier, provider, model string, baseLog *logger.Logger) TitleService {
	log := baseLog.With("service", "TitleService")
	return &titleService{
		log:      log,
		threads:  threads,
		notifier: notifier,
		provider: provider,
		model:    model,
		newModel: func(provider, model string, temperature float64) (llm.Client, error) {
			return llm.New(log, provider, model, temperature)
		},
	}
}

func (s *titleService) MaybeGenerate(ctx context.Context, thread *types.Thread, userText, aiText string) (string, bool) {
	if thread == nil || !thread.HasPlaceholderTitle() {
		return "", false
	}
	aiText = strings.TrimSpace(aiText)
	if aiText == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	model, err := s.newModel(s.provider, s.model, titleTemperature)
	if err != nil {
		s.log.Warn("Title model unavailable", "error", err)
		return "", false
	}

	title, err := model.GenerateText(ctx, titleSystemPrompt, titlePrompt(userText, aiText))
	if err != nil {
		s.log.Warn("Title generation failed", "thread_id", thread.ID, "error", err)
		return "", false
	}
	title = cleanTitle(title)
	if title == "" {
		return "", false
	}

	thread.Title = title
	if err := s.threads.Update(ctx, nil, thread); err != nil {
		s.log.Error("Failed to persist generated title", "thread_id", thread.ID, "error", err)
		return "", false
	}
	s.log.Info("Thread title generated", "thread_id", thread.ID)

	s.notifier.Notify(ctx, thread.UserID, TitleNotifyEvent, map[string]any{
		"threadId": thread.ID.String(),
		"title":    title,
	})
	return title, true
}

// titlePrompt pairs the question with the opening of the answer, capped so
// long replies do not blow up the side call.
func titlePrompt(userText, aiText string) string {
	runes := []rune(aiText)
	if len(runes) > titleSourceMaxLen {
		aiText = string(runes[:titleSourceMaxLen])
	}
	var b strings.Builder
	b.WriteString(titleInstruction)
	b.WriteString("\n\n")
	if strings.TrimSpace(userText) != "" {
		b.WriteString("User: ")
		b.WriteString(userText)
		b.WriteString("\n")
	}
	b.WriteString("Assistant: ")
	b.WriteString(aiText)
	return b.String()
}

// cleanTitle strips the quote wrapping models habitually add.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
