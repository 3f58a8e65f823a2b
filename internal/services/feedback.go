package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

type FeedbackService interface {
	// Submit records a judgement, replacing any earlier one the user left on
	// the same message.
	Submit(ctx context.Context, userID, messageID, threadID, feedback string) (*types.MessageFeedback, error)
	// MapByThread returns the caller's judgements keyed by message id, the
	// shape the client merges into its rendered transcript.
	MapByThread(ctx context.Context, userID, threadID string) (map[string]string, error)
}

type feedbackService struct {
	log      *logger.Logger
	feedback repos.MessageFeedbackRepo
}

func NewFeedbackService(feedback repos.MessageFeedbackRepo, baseLog *logger.Logger) FeedbackService {
	return &feedbackService{
		log:      baseLog.With("service", "FeedbackService"),
		feedback: feedback,
	}
}

func (s *feedbackService) Submit(ctx context.Context, userID, messageID, threadID, feedback string) (*types.MessageFeedback, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, fmt.Errorf("%w: messageId must not be empty", ErrInvalid)
	}
	if feedback != types.FeedbackLike && feedback != types.FeedbackDislike {
		return nil, fmt.Errorf("%w: feedback must be like or dislike", ErrInvalid)
	}
	return s.feedback.Upsert(ctx, nil, &types.MessageFeedback{
		MessageID: messageID,
		ThreadID:  threadID,
		UserID:    userID,
		Feedback:  feedback,
	})
}

func (s *feedbackService) MapByThread(ctx context.Context, userID, threadID string) (map[string]string, error) {
	list, err := s.feedback.ListByThread(ctx, nil, threadID, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, fb := range list {
		out[fb.MessageID] = fb.Feedback
	}
	return out, nil
}
