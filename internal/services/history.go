package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/normalization"
	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
)

// HistoryService replays a thread's persisted conversation from the engine's
// checkpoint store, normalized into the same event shapes the live stream
// uses, with human turns included.
type HistoryService interface {
	List(ctx context.Context, userID, threadID string) ([]normalization.StreamEvent, error)
}

type historyService struct {
	log      *logger.Logger
	threads  repos.ThreadRepo
	streamer graph.Streamer
}

func NewHistoryService(threads repos.ThreadRepo, streamer graph.Streamer, baseLog *logger.Logger) HistoryService {
	return &historyService{
		log:      baseLog.With("service", "HistoryService"),
		threads:  threads,
		streamer: streamer,
	}
}

func (s *historyService) List(ctx context.Context, userID, threadID string) ([]normalization.StreamEvent, error) {
	// Persisted threads are ownership-checked. Transient ids have no row to
	// check; their history is whatever the engine kept.
	if id, err := uuid.Parse(threadID); err == nil {
		thread, err := s.threads.GetByID(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		if thread != nil && thread.UserID != userID {
			return nil, ErrNotOwner
		}
	}

	messages, err := s.streamer.ThreadState(ctx, threadID)
	if err != nil {
		return nil, err
	}

	events := make([]normalization.StreamEvent, 0, len(messages))
	index := map[string]int{}
	for _, msg := range messages {
		var event normalization.StreamEvent
		switch normalization.Classify(msg) {
		case normalization.ClassAIMessage:
			built, ok := normalization.BuildAIEvent(msg)
			if !ok {
				continue
			}
			event = built
		case normalization.ClassToolMessage:
			event = normalization.BuildToolEvent(msg)
		case normalization.ClassHumanMessage:
			event = normalization.BuildHumanEvent(msg)
		default:
			continue
		}

		// Checkpoints occasionally hold the same message twice when a run
		// was resumed; keep the latest record in the original position.
		if id := event.MessageID(); id != "" {
			if at, seen := index[id]; seen {
				events[at] = event
				continue
			}
			index[id] = len(events)
		}
		events = append(events, event)
	}
	return events, nil
}
