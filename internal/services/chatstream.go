package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/normalization"
	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/platform/requestdata"
	"github.com/geniehq/genie-backend/internal/types"
)

// StreamParams is one turn request. Exactly one of Text/Resume drives the
// run: Resume continues a run paused on a tool-approval interrupt.
// Provider/Model/Tools override the agent configuration for this turn only.
type StreamParams struct {
	ThreadID    string
	Text        string
	DocumentIDs []uuid.UUID
	AgentID     *uuid.UUID
	Provider    string
	Model       string
	Tools       []string
	AutoApprove bool
	Resume      *graph.ResumeCommand
}

// ChatStreamService runs one conversational turn end to end: thread
// bookkeeping, input assembly, engine execution and normalization. Emit is
// called once per normalized event in engine order; a non-nil return aborts
// the run. The accumulated AI text of the turn is returned for title
// generation.
type ChatStreamService interface {
	StreamTurn(ctx context.Context, rd *requestdata.RequestData, params StreamParams, emit func(normalization.StreamEvent) error) (*types.Thread, string, error)
}

type chatStreamService struct {
	log      *logger.Logger
	threads  ThreadService
	agents   AgentService
	docs     DocumentService
	streamer graph.Streamer
}

func NewChatStreamService(threads ThreadService, agents AgentService, docs DocumentService, streamer graph.Streamer, baseLog *logger.Logger) ChatStreamService {
	return &chatStreamService{
		log:      baseLog.With("service", "ChatStreamService"),
		threads:  threads,
		agents:   agents,
		docs:     docs,
		streamer: streamer,
	}
}

func (s *chatStreamService) StreamTurn(ctx context.Context, rd *requestdata.RequestData, params StreamParams, emit func(normalization.StreamEvent) error) (*types.Thread, string, error) {
	thread, err := s.threads.Ensure(ctx, rd, params.ThreadID, params.Text, params.AgentID)
	if err != nil {
		return nil, "", err
	}

	spec, recursionLimit, err := s.agents.ResolveSpec(ctx, rd.UserID, params.AgentID, SpecOverrides{
		Provider:    params.Provider,
		Model:       params.Model,
		Tools:       params.Tools,
		AutoApprove: params.AutoApprove,
	})
	if err != nil {
		return thread, "", err
	}

	req := graph.RunRequest{
		ThreadID:       params.ThreadID,
		Agent:          spec,
		StreamMode:     []string{"updates"},
		RecursionLimit: recursionLimit,
	}

	if params.Resume != nil {
		req.Resume = params.Resume
	} else {
		content, err := s.docs.BuildTurnContent(ctx, rd.UserID, params.Text, params.DocumentIDs)
		if err != nil {
			return thread, "", err
		}
		req.Input = []graph.InputMessage{{Role: "user", Content: content}}
	}

	var aiText strings.Builder
	err = s.streamer.StreamRun(ctx, req, func(chunk graph.RawChunk) error {
		for _, event := range normalization.NormalizeChunk(chunk) {
			if event.AI != nil {
				aiText.WriteString(event.AI.Content)
			}
			if err := emit(event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return thread, aiText.String(), err
	}

	s.log.Debug("Turn completed", "thread_id", params.ThreadID, "user_id", rd.UserID)
	return thread, aiText.String(), nil
}
