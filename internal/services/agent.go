package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/graph"
	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

// maxSubAgentDepth bounds supervisor nesting when resolving engine specs.
const maxSubAgentDepth = 5

var ErrSubAgentCycle = errors.New("sub-agent graph contains a cycle")

type AgentService interface {
	Create(ctx context.Context, userID, userName, userEmail string, agent *types.Agent) (*types.Agent, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*types.Agent, error)
	List(ctx context.Context, userID string) ([]*types.Agent, error)
	Update(ctx context.Context, userID string, id uuid.UUID, updates *types.Agent) (*types.Agent, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	// ResolveSpec builds the engine-side agent spec for a turn, expanding
	// sub-agents recursively and attaching resolved tool definitions.
	// A nil agentID yields the default assistant. Precedence is request
	// overrides, then the stored agent, then defaults. The returned int is
	// the effective recursion limit.
	ResolveSpec(ctx context.Context, userID string, agentID *uuid.UUID, ov SpecOverrides) (graph.AgentSpec, int, error)
}

// SpecOverrides are per-turn knobs from the stream request. Zero values
// mean "no override".
type SpecOverrides struct {
	Provider    string
	Model       string
	Tools       []string
	AutoApprove bool
}

type agentService struct {
	log             *logger.Logger
	agentRepo       repos.AgentRepo
	registry        ToolRegistryService
	defaultProvider string
	defaultModel    string
}

func NewAgentService(agentRepo repos.AgentRepo, registry ToolRegistryService, defaultProvider, defaultModel string, baseLog *logger.Logger) AgentService {
	return &agentService{
		log:             baseLog.With("service", "AgentService"),
		agentRepo:       agentRepo,
		registry:        registry,
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
}

func (s *agentService) validate(ctx context.Context, userID string, agent *types.Agent) error {
	if strings.TrimSpace(agent.Name) == "" {
		return fmt.Errorf("%w: agent name must not be empty", ErrInvalid)
	}
	if strings.TrimSpace(agent.ModelName) == "" || strings.TrimSpace(agent.Provider) == "" {
		return fmt.Errorf("%w: agent model and provider must be set", ErrInvalid)
	}
	if agent.RecursionLimit <= 0 {
		agent.RecursionLimit = types.DefaultRecursionLimit
	}
	return s.checkSubAgents(ctx, userID, agent)
}

// checkSubAgents verifies every referenced sub-agent exists, belongs to the
// caller, and that following the references never loops back.
func (s *agentService) checkSubAgents(ctx context.Context, userID string, agent *types.Agent) error {
	if len(agent.SubAgentIDs) == 0 {
		return nil
	}

	seen := map[uuid.UUID]bool{}
	if agent.ID != uuid.Nil {
		seen[agent.ID] = true
	}

	var walk func(ids []string, depth int) error
	walk = func(ids []string, depth int) error {
		if depth > maxSubAgentDepth {
			return fmt.Errorf("sub-agent nesting exceeds depth %d", maxSubAgentDepth)
		}
		for _, raw := range ids {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid sub-agent id %q", raw)
			}
			if seen[id] {
				return ErrSubAgentCycle
			}
			sub, err := s.agentRepo.GetByID(ctx, nil, id)
			if err != nil {
				return err
			}
			if sub == nil || sub.UserID != userID {
				return fmt.Errorf("sub-agent %s not found", id)
			}
			seen[id] = true
			if err := walk(sub.SubAgentIDs, depth+1); err != nil {
				return err
			}
			delete(seen, id)
		}
		return nil
	}
	return walk(agent.SubAgentIDs, 1)
}

func (s *agentService) Create(ctx context.Context, userID, userName, userEmail string, agent *types.Agent) (*types.Agent, error) {
	agent.ID = uuid.Nil
	agent.UserID = userID
	agent.UserName = userName
	agent.UserEmail = userEmail
	if err := s.validate(ctx, userID, agent); err != nil {
		return nil, err
	}
	created, err := s.agentRepo.Create(ctx, nil, agent)
	if err != nil {
		return nil, err
	}
	s.log.Info("Agent created", "agent_id", created.ID, "user_id", userID)
	return created, nil
}

func (s *agentService) Get(ctx context.Context, userID string, id uuid.UUID) (*types.Agent, error) {
	agent, err := s.agentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrNotFound
	}
	if agent.UserID != userID {
		return nil, ErrNotOwner
	}
	return agent, nil
}

func (s *agentService) List(ctx context.Context, userID string) ([]*types.Agent, error) {
	return s.agentRepo.ListByUser(ctx, nil, userID)
}

func (s *agentService) Update(ctx context.Context, userID string, id uuid.UUID, updates *types.Agent) (*types.Agent, error) {
	agent, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	agent.Name = updates.Name
	agent.Description = updates.Description
	agent.SystemPrompt = updates.SystemPrompt
	agent.ModelName = updates.ModelName
	agent.Provider = updates.Provider
	agent.Tools = updates.Tools
	agent.SubAgentIDs = updates.SubAgentIDs
	agent.RecursionLimit = updates.RecursionLimit
	if err := s.validate(ctx, userID, agent); err != nil {
		return nil, err
	}
	if err := s.agentRepo.Update(ctx, nil, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

func (s *agentService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	deleted, err := s.agentRepo.Delete(ctx, nil, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *agentService) ResolveSpec(ctx context.Context, userID string, agentID *uuid.UUID, ov SpecOverrides) (graph.AgentSpec, int, error) {
	var spec graph.AgentSpec
	limit := types.DefaultRecursionLimit

	if agentID == nil {
		// Default assistant: no custom prompt, every enabled tool unless
		// the request narrows the allow-list.
		tools, err := s.registry.Definitions(ctx, userID, ov.Tools)
		if err != nil {
			return graph.AgentSpec{}, 0, err
		}
		spec = graph.AgentSpec{
			Provider: s.defaultProvider,
			Model:    s.defaultModel,
			Tools:    tools,
		}
	} else {
		agent, err := s.Get(ctx, userID, *agentID)
		if err != nil {
			return graph.AgentSpec{}, 0, err
		}
		spec, err = s.buildSpec(ctx, userID, agent, 0)
		if err != nil {
			return graph.AgentSpec{}, 0, err
		}
		if agent.RecursionLimit > 0 {
			limit = agent.RecursionLimit
		}
		// A request-level allow-list narrows the root agent only.
		if len(ov.Tools) > 0 {
			tools, err := s.registry.Definitions(ctx, userID, ov.Tools)
			if err != nil {
				return graph.AgentSpec{}, 0, err
			}
			spec.Tools = tools
		}
	}

	if ov.Provider != "" {
		spec.Provider = ov.Provider
	}
	if ov.Model != "" {
		spec.Model = ov.Model
	}
	spec.AutoApprove = ov.AutoApprove
	return spec, limit, nil
}

func (s *agentService) buildSpec(ctx context.Context, userID string, agent *types.Agent, depth int) (graph.AgentSpec, error) {
	if depth > maxSubAgentDepth {
		return graph.AgentSpec{}, fmt.Errorf("sub-agent nesting exceeds depth %d", maxSubAgentDepth)
	}

	tools, err := s.registry.Definitions(ctx, userID, agent.Tools)
	if err != nil {
		return graph.AgentSpec{}, err
	}

	spec := graph.AgentSpec{
		Name:         agent.Name,
		SystemPrompt: agent.SystemPrompt,
		Provider:     agent.Provider,
		Model:        agent.ModelName,
		Tools:        tools,
	}

	for _, raw := range agent.SubAgentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return graph.AgentSpec{}, fmt.Errorf("invalid sub-agent id %q", raw)
		}
		sub, err := s.agentRepo.GetByID(ctx, nil, id)
		if err != nil {
			return graph.AgentSpec{}, err
		}
		if sub == nil || sub.UserID != userID {
			return graph.AgentSpec{}, fmt.Errorf("sub-agent %s not found", id)
		}
		subSpec, err := s.buildSpec(ctx, userID, sub, depth+1)
		if err != nil {
			return graph.AgentSpec{}, err
		}
		spec.SubAgents = append(spec.SubAgents, subSpec)
	}
	return spec, nil
}
