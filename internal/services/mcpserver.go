package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

var ErrNameTaken = errors.New("name already in use")

type MCPServerService interface {
	Create(ctx context.Context, userID, userName, userEmail string, server *types.MCPServer) (*types.MCPServer, error)
	List(ctx context.Context, userID string) ([]*types.MCPServer, error)
	Update(ctx context.Context, userID string, id uuid.UUID, updates *types.MCPServer) (*types.MCPServer, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type mcpServerService struct {
	log     *logger.Logger
	servers repos.MCPServerRepo
}

func NewMCPServerService(servers repos.MCPServerRepo, baseLog *logger.Logger) MCPServerService {
	return &mcpServerService{
		log:     baseLog.With("service", "MCPServerService"),
		servers: servers,
	}
}

// validateServer enforces the per-transport shape: stdio servers need a
// command to spawn, http servers need an endpoint. Names feed qualified tool
// names, so the separator is reserved.
func validateServer(server *types.MCPServer) error {
	if strings.TrimSpace(server.Name) == "" {
		return fmt.Errorf("%w: server name must not be empty", ErrInvalid)
	}
	if strings.Contains(server.Name, ToolNameSeparator) {
		return fmt.Errorf("%w: server name must not contain %q", ErrInvalid, ToolNameSeparator)
	}
	switch server.Type {
	case types.MCPServerTypeStdio:
		if strings.TrimSpace(server.Command) == "" {
			return fmt.Errorf("%w: stdio server requires a command", ErrInvalid)
		}
	case types.MCPServerTypeHTTP:
		if !strings.HasPrefix(server.URL, "http://") && !strings.HasPrefix(server.URL, "https://") {
			return fmt.Errorf("%w: http server requires an http(s) url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown server type %q", ErrInvalid, server.Type)
	}
	return nil
}

func (s *mcpServerService) nameTaken(ctx context.Context, userID, name string, exclude uuid.UUID) (bool, error) {
	existing, err := s.servers.ListByUser(ctx, nil, userID)
	if err != nil {
		return false, err
	}
	for _, other := range existing {
		if other.Name == name && other.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (s *mcpServerService) Create(ctx context.Context, userID, userName, userEmail string, server *types.MCPServer) (*types.MCPServer, error) {
	server.ID = uuid.Nil
	server.UserID = userID
	server.UserName = userName
	server.UserEmail = userEmail
	if err := validateServer(server); err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(ctx, userID, server.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}
	created, err := s.servers.Create(ctx, nil, server)
	if err != nil {
		return nil, err
	}
	s.log.Info("MCP server registered", "server_id", created.ID, "type", created.Type, "user_id", userID)
	return created, nil
}

func (s *mcpServerService) List(ctx context.Context, userID string) ([]*types.MCPServer, error) {
	return s.servers.ListByUser(ctx, nil, userID)
}

func (s *mcpServerService) Update(ctx context.Context, userID string, id uuid.UUID, updates *types.MCPServer) (*types.MCPServer, error) {
	server, err := s.servers.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, ErrNotFound
	}
	if server.UserID != userID {
		return nil, ErrNotOwner
	}
	server.Name = updates.Name
	server.Type = updates.Type
	server.Enabled = updates.Enabled
	server.Command = updates.Command
	server.Args = updates.Args
	server.Env = updates.Env
	server.URL = updates.URL
	server.Headers = updates.Headers
	if err := validateServer(server); err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(ctx, userID, server.Name, server.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNameTaken
	}
	if err := s.servers.Update(ctx, nil, server); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *mcpServerService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	deleted, err := s.servers.Delete(ctx, nil, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
