package services

import (
	"context"
	"errors"
	"testing"

	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

func newMCPFixture(t *testing.T) MCPServerService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewMCPServerService(repos.NewMCPServerRepo(gdb, log), log)
}

func TestMCPServerValidation(t *testing.T) {
	svc := newMCPFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		server *types.MCPServer
	}{
		{"empty name", &types.MCPServer{Type: types.MCPServerTypeHTTP, URL: "https://x"}},
		{"reserved separator", &types.MCPServer{Name: "a__b", Type: types.MCPServerTypeHTTP, URL: "https://x"}},
		{"stdio without command", &types.MCPServer{Name: "local", Type: types.MCPServerTypeStdio}},
		{"http without url", &types.MCPServer{Name: "web", Type: types.MCPServerTypeHTTP, URL: "ftp://x"}},
		{"unknown type", &types.MCPServer{Name: "odd", Type: "websocket"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "user-1", "", "", tc.server); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestMCPServerDuplicateNameConflicts(t *testing.T) {
	svc := newMCPFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "", "", &types.MCPServer{
		Name: "web", Type: types.MCPServerTypeHTTP, URL: "https://one.example.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, "user-1", "", "", &types.MCPServer{
		Name: "web", Type: types.MCPServerTypeHTTP, URL: "https://two.example.com",
	})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// Same name under a different user is fine.
	if _, err := svc.Create(ctx, "user-2", "", "", &types.MCPServer{
		Name: "web", Type: types.MCPServerTypeHTTP, URL: "https://three.example.com",
	}); err != nil {
		t.Fatalf("create for other user: %v", err)
	}
}

func TestMCPServerCreatedDisabledStaysDisabled(t *testing.T) {
	svc := newMCPFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "", "", &types.MCPServer{
		Name: "paused", Type: types.MCPServerTypeHTTP, URL: "https://x.example.com", Enabled: false,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Enabled {
		t.Fatal("create returned an enabled server")
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Enabled {
		t.Errorf("persisted server enabled = %v, want disabled", list[0].Enabled)
	}
}
