package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/geniehq/genie-backend/internal/platform/mcp"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

func newAgentFixture(t *testing.T) (AgentService, repos.AgentRepo) {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	repo := repos.NewAgentRepo(gdb, log)
	registry := NewToolRegistryService(repos.NewMCPServerRepo(gdb, log), mcp.NewClient(log), log)
	return NewAgentService(repo, registry, "azure-openai", "gpt-4o", log), repo
}

func testAgent(name string, subIDs ...string) *types.Agent {
	return &types.Agent{
		Name:         name,
		SystemPrompt: "You are helpful.",
		ModelName:    "gpt-4o",
		Provider:     "azure-openai",
		SubAgentIDs:  datatypes.JSONSlice[string](subIDs),
	}
}

func TestAgentCreateDefaultsRecursionLimit(t *testing.T) {
	svc, _ := newAgentFixture(t)

	created, err := svc.Create(context.Background(), "user-1", "Test User", "user@example.com", testAgent("researcher"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RecursionLimit != types.DefaultRecursionLimit {
		t.Errorf("recursion limit = %d", created.RecursionLimit)
	}
}

func TestAgentUpdateRejectsCycle(t *testing.T) {
	svc, repo := newAgentFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "user-1", "", "", testAgent("a"))
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := svc.Create(ctx, "user-1", "", "", testAgent("b", a.ID.String()))
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	// a -> b while b -> a closes the loop.
	update := testAgent("a", b.ID.String())
	if _, err := svc.Update(ctx, "user-1", a.ID, update); !errors.Is(err, ErrSubAgentCycle) {
		t.Fatalf("expected ErrSubAgentCycle, got %v", err)
	}

	// The stored row must be untouched.
	stored, err := repo.GetByID(ctx, nil, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.SubAgentIDs) != 0 {
		t.Errorf("cycle write leaked: %v", stored.SubAgentIDs)
	}
}

func TestAgentRejectsSelfReference(t *testing.T) {
	svc, _ := newAgentFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "user-1", "", "", testAgent("solo"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, "user-1", a.ID, testAgent("solo", a.ID.String())); !errors.Is(err, ErrSubAgentCycle) {
		t.Fatalf("expected ErrSubAgentCycle, got %v", err)
	}
}

func TestAgentRejectsForeignSubAgent(t *testing.T) {
	svc, _ := newAgentFixture(t)
	ctx := context.Background()

	other, err := svc.Create(ctx, "user-2", "", "", testAgent("theirs"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", "", "", testAgent("mine", other.ID.String())); err == nil {
		t.Fatal("expected rejection of a sub-agent owned by another user")
	}
}

func TestResolveSpecExpandsSubAgents(t *testing.T) {
	svc, _ := newAgentFixture(t)
	ctx := context.Background()

	child, err := svc.Create(ctx, "user-1", "", "", testAgent("child"))
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	parent := testAgent("supervisor", child.ID.String())
	parent.RecursionLimit = 40
	created, err := svc.Create(ctx, "user-1", "", "", parent)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	spec, limit, err := svc.ResolveSpec(ctx, "user-1", &created.ID, SpecOverrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if limit != 40 {
		t.Errorf("limit = %d", limit)
	}
	if len(spec.SubAgents) != 1 || spec.SubAgents[0].Name != "child" {
		t.Errorf("sub agents = %+v", spec.SubAgents)
	}
}

func TestResolveSpecRequestOverrides(t *testing.T) {
	svc, _ := newAgentFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "", "", testAgent("base"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	spec, _, err := svc.ResolveSpec(ctx, "user-1", &created.ID, SpecOverrides{
		Provider:    "google",
		Model:       "gemini-2.5-flash",
		AutoApprove: true,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.Provider != "google" || spec.Model != "gemini-2.5-flash" {
		t.Errorf("overrides not applied: %+v", spec)
	}
	if !spec.AutoApprove {
		t.Error("auto-approve not applied")
	}
}

func TestResolveSpecDefaultAgent(t *testing.T) {
	svc, _ := newAgentFixture(t)

	spec, limit, err := svc.ResolveSpec(context.Background(), "user-1", nil, SpecOverrides{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if spec.Provider != "azure-openai" || spec.Model != "gpt-4o" {
		t.Errorf("default spec = %+v", spec)
	}
	if limit != types.DefaultRecursionLimit {
		t.Errorf("limit = %d", limit)
	}
}
