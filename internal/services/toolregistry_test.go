package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/datatypes"

	"github.com/geniehq/genie-backend/internal/platform/mcp"
	"github.com/geniehq/genie-backend/internal/repos"
	"github.com/geniehq/genie-backend/internal/types"
)

func newToolServer(t *testing.T, tools []map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method != "tools/list" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]any{"tools": tools},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRegistryFixture(t *testing.T) (ToolRegistryService, repos.MCPServerRepo) {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	repo := repos.NewMCPServerRepo(gdb, log)
	return NewToolRegistryService(repo, mcp.NewClient(log), log), repo
}

func registerHTTPServer(t *testing.T, repo repos.MCPServerRepo, name, url string) {
	t.Helper()
	if _, err := repo.Create(context.Background(), nil, &types.MCPServer{
		UserID: "user-1", Name: name, Type: types.MCPServerTypeHTTP, Enabled: true, URL: url,
	}); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}

func TestDefinitionsQualifiesToolNames(t *testing.T) {
	srv := newToolServer(t, []map[string]any{
		{"name": "search", "description": "web search"},
		{"name": "fetch"},
	})
	registry, repo := newRegistryFixture(t)
	registerHTTPServer(t, repo, "web", srv.URL)

	defs, err := registry.Definitions(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("defs = %+v", defs)
	}
	names := map[string]bool{}
	for _, d := range defs {
		names[d.Name] = true
	}
	if !names["web__search"] || !names["web__fetch"] {
		t.Errorf("expected qualified names, got %v", names)
	}
}

func TestDefinitionsFiltersByAllowList(t *testing.T) {
	srv := newToolServer(t, []map[string]any{
		{"name": "search"},
		{"name": "fetch"},
	})
	registry, repo := newRegistryFixture(t)
	registerHTTPServer(t, repo, "web", srv.URL)

	defs, err := registry.Definitions(context.Background(), "user-1", []string{"web__search"})
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "web__search" {
		t.Errorf("defs = %+v", defs)
	}
}

func TestDefinitionsSkipsDisabledAndUnreachable(t *testing.T) {
	srv := newToolServer(t, []map[string]any{{"name": "ok"}})
	registry, repo := newRegistryFixture(t)
	registerHTTPServer(t, repo, "alive", srv.URL)

	if _, err := repo.Create(context.Background(), nil, &types.MCPServer{
		UserID: "user-1", Name: "disabled", Type: types.MCPServerTypeHTTP, Enabled: false, URL: srv.URL,
	}); err != nil {
		t.Fatalf("create disabled: %v", err)
	}
	registerHTTPServer(t, repo, "dead", "http://127.0.0.1:1")

	defs, err := registry.Definitions(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "alive__ok" {
		t.Errorf("defs = %+v", defs)
	}
}

func TestDefinitionsPassesStdioServerThrough(t *testing.T) {
	registry, repo := newRegistryFixture(t)
	args, _ := json.Marshal([]string{"run", "server"})
	if _, err := repo.Create(context.Background(), nil, &types.MCPServer{
		UserID:  "user-1",
		Name:    "local",
		Type:    types.MCPServerTypeStdio,
		Enabled: true,
		Command: "npx",
		Args:    datatypes.JSON(args),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	defs, err := registry.Definitions(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("defs = %+v", defs)
	}
	d := defs[0]
	if d.Transport != types.MCPServerTypeStdio || d.Command != "npx" || len(d.Args) != 2 {
		t.Errorf("stdio def = %+v", d)
	}
}

func TestServerAllowedPrefixMatch(t *testing.T) {
	cases := []struct {
		allow  []string
		server string
		want   bool
	}{
		{nil, "web", true},
		{[]string{"web__search"}, "web", true},
		{[]string{"web__search"}, "files", false},
		{[]string{"files__read", "web__fetch"}, "web", true},
	}
	for _, tc := range cases {
		if got := serverAllowed(tc.allow, tc.server); got != tc.want {
			t.Errorf("serverAllowed(%v, %q) = %v", tc.allow, tc.server, got)
		}
	}
}
