package inspect

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/apimap"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/transport"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testIdentities() identity.Map {
	b := identity.NewBuilder()
	b.Add("101", identity.Generate("101", 0))
	return b.Map()
}

func testURLs() apimap.Map {
	action := "getPatrols"
	return apimap.Map{Entries: []apimap.Entry{{
		OriginalFile: "getPatrols.txt",
		MockDataFile: "patrols.json",
		FullURL:      "https://osm.example/ext/members/patrols/?action=getPatrols",
		Path:         "/ext/members/patrols/",
		Method:       "GET",
		Action:       &action,
		QueryParams:  map[string][]string{"action": {"getPatrols"}},
	}}}
}

// setupTools registers the tools on a fresh upstream and returns a connected
// client session.
func setupTools(t *testing.T, ctx context.Context, st store.Store) *mcp.ClientSession {
	t.Helper()

	upstream := transport.NewUpstream(config.ServeConfig{Transport: config.TransportStdio}, testLogger())
	if n := NewTools(testIdentities(), testURLs(), st, testLogger()).Register(upstream.Server); n != 4 {
		t.Fatalf("registered %d tools, want 4", n)
	}

	srvTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = upstream.Server.Run(ctx, srvTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callText(t *testing.T, ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *TextContent, got %T", result.Content[0])
	}
	return tc.Text, result.IsError
}

func TestTools_Listed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := setupTools(t, ctx, nil)

	names := map[string]bool{}
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			t.Fatalf("listing tools: %v", err)
		}
		names[tool.Name] = true
	}
	for _, want := range []string{ToolSanitizeDocument, ToolLookupPseudonym, ToolLookupFixture, ToolListFixtures} {
		if !names[want] {
			t.Errorf("tool %s not listed", want)
		}
	}
}

func TestSanitizeDocument(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := setupTools(t, ctx, nil)

	tests := []struct {
		name     string
		args     map[string]any
		want     string
		wantErr  bool
		contains string
	}{
		{
			name: "relational",
			args: map[string]any{
				"content":  "GET https://osm.example/ext/?action=getPatrols\n{\"scoutid\": \"101\", \"first_name\": \"RealName\", \"col_notes\": \"a very long clinical note exceeding limit\"}",
				"strategy": "relational",
			},
			want: "{\n  \"col_notes\": null,\n  \"first_name\": \"Olivia\",\n  \"scoutid\": \"101\"\n}\n",
		},
		{
			name: "blind literal",
			args: map[string]any{"content": "{'firstname': 'RealAdmin'}", "strategy": "BLIND"},
			want: "{\n  \"firstname\": \"Admin\"\n}\n",
		},
		{
			name: "ignored",
			args: map[string]any{"content": "[1, 2]", "strategy": "ignored"},
			want: "[]\n",
		},
		{
			name: "byte order mark",
			args: map[string]any{"content": "\ufeff{'firstname': 'Kept'}", "strategy": "passthrough"},
			want: "{\n  \"firstname\": \"Kept\"\n}\n",
		},
		{
			name:     "unparsable",
			args:     map[string]any{"content": "garbage", "strategy": "passthrough"},
			wantErr:  true,
			contains: "no structured payload",
		},
		{
			name:    "master rejected",
			args:    map[string]any{"content": "[]", "strategy": "master"},
			wantErr: true,
		},
		{
			name:    "unknown strategy",
			args:    map[string]any{"content": "[]", "strategy": "shred"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isErr := callText(t, ctx, session, ToolSanitizeDocument, tt.args)
			if isErr != tt.wantErr {
				t.Fatalf("IsError = %v, want %v (text %q)", isErr, tt.wantErr, got)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("text =\n%s\nwant\n%s", got, tt.want)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("text = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestLookupPseudonym(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := setupTools(t, ctx, nil)

	for _, id := range []any{"101", 101} {
		got, isErr := callText(t, ctx, session, ToolLookupPseudonym, map[string]any{"id": id})
		if isErr {
			t.Fatalf("id %v: unexpected error %q", id, got)
		}
		if !strings.Contains(got, `"first_name": "Olivia"`) {
			t.Errorf("id %v: text = %q, want Olivia", id, got)
		}
	}

	got, isErr := callText(t, ctx, session, ToolLookupPseudonym, map[string]any{"id": "999"})
	if !isErr {
		t.Errorf("unknown id should be an error, got %q", got)
	}
}

func TestLookupFixture(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := store.NewMemory()
	if _, err := mem.Put(ctx, "patrols.json", strings.NewReader("[]\n"), store.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	session := setupTools(t, ctx, mem)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolLookupFixture,
		Arguments: map[string]any{"url": "GET https://osm.example/ext/members/patrols/?sectionid=3&action=getPatrols"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result.Content)
	}
	if len(result.Content) != 2 {
		t.Fatalf("content = %d, want 2 (entry and fixture)", len(result.Content))
	}
	entry := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(entry, `"mock_data_file": "patrols.json"`) {
		t.Errorf("entry = %q, want patrols.json", entry)
	}
	if fixture := result.Content[1].(*mcp.TextContent).Text; fixture != "[]\n" {
		t.Errorf("fixture = %q, want %q", fixture, "[]\n")
	}

	got, isErr := callText(t, ctx, session, ToolLookupFixture, map[string]any{"url": "https://osm.example/unknown"})
	if !isErr {
		t.Errorf("unmapped url should be an error, got %q", got)
	}
}

func TestLookupFixture_NotGenerated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := setupTools(t, ctx, store.NewMemory())

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolLookupFixture,
		Arguments: map[string]any{"url": "/ext/members/patrols/?action=getPatrols"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.IsError || len(result.Content) != 1 {
		t.Errorf("IsError = %v, content = %d; want entry only", result.IsError, len(result.Content))
	}
}

func TestListFixtures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := store.NewMemory()
	for _, key := range []string{"patrols.json", "members.json", "events.json"} {
		if _, err := mem.Put(ctx, key, strings.NewReader("[]\n"), store.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	session := setupTools(t, ctx, mem)

	got, isErr := callText(t, ctx, session, ToolListFixtures, map[string]any{})
	if isErr {
		t.Fatalf("unexpected error %q", got)
	}
	want := "[\n  \"events.json\",\n  \"members.json\",\n  \"patrols.json\"\n]\n"
	if got != want {
		t.Errorf("text =\n%s\nwant\n%s", got, want)
	}

	got, _ = callText(t, ctx, session, ToolListFixtures, map[string]any{"prefix": "m"})
	if got != "[\n  \"members.json\"\n]\n" {
		t.Errorf("prefixed list = %q, want only members.json", got)
	}
}

func TestListFixtures_NoStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := setupTools(t, ctx, nil)

	if got, isErr := callText(t, ctx, session, ToolListFixtures, map[string]any{}); !isErr {
		t.Errorf("list without a store should be an error, got %q", got)
	}
}
