package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/apimap"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/payload"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/sanitizer"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
)

const (
	ToolSanitizeDocument = "sanitize_document"
	ToolLookupPseudonym  = "lookup_pseudonym"
	ToolLookupFixture    = "lookup_fixture"
	ToolListFixtures     = "list_fixtures"
)

// Tools holds the read-only state the tool handlers answer from.
type Tools struct {
	identities identity.Map
	urls       apimap.Map
	store      store.Store
	logger     *slog.Logger
}

// NewTools creates the tool set. st may be nil, in which case
// lookup_fixture returns the map entry without fixture content.
func NewTools(ids identity.Map, urls apimap.Map, st store.Store, logger *slog.Logger) *Tools {
	return &Tools{
		identities: ids,
		urls:       urls,
		store:      st,
		logger:     logger.With("area", "tools"),
	}
}

// Register adds every tool to srv and returns how many were added.
func (t *Tools) Register(srv *mcp.Server) int {
	srv.AddTool(&mcp.Tool{
		Name:        ToolSanitizeDocument,
		Description: "Sanitize a captured payload with the given strategy (relational, blind, passthrough or ignored) and return the fixture JSON.",
		InputSchema: objectSchema(map[string]any{
			"content":  map[string]any{"type": "string", "description": "Captured text, optionally starting with a request line."},
			"strategy": map[string]any{"type": "string", "enum": []string{"relational", "blind", "passthrough", "ignored"}},
		}, "content", "strategy"),
	}, t.sanitizeDocument)

	srv.AddTool(&mcp.Tool{
		Name:        ToolLookupPseudonym,
		Description: "Return the pseudonym assigned to a member identifier.",
		InputSchema: objectSchema(map[string]any{
			"id": map[string]any{"type": "string"},
		}, "id"),
	}, t.lookupPseudonym)

	srv.AddTool(&mcp.Tool{
		Name:        ToolLookupFixture,
		Description: "Resolve a request URL to the fixture that answers it.",
		InputSchema: objectSchema(map[string]any{
			"url": map[string]any{"type": "string"},
		}, "url"),
	}, t.lookupFixture)

	srv.AddTool(&mcp.Tool{
		Name:        ToolListFixtures,
		Description: "List generated fixtures, optionally restricted to keys with a prefix.",
		InputSchema: objectSchema(map[string]any{
			"prefix": map[string]any{"type": "string"},
		}),
	}, t.listFixtures)

	return 4
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (t *Tools) sanitizeDocument(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Content  string `json:"content"`
		Strategy string `json:"strategy"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(err.Error()), nil
	}

	strategy, err := sanitizer.ParseStrategy(args.Strategy)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	s, err := sanitizer.New(strategy, t.identities)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	text, err := payload.Decode([]byte(args.Content))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	doc, err := payload.Parse(text)
	if err != nil {
		t.logger.Warn("sanitize_document rejected content", "err", err)
		return errorResult(err.Error()), nil
	}

	res := s.Sanitize(doc.Tree)
	out, err := payload.Marshal(res.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding sanitized document: %w", err)
	}
	t.logger.Info("sanitized document",
		"strategy", strategy.String(),
		"grammar", doc.Grammar.String(),
		"renamed", res.Renamed,
		"scrubbed", len(res.Scrubbed),
	)
	return textResult(string(out)), nil
}

func (t *Tools) lookupPseudonym(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID json.RawMessage `json:"id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(err.Error()), nil
	}
	id := rawID(args.ID)

	p, ok := t.identities.Lookup(id)
	if !ok {
		return errorResult(fmt.Sprintf("no pseudonym registered for id %q", id)), nil
	}
	out, err := payload.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding pseudonym: %w", err)
	}
	return textResult(string(out)), nil
}

func (t *Tools) lookupFixture(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return errorResult(err.Error()), nil
	}

	entry, ok := t.urls.Lookup(args.URL)
	if !ok {
		return errorResult(fmt.Sprintf("no fixture mapped for %q", args.URL)), nil
	}
	out, err := payload.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding map entry: %w", err)
	}

	result := textResult(string(out))
	if fixture, ok := t.readFixture(ctx, entry.MockDataFile); ok {
		result.Content = append(result.Content, &mcp.TextContent{Text: fixture})
	}
	return result, nil
}

func (t *Tools) listFixtures(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Prefix string `json:"prefix"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := decodeArgs(req, &args); err != nil {
			return errorResult(err.Error()), nil
		}
	}
	if t.store == nil {
		return errorResult("no fixture store configured"), nil
	}

	infos, err := t.store.List(ctx, args.Prefix)
	if err != nil {
		t.logger.Error("listing fixtures", "prefix", args.Prefix, "err", err)
		return errorResult(fmt.Sprintf("listing fixtures: %v", err)), nil
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	out, err := payload.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("encoding fixture list: %w", err)
	}
	return textResult(string(out)), nil
}

// readFixture returns the stored fixture body. A fixture that has not been
// generated yet is not an error for lookup_fixture.
func (t *Tools) readFixture(ctx context.Context, key string) (string, bool) {
	if t.store == nil {
		return "", false
	}
	_, rc, err := t.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			t.logger.Warn("reading fixture", "key", key, "err", err)
		}
		return "", false
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.logger.Warn("reading fixture", "key", key, "err", err)
		return "", false
	}
	return string(b), true
}

func decodeArgs(req *mcp.CallToolRequest, into any) error {
	if len(req.Params.Arguments) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(req.Params.Arguments, into); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// rawID accepts identifiers sent as JSON strings or numbers.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
