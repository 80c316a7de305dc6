// Package apimap builds the request-to-fixture table consumed by mock
// servers: for every capture whose first line is a request line it records
// which fixture answers that request.
package apimap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/payload"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
)

// MethodGET is the only method captures are recorded with.
const MethodGET = "GET"

// Entry maps one captured request to its fixture.
type Entry struct {
	OriginalFile     string              `json:"original_file"`
	MockDataFile     string              `json:"mock_data_file"`
	FullURL          string              `json:"full_url"`
	Path             string              `json:"path"`
	Method           string              `json:"method"`
	Action           *string             `json:"action"`
	QueryParams      map[string][]string `json:"query_params"`
	IsStaticResource bool                `json:"is_static_resource"`
}

// Map is the full table, ordered by original file name.
type Map struct {
	Entries []Entry
}

// Build scans inputDir for .txt captures and maps each one that carries a
// request line and a declared output. Unreadable files are logged and
// skipped; only a missing or unreadable directory is an error.
func Build(inputDir string, docs []config.DocumentConfig, logger *slog.Logger) (Map, error) {
	log := logger.With("area", "apimap")

	dirEntries, err := os.ReadDir(inputDir)
	if err != nil {
		return Map{}, fmt.Errorf("reading input directory: %w", err)
	}

	byInput := make(map[string]config.DocumentConfig, len(docs))
	for _, d := range docs {
		byInput[d.Input] = d
	}

	m := Map{Entries: []Entry{}}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}

		line, err := requestLine(filepath.Join(inputDir, name))
		if err != nil {
			log.Error("reading capture", "file", name, "err", err)
			continue
		}
		if line == "" {
			continue
		}

		doc, declared := byInput[name]
		if !declared {
			log.Info("no fixture declared, skipping", "file", name)
			continue
		}

		entry := newEntry(name, doc, line)
		m.Entries = append(m.Entries, entry)
		if entry.Action != nil {
			log.Info("mapped", "file", name, "action", *entry.Action)
		} else {
			log.Info("mapped", "file", name, "path", entry.Path)
		}
	}

	sort.SliceStable(m.Entries, func(i, j int) bool {
		return m.Entries[i].OriginalFile < m.Entries[j].OriginalFile
	})
	return m, nil
}

// requestLine returns the capture's first line when it names a request, or
// "" when the file starts directly with the payload.
func requestLine(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := payload.Decode(raw)
	if err != nil {
		return "", err
	}
	line := payload.FirstLine(text)
	if !strings.HasPrefix(line, "http") && !strings.HasPrefix(line, MethodGET) {
		return "", nil
	}
	return strings.TrimSpace(strings.TrimPrefix(line, MethodGET+" ")), nil
}

func newEntry(name string, doc config.DocumentConfig, rawURL string) Entry {
	path, query := splitURL(rawURL)
	return Entry{
		OriginalFile:     name,
		MockDataFile:     doc.Output,
		FullURL:          rawURL,
		Path:             path,
		Method:           MethodGET,
		Action:           action(query),
		QueryParams:      query,
		IsStaticResource: strings.EqualFold(doc.Strategy, "ignored"),
	}
}

// splitURL parses rawURL leniently. Query parameters with blank values are
// dropped and malformed pairs are ignored; the result is never nil.
func splitURL(rawURL string) (string, map[string][]string) {
	query := map[string][]string{}

	u, err := url.Parse(rawURL)
	if err != nil {
		path, rawQuery, _ := strings.Cut(rawURL, "?")
		return path, parseQuery(rawQuery, query)
	}
	return u.Path, parseQuery(u.RawQuery, query)
}

func parseQuery(rawQuery string, into map[string][]string) map[string][]string {
	values, _ := url.ParseQuery(rawQuery)
	for k, vs := range values {
		for _, v := range vs {
			if v == "" {
				continue
			}
			into[k] = append(into[k], v)
		}
	}
	return into
}

func action(query map[string][]string) *string {
	vs := query["action"]
	if len(vs) == 0 {
		return nil
	}
	a := vs[0]
	return &a
}

// Lookup resolves a request URL (optionally prefixed with "GET ") to the
// entry with the same path and action.
func (m Map) Lookup(rawURL string) (Entry, bool) {
	rawURL = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawURL), MethodGET+" "))
	path, query := splitURL(rawURL)
	want := action(query)

	for _, e := range m.Entries {
		if e.Path != path {
			continue
		}
		if sameAction(e.Action, want) {
			return e, true
		}
	}
	return Entry{}, false
}

func sameAction(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Write stores the table under key as a stable JSON array.
func Write(ctx context.Context, st store.Store, key string, m Map) error {
	entries := m.Entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := payload.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding api map: %w", err)
	}
	if _, err := st.Put(ctx, key, bytes.NewReader(data), store.PutOptions{ContentType: store.ContentTypeJSON}); err != nil {
		return fmt.Errorf("writing api map: %w", err)
	}
	return nil
}
