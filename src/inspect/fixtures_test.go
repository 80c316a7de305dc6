package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
)

func TestFixtureHandler(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	fixtures := map[string]string{
		"members.json":        "[\n  {\"firstname\": \"Olivia\"}\n]\n",
		"nested/patrols.json": "[]\n",
	}
	for key, body := range fixtures {
		if _, err := mem.Put(ctx, key, strings.NewReader(body), store.PutOptions{ContentType: store.ContentTypeJSON}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	ts := httptest.NewServer(FixtureHandler("/fixtures/", mem, testLogger()))
	defer ts.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"fixture body", http.MethodGet, "/fixtures/members.json", http.StatusOK, fixtures["members.json"]},
		{"nested key", http.MethodGet, "/fixtures/nested/patrols.json", http.StatusOK, "[]\n"},
		{"missing fixture", http.MethodGet, "/fixtures/absent.json", http.StatusNotFound, ""},
		{"read only", http.MethodPost, "/fixtures/members.json", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("%s %s: %v", tt.method, tt.path, err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", resp.StatusCode, tt.wantStatus, body)
			}
			if tt.wantBody != "" && string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if tt.wantStatus == http.StatusOK {
				if ct := resp.Header.Get("Content-Type"); ct != store.ContentTypeJSON {
					t.Errorf("content type = %q, want %q", ct, store.ContentTypeJSON)
				}
			}
		})
	}
}

func TestFixtureHandler_List(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	for _, key := range []string{"patrols.json", "events.json"} {
		if _, err := mem.Put(ctx, key, strings.NewReader("[]\n"), store.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	ts := httptest.NewServer(FixtureHandler("/fixtures/", mem, testLogger()))
	defer ts.Close()

	for _, tt := range []struct {
		query string
		want  []string
	}{
		{"", []string{"events.json", "patrols.json"}},
		{"?prefix=p", []string{"patrols.json"}},
		{"?prefix=zzz", []string{}},
	} {
		resp, err := http.Get(ts.URL + "/fixtures/" + tt.query)
		if err != nil {
			t.Fatalf("GET list: %v", err)
		}
		var infos []store.Info
		err = json.NewDecoder(resp.Body).Decode(&infos)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decoding list: %v", err)
		}

		keys := []string{}
		for _, info := range infos {
			keys = append(keys, info.Key)
		}
		if diff := cmp.Diff(tt.want, keys); diff != "" {
			t.Errorf("list%s mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}
