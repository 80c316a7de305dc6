package inspect

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
)

// FixtureHandler serves generated fixtures read-only under prefix, which must
// end in "/". GET prefix lists the stored fixtures as JSON; GET prefix+key
// returns one fixture body.
func FixtureHandler(prefix string, st store.Store, logger *slog.Logger) http.Handler {
	h := &fixtureHandler{store: st, logger: logger.With("area", "fixtures")}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"{$}", h.list)
	mux.HandleFunc("GET "+prefix+"{key...}", h.get)
	return mux
}

type fixtureHandler struct {
	store  store.Store
	logger *slog.Logger
}

func (h *fixtureHandler) list(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		h.logger.Error("listing fixtures", "err", err)
		http.Error(w, "listing fixtures failed", http.StatusInternalServerError)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}

	w.Header().Set("Content-Type", store.ContentTypeJSON)
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		h.logger.Warn("writing fixture list", "err", err)
	}
}

func (h *fixtureHandler) get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	info, rc, err := h.store.Get(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "fixture not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Warn("reading fixture", "key", key, "err", err)
		http.Error(w, "reading fixture failed", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = store.ContentTypeJSON
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("writing fixture", "key", key, "err", err)
	}
}
