// Package pipeline drives a scrub run: it loads the master roster, builds
// the identity map from it, then sanitizes and stores every other declared
// document in table order.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/config"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/payload"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/sanitizer"
	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/store"
)

// Driver runs the scrub pipeline over one input directory.
type Driver struct {
	cfg    config.Config
	store  store.Store
	logger *slog.Logger
}

// New creates a Driver writing fixtures to st.
func New(cfg config.Config, st store.Store, logger *slog.Logger) *Driver {
	return &Driver{
		cfg:    cfg,
		store:  st,
		logger: logger.With("area", "pipeline"),
	}
}

// Run processes every declared document once. Only ErrMissingInputDirectory
// and ErrMasterLoad are returned; per-document problems are logged and
// recorded in the Summary.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := d.logger.With("run_id", sum.RunID)

	log.Info("starting run", "input_dir", d.cfg.InputDir, "store", string(d.store.Driver()))

	master, roster, err := d.loadRoster(log)
	if err != nil {
		log.Error("aborting run", "err", err)
		return sum, err
	}
	log.Info("identity map built", "members", roster.Identities.Len())

	d.persist(ctx, log.With("input", master.Input), &sum, master, sanitizer.StrategyMaster, roster.Records)

	for _, doc := range d.cfg.Documents {
		if doc.Input == master.Input {
			continue
		}
		d.process(ctx, log, &sum, doc, roster)
	}

	for _, name := range d.unrecognized() {
		sum.Unrecognized = append(sum.Unrecognized, name)
		log.Info("not processed", "input", name, "err", fmt.Errorf("%w: %s", ErrUnrecognizedInput, name))
	}

	log.Info("run complete", "summary", sum.Line())
	return sum, nil
}

// LoadRoster runs only the master steps and returns the sanitized roster
// with its identity map. Nothing is written.
func (d *Driver) LoadRoster(_ context.Context) (sanitizer.Roster, error) {
	_, roster, err := d.loadRoster(d.logger)
	return roster, err
}

func (d *Driver) loadRoster(log *slog.Logger) (config.DocumentConfig, sanitizer.Roster, error) {
	if err := checkInputDir(d.cfg.InputDir); err != nil {
		return config.DocumentConfig{}, sanitizer.Roster{}, err
	}

	master, ok := d.cfg.Master()
	if !ok {
		return config.DocumentConfig{}, sanitizer.Roster{}, fmt.Errorf("%w: no master document declared", ErrMasterLoad)
	}

	doc, err := loadDocument(d.cfg.InputDir, master.Input)
	if err != nil {
		return master, sanitizer.Roster{}, fmt.Errorf("%w: %s: %w", ErrMasterLoad, master.Input, err)
	}
	if isEmpty(doc.Tree) {
		return master, sanitizer.Roster{}, fmt.Errorf("%w: %s: no members", ErrMasterLoad, master.Input)
	}

	log.Debug("master loaded", "input", master.Input, "grammar", doc.Grammar.String())
	return master, sanitizer.ProcessMaster(doc.Tree), nil
}

func (d *Driver) process(ctx context.Context, log *slog.Logger, sum *Summary, doc config.DocumentConfig, roster sanitizer.Roster) {
	log = log.With("input", doc.Input)

	strategy, err := sanitizer.ParseStrategy(doc.Strategy)
	if err != nil {
		sum.Failed = append(sum.Failed, doc.Input)
		log.Error("failed", "err", err)
		return
	}

	parsed, err := loadDocument(d.cfg.InputDir, doc.Input)
	if err != nil {
		sum.Skipped = append(sum.Skipped, doc.Input)
		log.Warn("skipped", "err", fmt.Errorf("%w: %w", ErrDocumentLoad, err))
		return
	}

	s, err := sanitizer.New(strategy, roster.Identities)
	if err != nil {
		sum.Failed = append(sum.Failed, doc.Input)
		log.Error("failed", "err", err)
		return
	}

	res := s.Sanitize(parsed.Tree)
	if len(res.Scrubbed) > 0 {
		log.Debug("custom fields scrubbed", "paths", strings.Join(res.Scrubbed, ","))
	}
	d.persist(ctx, log, sum, doc, strategy, res.Content, "renamed", res.Renamed, "scrubbed", len(res.Scrubbed))
}

func (d *Driver) persist(ctx context.Context, log *slog.Logger, sum *Summary, doc config.DocumentConfig, strategy sanitizer.Strategy, content any, attrs ...any) {
	data, err := payload.Marshal(content)
	if err != nil {
		sum.Failed = append(sum.Failed, doc.Input)
		log.Error("failed", "err", err)
		return
	}

	_, err = d.store.Put(ctx, doc.Output, bytes.NewReader(data), store.PutOptions{
		ContentType: store.ContentTypeJSON,
		Metadata:    map[string]string{"source": doc.Input, "strategy": strategy.String()},
	})
	if err != nil {
		sum.Failed = append(sum.Failed, doc.Input)
		log.Error("failed", "output", doc.Output, "err", err)
		return
	}

	sum.Written = append(sum.Written, doc.Output)
	log.Info("generated", append([]any{"output", doc.Output, "strategy", strategy.String()}, attrs...)...)
}

// unrecognized lists regular files in the input directory that are neither
// declared nor ignored. A listing error yields no names; the run has already
// read the directory successfully by this point.
func (d *Driver) unrecognized() []string {
	entries, err := os.ReadDir(d.cfg.InputDir)
	if err != nil {
		d.logger.Warn("listing input directory", "err", err)
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || d.cfg.Ignored(e.Name()) {
			continue
		}
		if _, declared := d.cfg.Document(e.Name()); declared {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}
