package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/payload"
)

// checkInputDir verifies the capture directory exists and is a directory.
func checkInputDir(dir string) error {
	st, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingInputDirectory, dir)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingInputDirectory, dir, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingInputDirectory, dir)
	}
	return nil
}

// loadDocument reads one capture file and parses its payload. The file is
// read in full so no handle outlives the call.
func loadDocument(dir, name string) (payload.Payload, error) {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return payload.Payload{}, err
	}
	text, err := payload.Decode(raw)
	if err != nil {
		return payload.Payload{}, err
	}
	return payload.Parse(text)
}

// isEmpty reports whether a parsed tree holds nothing to build a roster from.
func isEmpty(tree any) bool {
	switch v := tree.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
