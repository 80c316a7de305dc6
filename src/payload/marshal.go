package payload

import (
	"bytes"
	"encoding/json"
)

// Marshal encodes a tree with stable multi-line formatting: two-space indent,
// sorted mapping keys and no HTML escaping. Equal trees always encode to
// identical bytes.
func Marshal(tree any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
