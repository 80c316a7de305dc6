package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoPayload means the text holds no opening bracket to parse from.
	ErrNoPayload = errors.New("no structured payload found")
	// ErrUnparsable means neither the strict nor the permissive grammar
	// accepted the extracted payload.
	ErrUnparsable = errors.New("payload is not parsable")
)

// Grammar identifies which parsing stage accepted a payload.
type Grammar int

const (
	// GrammarJSON is strict JSON.
	GrammarJSON Grammar = iota
	// GrammarLiteral is the permissive object-literal grammar.
	GrammarLiteral
)

func (g Grammar) String() string {
	switch g {
	case GrammarJSON:
		return "json"
	case GrammarLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Payload is a successfully parsed document tree. The tree is made of
// map[string]any, []any, string, json.Number, bool and nil.
type Payload struct {
	Tree    any
	Grammar Grammar
}

// Parse extracts the payload from text and parses it. The strict JSON stage
// runs first; on failure the permissive literal stage is attempted. A failed
// parse is reported as an error wrapping ErrNoPayload or ErrUnparsable and is
// meant to be handled by skipping the document.
func Parse(text string) (Payload, error) {
	clean := Extract(text)
	if clean == "" {
		return Payload{}, ErrNoPayload
	}

	tree, jsonErr := parseJSON(clean)
	if jsonErr == nil {
		return Payload{Tree: tree, Grammar: GrammarJSON}, nil
	}

	tree, litErr := parseLiteral(clean)
	if litErr == nil {
		return Payload{Tree: tree, Grammar: GrammarLiteral}, nil
	}

	return Payload{}, fmt.Errorf("%w: json: %v; literal: %v", ErrUnparsable, jsonErr, litErr)
}

// parseJSON decodes exactly one JSON value, keeping numbers as json.Number so
// their literal text survives a round trip.
func parseJSON(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return tree, nil
}
