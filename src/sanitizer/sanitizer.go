// Package sanitizer rewrites identity-bearing fields of schema-less document
// trees. Documents are walked recursively; person names are found by field
// name convention and replaced according to the document's Strategy, while
// every other field is copied through untouched.
package sanitizer

import (
	"fmt"
	"sort"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"
)

// Sanitizer applies one Strategy to a document tree.
// Implementations must not mutate the input; the returned Result owns its
// content.
type Sanitizer interface {
	// Strategy returns the policy this sanitizer implements.
	Strategy() Strategy

	// Sanitize returns the scrubbed copy of node.
	Sanitize(node any) Result
}

// New returns the Sanitizer for strategy. Relational sanitizers resolve
// members through ids. Master documents are handled by ProcessMaster.
func New(strategy Strategy, ids identity.Map) (Sanitizer, error) {
	switch strategy {
	case StrategyRelational:
		return NewRelational(ids), nil
	case StrategyBlind:
		return Blind{}, nil
	case StrategyPassthrough:
		return Passthrough{}, nil
	case StrategyIgnored:
		return Ignored{}, nil
	case StrategyMaster:
		return nil, fmt.Errorf("master documents are processed by ProcessMaster, not a tree sanitizer")
	default:
		return nil, fmt.Errorf("unsupported strategy %v", strategy)
	}
}

func finish(res *Result) Result {
	sort.Strings(res.Scrubbed)
	return *res
}
