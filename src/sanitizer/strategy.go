package sanitizer

import (
	"fmt"
	"strings"
)

// Strategy is the scrubbing policy applied to one document.
type Strategy int

const (
	// StrategyMaster marks the roster document the identity map is built from.
	StrategyMaster Strategy = iota
	// StrategyRelational rewrites names of members found in the identity map.
	StrategyRelational
	// StrategyBlind replaces names with fixed placeholders without lookups.
	StrategyBlind
	// StrategyPassthrough copies structural documents unchanged.
	StrategyPassthrough
	// StrategyIgnored discards the document and emits an empty sequence.
	StrategyIgnored
)

func (s Strategy) String() string {
	switch s {
	case StrategyMaster:
		return "master"
	case StrategyRelational:
		return "relational"
	case StrategyBlind:
		return "blind"
	case StrategyPassthrough:
		return "passthrough"
	case StrategyIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a configured strategy name. Matching is
// case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "master":
		return StrategyMaster, nil
	case "relational":
		return StrategyRelational, nil
	case "blind":
		return StrategyBlind, nil
	case "passthrough":
		return StrategyPassthrough, nil
	case "ignored":
		return StrategyIgnored, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}
