package sanitizer

import "github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"

// Blind replaces every name it finds with the fixed "Admin User" placeholder,
// regardless of identifiers. Used for startup and configuration payloads that
// describe the logged-in account.
type Blind struct{}

func (Blind) Strategy() Strategy { return StrategyBlind }

func (Blind) Sanitize(node any) Result {
	res := Result{Strategy: StrategyBlind}
	res.Content = walk(node, "", func(m map[string]any, _ string) {
		if applyNames(m, blindNames, identity.Pseudonym{}) {
			res.Renamed++
		}
	})
	return finish(&res)
}
