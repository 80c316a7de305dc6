package sanitizer

import (
	"strings"
	"unicode/utf8"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"
)

// Relational rewrites the names of members referenced by foreign key so they
// match the pseudonyms registered from the roster. Long custom-field values
// are scrubbed as free-text notes.
type Relational struct {
	ids identity.Map
}

// NewRelational returns a Relational sanitizer resolving members through ids.
func NewRelational(ids identity.Map) Relational {
	return Relational{ids: ids}
}

func (Relational) Strategy() Strategy { return StrategyRelational }

func (r Relational) Sanitize(node any) Result {
	res := Result{Strategy: StrategyRelational}
	res.Content = walk(node, "", func(m map[string]any, path string) {
		if p, ok := r.match(m); ok && applyNames(m, relationalNames, p) {
			res.Renamed++
		}
		res.Scrubbed = append(res.Scrubbed, scrubCustomFields(m, path)...)
	})
	return finish(&res)
}

// match resolves the member a mapping refers to. The first identifier field
// whose value is a known member wins.
func (r Relational) match(m map[string]any) (identity.Pseudonym, bool) {
	for _, f := range memberIDFields {
		v, ok := m[f]
		if !ok || v == nil {
			continue
		}
		if p, ok := r.ids.Lookup(stringify(v)); ok {
			return p, true
		}
	}
	return identity.Pseudonym{}, false
}

// scrubCustomFields nulls col_ values too long to be a category label and
// returns the paths it nulled.
func scrubCustomFields(m map[string]any, path string) []string {
	var scrubbed []string
	for k, v := range m {
		if !strings.HasPrefix(k, customFieldPrefix) || v == nil {
			continue
		}
		if utf8.RuneCountInString(stringify(v)) < customFieldMaxLabel {
			continue
		}
		m[k] = nil
		scrubbed = append(scrubbed, fieldPath(path, k))
	}
	return scrubbed
}
