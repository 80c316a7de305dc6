package sanitizer

import "github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"

// memberIDFields are the foreign-key spellings checked, in priority order,
// when resolving which member a mapping describes.
var memberIDFields = []string{"scout_id", "scoutid", "member_id", "memberid"}

// rosterIDFields are the identifier spellings of roster entries.
var rosterIDFields = []string{"scout_id", "id"}

// customFieldPrefix marks flexi-record custom columns.
const customFieldPrefix = "col_"

// customFieldMaxLabel is the rune length below which a custom column value is
// kept as a category label. Longer values are treated as free-text notes.
// This is a heuristic, not a PII classifier.
const customFieldMaxLabel = 15

// Blind replacement placeholders.
const (
	placeholderFirst = "Admin"
	placeholderLast  = "User"
	placeholderFull  = placeholderFirst + " " + placeholderLast
)

// nameGroup is a set of spellings of one name part. Only spellings already
// present in a mapping are overwritten.
type nameGroup struct {
	fields []string
	value  func(identity.Pseudonym) string
}

func firstName(p identity.Pseudonym) string { return p.FirstName }
func lastName(p identity.Pseudonym) string  { return p.LastName }
func fullName(p identity.Pseudonym) string  { return p.FullName }

var relationalNames = []nameGroup{
	{fields: []string{"firstname", "first_name"}, value: firstName},
	{fields: []string{"lastname", "last_name"}, value: lastName},
	{fields: []string{"name", "full_name"}, value: fullName},
}

var rosterNames = []nameGroup{
	{fields: []string{"firstname", "first_name"}, value: firstName},
	{fields: []string{"lastname", "last_name"}, value: lastName},
	{fields: []string{"full_name"}, value: fullName},
}

var blindNames = []nameGroup{
	{fields: []string{"firstname", "first_name"}, value: func(identity.Pseudonym) string { return placeholderFirst }},
	{fields: []string{"lastname", "last_name"}, value: func(identity.Pseudonym) string { return placeholderLast }},
	{fields: []string{"fullname", "full_name"}, value: func(identity.Pseudonym) string { return placeholderFull }},
}

// applyNames overwrites every present field of groups with p's values and
// reports whether anything was written.
func applyNames(m map[string]any, groups []nameGroup, p identity.Pseudonym) bool {
	changed := false
	for _, g := range groups {
		for _, f := range g.fields {
			if _, ok := m[f]; ok {
				m[f] = g.value(p)
				changed = true
			}
		}
	}
	return changed
}

// firstPresent returns the first of fields present in m with a non-null value.
func firstPresent(m map[string]any, fields []string) (any, bool) {
	for _, f := range fields {
		if v, ok := m[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
