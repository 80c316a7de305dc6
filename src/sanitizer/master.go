package sanitizer

import (
	"strconv"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/identity"
)

// Roster is the sanitized master member list together with the identity map
// built while walking it.
type Roster struct {
	Records    []any
	Identities identity.Map
}

// ProcessMaster assigns every roster entry its pseudonym, registers it under
// the entry's identifier and returns the renamed copy of the list.
//
// The identifier is scout_id, else id, else the entry's position. Entries that
// are not mappings are copied unchanged but still registered under their
// position.
func ProcessMaster(doc any) Roster {
	items := rosterItems(doc)
	b := identity.NewBuilder()
	records := make([]any, 0, len(items))

	for idx, item := range items {
		m, isMapping := item.(map[string]any)

		realID := strconv.Itoa(idx)
		if isMapping {
			if v, ok := firstPresent(m, rosterIDFields); ok {
				realID = stringify(v)
			}
		}

		p := identity.Generate(realID, idx)
		b.Add(realID, p)

		if !isMapping {
			records = append(records, walk(item, "", nil))
			continue
		}
		records = append(records, renameRosterEntry(m, p))
	}

	return Roster{Records: records, Identities: b.Map()}
}

// rosterItems normalises the accepted roster shapes to a list: an envelope
// with an items field, a bare sequence or a single entry.
func rosterItems(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		items, ok := v["items"]
		if !ok {
			return []any{v}
		}
		switch it := items.(type) {
		case []any:
			return it
		case nil:
			return nil
		default:
			return []any{it}
		}
	default:
		return nil
	}
}

func renameRosterEntry(m map[string]any, p identity.Pseudonym) map[string]any {
	out := walk(m, "", nil).(map[string]any)
	applyNames(out, rosterNames, p)
	if _, ok := out["name"]; ok {
		out["name"] = p.FullName
		out["full_name"] = p.FullName
	}
	return out
}
