package sanitizer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/payload"
)

var nameFields = map[string]bool{
	"firstname": true, "first_name": true,
	"lastname": true, "last_name": true,
	"name": true, "full_name": true, "fullname": true,
}

// assertStructurePreserved checks that every field outside the name and
// custom-field sets is identical between in and out.
func assertStructurePreserved(t *testing.T, path string, in, out any) {
	t.Helper()
	switch v := in.(type) {
	case map[string]any:
		o, ok := out.(map[string]any)
		if !ok {
			t.Errorf("%s: mapping became %T", path, out)
			return
		}
		if len(o) != len(v) {
			t.Errorf("%s: field count %d, want %d", path, len(o), len(v))
		}
		for k, child := range v {
			if nameFields[k] || strings.HasPrefix(k, customFieldPrefix) {
				continue
			}
			assertStructurePreserved(t, fieldPath(path, k), child, o[k])
		}
	case []any:
		o, ok := out.([]any)
		if !ok || len(o) != len(v) {
			t.Errorf("%s: sequence shape changed", path)
			return
		}
		for i := range v {
			assertStructurePreserved(t, indexPath(path, i), v[i], o[i])
		}
	default:
		if diff := cmp.Diff(in, out); diff != "" {
			t.Errorf("%s: value changed (-in +out):\n%s", path, diff)
		}
	}
}

const propertyDoc = `{
	"identifier": "scoutid",
	"items": [
		{"scoutid": "101", "firstname": "A", "lastname": "B", "patrolid": "12", "age": "11 / 04",
		 "col_1": "Group A", "col_2": "allergic to peanuts and shellfish",
		 "events": [{"eventid": 9, "memberid": "7", "name": "Camp", "attending": "Yes", "cost": 12.50}]},
		{"scoutid": 5, "fullname": "Not In Roster", "photo_guid": null, "active": true}
	],
	"meta": {"count": 2, "structure": [[1, 2], [3, {"name": "nested"}]]}
}`

func TestProperty_NonIdentifyingFieldsPreserved(t *testing.T) {
	ids := testIdentities(t, testRoster)
	in := mustParse(t, propertyDoc)

	for _, s := range []Sanitizer{NewRelational(ids), Blind{}, Passthrough{}} {
		t.Run(s.Strategy().String(), func(t *testing.T) {
			assertStructurePreserved(t, "", in, s.Sanitize(in).Content)
		})
	}
}

func TestProperty_RelationalConsistencyAcrossDocuments(t *testing.T) {
	roster := ProcessMaster(mustParse(t, testRoster))
	rel := NewRelational(roster.Identities)

	members := roster.Records[0].(map[string]any)
	patrols := rel.Sanitize(mustParse(t, `{"patrols": [{"members": [{"scoutid": 101, "firstname": "x", "lastname": "y"}]}]}`)).Content
	events := rel.Sanitize(mustParse(t, `[{"attendance": {"scout_id": "101", "first_name": "p", "last_name": "q"}}]`)).Content

	p := patrols.(map[string]any)["patrols"].([]any)[0].(map[string]any)["members"].([]any)[0].(map[string]any)
	e := events.([]any)[0].(map[string]any)["attendance"].(map[string]any)

	if p["firstname"] != members["firstname"] || e["first_name"] != members["firstname"] {
		t.Errorf("first names differ: roster %v, patrols %v, events %v", members["firstname"], p["firstname"], e["first_name"])
	}
	if p["lastname"] != members["lastname"] || e["last_name"] != members["lastname"] {
		t.Errorf("last names differ: roster %v, patrols %v, events %v", members["lastname"], p["lastname"], e["last_name"])
	}
}

func TestProperty_Deterministic(t *testing.T) {
	encode := func() string {
		roster := ProcessMaster(mustParse(t, testRoster))
		res := NewRelational(roster.Identities).Sanitize(mustParse(t, propertyDoc))
		a, err := payload.Marshal(roster.Records)
		if err != nil {
			t.Fatalf("marshal roster: %v", err)
		}
		b, err := payload.Marshal(res.Content)
		if err != nil {
			t.Fatalf("marshal document: %v", err)
		}
		return string(a) + string(b)
	}

	if first, second := encode(), encode(); first != second {
		t.Errorf("encodings differ between runs:\n%s\n---\n%s", first, second)
	}
}
