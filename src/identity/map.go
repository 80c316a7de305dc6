package identity

// Map is the read-only table from real member identifier to pseudonym. The
// zero value is an empty map.
type Map struct {
	entries map[string]Pseudonym
}

// Lookup returns the pseudonym registered for id.
func (m Map) Lookup(id string) (Pseudonym, bool) {
	p, ok := m.entries[id]
	return p, ok
}

// Len reports the number of registered identifiers.
func (m Map) Len() int { return len(m.entries) }

// Builder accumulates identifiers while the roster is walked. A later Add for
// the same identifier replaces the earlier pseudonym.
type Builder struct {
	entries map[string]Pseudonym
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Pseudonym)}
}

// Add registers p under id.
func (b *Builder) Add(id string, p Pseudonym) {
	b.entries[id] = p
}

// Map returns a snapshot of the registered identifiers. Later calls to Add do
// not affect maps already returned.
func (b *Builder) Map() Map {
	entries := make(map[string]Pseudonym, len(b.entries))
	for id, p := range b.entries {
		entries[id] = p
	}
	return Map{entries: entries}
}
