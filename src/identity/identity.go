// Package identity derives deterministic pseudonyms for roster members and
// holds the run-scoped table mapping real member identifiers to them.
package identity

// FirstNames and LastNames are the fixed pseudonym pools. Changing their
// contents or order changes every generated fixture.
var (
	FirstNames = [...]string{
		"James", "Sarah", "David", "Emma", "Michael", "Olivia", "Robert", "Charlotte",
		"William", "Amelia", "Thomas", "Mia", "Daniel", "Harper", "Matthew", "Evelyn",
	}
	LastNames = [...]string{
		"Smith", "Johnson", "Brown", "Taylor", "Wilson", "Evans", "Thomas", "Roberts",
		"Walker", "Wright", "Robinson", "Thompson", "White", "Hughes", "Edwards", "Green",
	}
)

// Pseudonym is the replacement name triple for one member.
type Pseudonym struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// Generate derives the pseudonym for a member. The seed is realID when it is
// made only of decimal digits, otherwise the member's position in the roster.
func Generate(realID string, idx int) Pseudonym {
	first := FirstNames[seedIndex(realID, idx, len(FirstNames))]
	last := LastNames[seedIndex(realID, idx, len(LastNames))]
	return Pseudonym{
		FirstName: first,
		LastName:  last,
		FullName:  first + " " + last,
	}
}

// seedIndex reduces the seed modulo n. Decimal identifiers are reduced digit
// by digit so arbitrarily long ids never overflow.
func seedIndex(realID string, idx, n int) int {
	if !isDecimal(realID) {
		return ((idx % n) + n) % n
	}
	rem := 0
	for i := 0; i < len(realID); i++ {
		rem = (rem*10 + int(realID[i]-'0')) % n
	}
	return rem
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
