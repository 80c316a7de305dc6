package pipeline

import "fmt"

// Summary records what a run did with each document.
type Summary struct {
	RunID string

	// Written lists the output keys persisted, in processing order.
	Written []string
	// Skipped lists inputs that could not be loaded or parsed.
	Skipped []string
	// Failed lists inputs whose fixture could not be sanitized or stored.
	Failed []string
	// Unrecognized lists files in the input directory with no declared role.
	Unrecognized []string
}

// Line renders the summary as a single human-readable status line.
func (s Summary) Line() string {
	return fmt.Sprintf("run %s: %d written, %d skipped, %d failed, %d unrecognized",
		s.RunID, len(s.Written), len(s.Skipped), len(s.Failed), len(s.Unrecognized))
}

// OK reports whether every declared document that was loaded was also
// written.
func (s Summary) OK() bool {
	return len(s.Failed) == 0
}
