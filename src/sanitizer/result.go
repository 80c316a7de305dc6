package sanitizer

// Result is the outcome of sanitizing one document.
type Result struct {
	Strategy Strategy
	Content  any      // owned copy; never aliases the input tree
	Renamed  int      // mappings whose name fields were rewritten
	Scrubbed []string // sorted paths of custom-field values replaced with null
}
