// Package payload turns captured API dumps into data trees: it strips the
// text surrounding the structured literal, parses it strictly as JSON and
// falls back to a permissive object-literal grammar when that fails.
package payload

import "strings"

// Extract returns the slice of text from the first '{' or '[' to the last
// '}' or ']' inclusive. Brackets are not balanced; the result is a best-effort
// slice. Without an opening bracket the result is empty, and without a closing
// bracket after it the rest of the text is returned.
func Extract(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	end := strings.LastIndexAny(text[start+1:], "}]")
	if end < 0 {
		return text[start:]
	}
	return text[start : start+1+end+1]
}

// FirstLine returns the first line of text with surrounding whitespace removed.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
