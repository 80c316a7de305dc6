package payload

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding means the captured bytes are not valid UTF-8.
var ErrInvalidEncoding = errors.New("payload is not valid UTF-8")

// Decode converts raw captured bytes to text. A leading UTF-8 byte order mark
// is dropped; browser "save as" dumps frequently carry one. Invalid UTF-8 is
// an error rather than being replaced.
func Decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("decoding payload: %w", ErrInvalidEncoding)
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decoding payload: %w", err)
	}
	return string(out), nil
}
