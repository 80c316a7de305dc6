package payload

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// jsonNumber matches number text that is already valid JSON.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// maxLiteralDepth caps container nesting, the same limit encoding/json uses.
const maxLiteralDepth = 10000

// literalParser is a recursive-descent parser for object literals as they
// appear in JavaScript and Python dumps: quoted strings in either quote style,
// True/False/None alongside true/false/null, trailing commas, tuples and
// '#' comments.
type literalParser struct {
	src   string
	pos   int
	depth int
}

func parseLiteral(text string) (any, error) {
	p := &literalParser{src: text}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected trailing %q", p.peekSnippet())
	}
	return v, nil
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) peekSnippet() string {
	end := p.pos + 10
	if end > len(p.src) {
		end = len(p.src)
	}
	return p.src[p.pos:end]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n':
			p.pos += 2
		case c == '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

// enter records one more level of container nesting.
func (p *literalParser) enter() error {
	p.depth++
	if p.depth > maxLiteralDepth {
		return p.errorf("nesting too deep")
	}
	return nil
}

func (p *literalParser) leave() { p.depth-- }

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '{':
		return p.mapping()
	case c == '[':
		return p.sequence('[', ']')
	case c == '(':
		return p.parenthesised()
	case c == '"' || c == '\'':
		return p.stringLiteral()
	case (c == 'u' || c == 'U') && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '"' || p.src[p.pos+1] == '\''):
		return p.stringLiteral()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case isIdentStart(c):
		return p.keyword()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *literalParser) mapping() (any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos++ // '{'
	out := make(map[string]any)
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated mapping")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return out, nil
		}

		k, err := p.value()
		if err != nil {
			return nil, err
		}
		key, err := mappingKey(k)
		if err != nil {
			return nil, p.errorf("%v", err)
		}

		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after mapping key")
		}
		p.pos++

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = v

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated mapping")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or '}' in mapping")
		}
	}
}

func (p *literalParser) sequence(open, closing byte) ([]any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.pos++ // open
	out := make([]any, 0)
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated sequence")
		}
		if p.src[p.pos] == closing {
			p.pos++
			return out, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated sequence")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or %q in sequence", closing)
		}
	}
}

// parenthesised handles both tuples and grouping: "(1)" is the value 1 while
// "(1,)" and "(1, 2)" are sequences.
func (p *literalParser) parenthesised() (any, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	start := p.pos
	p.pos++
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		return []any{}, nil
	}

	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		return v, nil
	}

	p.pos = start
	return p.sequence('(', ')')
}

// stringLiteral reads one or more adjacent string literals and concatenates them.
func (p *literalParser) stringLiteral() (any, error) {
	var b strings.Builder
	for {
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		b.WriteString(s)

		save := p.pos
		p.skipSpace()
		if p.pos < len(p.src) && isStringStart(p.src[p.pos:]) {
			continue
		}
		p.pos = save
		return b.String(), nil
	}
}

func isStringStart(s string) bool {
	if s[0] == '"' || s[0] == '\'' {
		return true
	}
	return len(s) > 1 && (s[0] == 'u' || s[0] == 'U') && (s[1] == '"' || s[1] == '\'')
}

func (p *literalParser) quoted() (string, error) {
	if c := p.src[p.pos]; c == 'u' || c == 'U' {
		p.pos++
	}
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return "", p.errorf("newline in string literal")
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string literal")
}

func (p *literalParser) escape(b *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++

	switch c {
	case '\n':
	case '\\', '\'', '"', '/':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case 'a':
		b.WriteByte('\a')
	case '0':
		b.WriteByte(0)
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	case 'U':
		return p.hexEscape(b, 8)
	default:
		// Unknown escapes are kept verbatim, as Python does.
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *literalParser) hexEscape(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated \\x/\\u escape")
	}
	r, err := p.hexRune(digits)
	if err != nil {
		return err
	}
	if utf16.IsSurrogate(r) {
		r, err = p.surrogatePair(r)
		if err != nil {
			return err
		}
	}
	b.WriteRune(r)
	return nil
}

func (p *literalParser) hexRune(digits int) (rune, error) {
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex escape %q", p.src[p.pos:p.pos+digits])
	}
	if n > unicode.MaxRune {
		return 0, p.errorf("escape out of range")
	}
	p.pos += digits
	return rune(n), nil
}

// surrogatePair combines a high surrogate with the \u escape that must follow
// it. A lone surrogate has no UTF-8 encoding and fails the parse.
func (p *literalParser) surrogatePair(high rune) (rune, error) {
	if high >= 0xdc00 || !strings.HasPrefix(p.src[p.pos:], `\u`) || p.pos+6 > len(p.src) {
		return 0, p.errorf("lone surrogate escape")
	}
	p.pos += 2
	low, err := p.hexRune(4)
	if err != nil {
		return 0, err
	}
	r := utf16.DecodeRune(high, low)
	if r == unicode.ReplacementChar {
		return 0, p.errorf("lone surrogate escape")
	}
	return r, nil
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if c := p.src[p.pos]; c == '-' || c == '+' {
		p.pos++
		p.skipSpace()
	}
	digitsStart := p.pos
	for p.pos < len(p.src) && isNumberByte(p.src[p.pos], p.prev()) {
		p.pos++
	}
	if p.pos == digitsStart {
		return nil, p.errorf("malformed number")
	}

	sign := ""
	if p.src[start] == '-' {
		sign = "-"
	}
	text := sign + strings.ReplaceAll(p.src[digitsStart:p.pos], "_", "")
	if jsonNumber.MatchString(text) {
		return json.Number(text), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("malformed number %q", text)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (p *literalParser) prev() byte {
	if p.pos == 0 {
		return 0
	}
	return p.src[p.pos-1]
}

func isNumberByte(c, prev byte) bool {
	switch {
	case c >= '0' && c <= '9', c == '.', c == '_', c == 'e', c == 'E':
		return true
	case c == '+' || c == '-':
		return prev == 'e' || prev == 'E'
	}
	return false
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("unknown literal %q", word)
	}
}

// mappingKey converts a parsed key to its string form the way a JSON encoder
// would write it.
func mappingKey(k any) (string, error) {
	switch v := k.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "null", nil
	default:
		return "", fmt.Errorf("unhashable mapping key of type %T", k)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
