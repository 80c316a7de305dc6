package payload

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"surrounding noise", `noise{"a":1}trailing`, `{"a":1}`},
		{"request line header", "GET https://x/ext?action=getMembers\n\n[1, 2]\n", "[1, 2]"},
		{"last closer wins", `x {"a": [1]} and then ] y`, `{"a": [1]} and then ]`},
		{"no opener", "garbage text", ""},
		{"empty", "", ""},
		{"no closer", `prefix {"a": 1`, `{"a": 1`},
		{"only opener", `abc[`, `[`},
		{"closer before opener ignored", `} prefix [1`, `[1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  GET https://example.com/a \r\n{}", "GET https://example.com/a"},
		{"single", "single"},
		{"", ""},
		{"\n{}", ""},
	}
	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode_StripsByteOrderMark(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a": 1}`)...)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("Decode = %q, want %q", got, `{"a": 1}`)
	}
}

func TestDecode_PlainText(t *testing.T) {
	got, err := Decode([]byte("héllo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "héllo" {
		t.Errorf("Decode = %q, want %q", got, "héllo")
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	for _, raw := range [][]byte{
		{0xff, '{', '}'},
		append([]byte{0xEF, 0xBB, 0xBF}, 0xc3, 0x28),
	} {
		if _, err := Decode(raw); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("Decode(% x) err = %v, want ErrInvalidEncoding", raw, err)
		}
	}
}
