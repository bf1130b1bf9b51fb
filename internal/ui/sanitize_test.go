package ui

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"PlainText", "Kind of Blue", "Kind of Blue"},
		{"Unicode", "Händel — Messiah ✓", "Händel — Messiah ✓"},
		{"ANSIColorSequence", "\x1b[31mred\x1b[0m name", "red name"},
		{"CursorMovement", "\x1b[2Jwiped", "wiped"},
		{"BareEscape", "a\x1bcb", "ab"},
		{"ControlChars", "a\x00b\x07c\r\nd", "abcd"},
		{"DeleteChar", "a\x7fb", "ab"},
		{"TruncatedSequence", "name\x1b[31", "name"},
		{"Empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
