package ui

import "strings"

// Sanitize strips terminal escape sequences and control characters from
// server-provided text before it is rendered. Names and titles come from
// other users' input, so they are never trusted to be plain text.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == 0x1b { // ESC starts an ANSI sequence
			i += escapeLen(runes[i+1:])
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// escapeLen returns how many runes after the ESC belong to the sequence.
// CSI sequences run until a final byte in @..~; other escapes take one
// following rune.
func escapeLen(rest []rune) int {
	if len(rest) == 0 {
		return 0
	}
	if rest[0] != '[' {
		return 1
	}
	for i := 1; i < len(rest); i++ {
		if rest[i] >= '@' && rest[i] <= '~' {
			return i + 1
		}
	}
	return len(rest)
}
