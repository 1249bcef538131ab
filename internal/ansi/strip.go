// Package ansi removes terminal escape sequences from input lines, so
// that colored output from other programs can be paged and searched as
// plain text.
package ansi

import (
	"strings"
)

const esc = '\x1b'

// Strip returns s with every CSI sequence (ESC [ params final) and every
// two byte ESC sequence removed. An incomplete sequence at the end of s
// is dropped as well.
func Strip(s string) string {
	// Fast path: if no ESC character, return as-is
	if strings.IndexByte(s, esc) < 0 {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != esc {
			j := strings.IndexByte(s[i:], esc)
			if j < 0 {
				out.WriteString(s[i:])
				break
			}
			out.WriteString(s[i : i+j])
			i += j
			continue
		}

		i += sequenceLength(s[i:])
	}
	return out.String()
}

// sequenceLength returns the number of bytes taken by the escape
// sequence at the start of s, which must begin with ESC
func sequenceLength(s string) int {
	if len(s) < 2 {
		return len(s)
	}

	switch s[1] {
	case '[':
	case ']', 'P', 'X', '^', '_':
		// OSC, DCS, SOS, PM and APC carry a string payload
		return stringSequenceLength(s)
	default:
		// ESC followed by a single character (e.g. ESC c, ESC 7)
		return 2
	}

	// Parameter and intermediate bytes are 0x20-0x3F, the terminating
	// byte is 0x40-0x7E
	j := 2
	for j < len(s) && s[j] >= 0x20 && s[j] <= 0x3F {
		j++
	}
	if j >= len(s) {
		return len(s)
	}
	return j + 1
}

// stringSequenceLength returns the length of a sequence whose payload
// runs up to BEL or ST (ESC \). Without a terminator the sequence takes
// the rest of s.
func stringSequenceLength(s string) int {
	for j := 2; j < len(s); j++ {
		switch s[j] {
		case '\a':
			return j + 1
		case esc:
			if j+1 < len(s) && s[j+1] == '\\' {
				return j + 2
			}
		}
	}
	return len(s)
}
