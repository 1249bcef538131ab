package source

import "io"

// Memory is a Source over a fixed list of lines
type Memory struct {
	lines []string
	pos   int
}

// FromStrings creates a Source that yields the given lines
func FromStrings(lines ...string) *Memory {
	return &Memory{lines: lines}
}

func (m *Memory) ReadLine() (string, error) {
	if m.pos >= len(m.lines) {
		return "", io.EOF
	}
	l := m.lines[m.pos]
	m.pos++
	return l, nil
}

// Counting wraps a Source and records how many times it was read from.
type Counting struct {
	Source
	calls int
}

// NewCounting creates a new Counting source
func NewCounting(s Source) *Counting {
	return &Counting{Source: s}
}

func (c *Counting) ReadLine() (string, error) {
	c.calls++
	return c.Source.ReadLine()
}

// Calls returns the number of ReadLine calls made so far, including the
// one that reported exhaustion.
func (c *Counting) Calls() int {
	return c.calls
}
