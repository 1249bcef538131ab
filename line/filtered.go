package line

import "fmt"

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Gap:
		return "Gap"
	case Context:
		return "Context"
	case Match:
		return "Match"
	case Unfiltered:
		return "Unfiltered"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// NewGap creates a gap marker
func NewGap() Filtered {
	return Filtered{Kind: Gap}
}

// NewContext creates a context line
func NewContext(l Numbered) Filtered {
	return Filtered{Kind: Context, Line: l}
}

// NewMatch creates a matched line
func NewMatch(l Numbered) Filtered {
	return Filtered{Kind: Match, Line: l}
}

// NewUnfiltered creates a line emitted while no filter is in use
func NewUnfiltered(l Numbered) Filtered {
	return Filtered{Kind: Unfiltered, Line: l}
}

// IsGap returns true if this is a gap marker
func (f Filtered) IsGap() bool {
	return f.Kind == Gap
}

// Number returns the source line number, or 0 for gaps
func (f Filtered) Number() int {
	if f.IsGap() {
		return 0
	}
	return f.Line.Number
}

// Content returns the text of the line, or "" for gaps
func (f Filtered) Content() string {
	if f.IsGap() {
		return ""
	}
	return f.Line.Content
}

// String returns a compact form used in traces and failing test output.
func (f Filtered) String() string {
	var prefix byte
	switch f.Kind {
	case Gap:
		return "-----"
	case Context:
		prefix = 'C'
	case Match:
		prefix = 'M'
	case Unfiltered:
		prefix = 'U'
	default:
		prefix = '?'
	}
	return fmt.Sprintf("%c %05d: %s", prefix, f.Line.Number, f.Line.Content)
}

// Filtered converts a classified line into what gets displayed. Lines that
// did not match become context lines when a filter is active, and plain
// unfiltered lines otherwise.
func (c Classified) Filtered(active bool) Filtered {
	switch {
	case c.Match:
		return NewMatch(c.Line)
	case active:
		return NewContext(c.Line)
	default:
		return NewUnfiltered(c.Line)
	}
}
