package filter

import (
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/buffer"
	"github.com/peco/filterless/line"
)

// Classifier turns the lines of a Buffer into a stream of Filtered lines.
//
// While a predicate is active it keeps a window of 2*Context+1 classified
// lines: Context lines of look-behind, the current line in the middle,
// and Context lines of look-ahead. The current line is shown if any line
// in the window matches. Runs of lines that can't be shown are skipped in
// one go and reported as a single gap.
//
// Without a predicate the window holds a single line and every line is
// passed through as Unfiltered.
type Classifier struct {
	predicate *Predicate
	buf       *buffer.Buffer
	// earlier lines at lower indices. nil slots exist only before the
	// first line and after the last one.
	window []*line.Classified
	gap    GapState
}

// NewClassifier creates a Classifier reading from buf, starting at the
// buffer's current cursor position. A nil predicate disables filtering.
func NewClassifier(buf *buffer.Buffer, p *Predicate) *Classifier {
	p = Normalize(p)
	c := &Classifier{
		predicate: p,
		buf:       buf,
		gap:       GapNone,
	}

	if p == nil {
		c.window = make([]*line.Classified, 0, 1)
		return c
	}

	size := 2*p.Context + 1
	// Context+1 empty slots, so that after the first advance the first
	// line sits in the middle.
	c.window = make([]*line.Classified, p.Context+1, size)
	for len(c.window) < size {
		l, ok := buf.Next()
		if !ok {
			break
		}
		c.window = append(c.window, c.classify(l))
	}
	for len(c.window) < size {
		c.window = append(c.window, nil)
	}

	if pdebug.Enabled {
		pdebug.Printf("Classifier: created with predicate %s", p)
	}
	return c
}

// Predicate returns a copy of the active predicate, or nil
func (c *Classifier) Predicate() *Predicate {
	return c.predicate.Clone()
}

// Release hands the underlying buffer back to the caller. The classifier
// must not be used afterwards.
func (c *Classifier) Release() *buffer.Buffer {
	buf := c.buf
	c.buf = nil
	c.window = nil
	return buf
}

// Err returns the error that stopped the underlying buffer, if any
func (c *Classifier) Err() error {
	if c.buf == nil {
		return nil
	}
	return c.buf.Err()
}

// LineErrs returns the decoding errors recorded by the underlying buffer
func (c *Classifier) LineErrs() []*buffer.LineError {
	if c.buf == nil {
		return nil
	}
	return c.buf.LineErrs()
}

func (c *Classifier) classify(l line.Numbered) *line.Classified {
	return &line.Classified{
		Match: c.predicate != nil && c.predicate.Matches(l.Content),
		Line:  l,
	}
}

// shift drops the oldest slot and appends item
func (c *Classifier) shift(item *line.Classified) {
	if len(c.window) == 0 {
		c.window = append(c.window, item)
		return
	}
	copy(c.window, c.window[1:])
	c.window[len(c.window)-1] = item
}

func (c *Classifier) hasMatch() bool {
	for _, slot := range c.window {
		if slot != nil && slot.Match {
			return true
		}
	}
	return false
}

// advance moves the window forward by one line. If that leaves no match
// in the window, it keeps moving until a match comes into view (and
// records a gap), or until the buffer runs out, in which case the window
// is emptied for good.
func (c *Classifier) advance() {
	if c.predicate == nil {
		if len(c.window) > 0 {
			c.window = c.window[:0]
		}
		if l, ok := c.buf.Next(); ok {
			c.window = append(c.window, c.classify(l))
		}
		return
	}

	var item *line.Classified
	if l, ok := c.buf.Next(); ok {
		item = c.classify(l)
	}
	c.shift(item)

	var skipped int
	for !c.hasMatch() {
		l, ok := c.buf.Next()
		if !ok {
			c.window = c.window[:0]
			break
		}

		item := c.classify(l)
		if item.Match {
			c.gap = GapCurrent
		}
		c.shift(item)
		skipped++
	}

	if pdebug.Enabled && skipped > 0 {
		pdebug.Printf("Classifier: skipped %d lines (gap=%s)", skipped, c.gap)
	}
}

// current returns the line in the middle of the window, if any
func (c *Classifier) current() (line.Filtered, bool) {
	idx := 0
	if c.predicate != nil {
		idx = c.predicate.Context
	}

	if idx >= len(c.window) || c.window[idx] == nil {
		return line.Filtered{}, false
	}
	return c.window[idx].Filtered(c.predicate != nil), true
}

// Next returns the next line to be displayed. The second return value is
// false once the buffer has been exhausted.
func (c *Classifier) Next() (line.Filtered, bool) {
	if c.buf == nil {
		panic("filter: Classifier used after Release")
	}

	if c.gap != GapNone {
		c.gap = GapNone
		return c.current()
	}

	c.advance()
	if c.gap == GapCurrent {
		// The window was just filled past the gap; show the marker now
		// and the current line on the next call.
		c.gap = GapPrevious
		return line.NewGap(), true
	}
	return c.current()
}
