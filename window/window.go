package window

import (
	"fmt"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/buffer"
	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/line"
	"github.com/peco/filterless/source"
)

// Window pages through the classified lines of a source. Every line it
// gets from the classifier is cached, so moving backward never has to
// classify anything again.
//
// Positions handled by Window (start, end, the arguments to Lines) are
// 1-based indices into the classified stream, not source line numbers.
type Window struct {
	classifier *filter.Classifier
	// lines read off classifier so far. Append-only until the predicate
	// changes.
	lines     []line.Filtered
	predicate *filter.Predicate
	width     int
	height    int
	// inclusive bounds of the lines on display. 0 means nothing yet.
	start int
	end   int
}

// New creates a Window over src. A nil predicate shows every line.
func New(src source.Source, p *filter.Predicate, width, height int) *Window {
	p = filter.Normalize(p)
	return &Window{
		classifier: filter.NewClassifier(buffer.New(src), p),
		predicate:  p,
		width:      width,
		height:     height,
	}
}

// SetPredicate replaces the predicate. The cache is dropped, the buffer
// is rewound to its first line and classification starts over from the
// top; the viewport is reset to empty. This costs a rescan of everything
// read so far on every call.
func (w *Window) SetPredicate(p *filter.Predicate) {
	p = filter.Normalize(p)

	buf := w.classifier.Release()
	buf.Seek(1, buffer.Forward)
	w.classifier = filter.NewClassifier(buf, p)
	w.predicate = p
	w.lines = nil

	// XXX resetting to the top loses the user's place in the file;
	// seeking the new classifier near the old position would be nicer.
	w.start = 0
	w.end = 0

	if pdebug.Enabled {
		pdebug.Printf("Window: predicate set to %s", p)
	}
}

// Predicate returns a copy of the current predicate, or nil
func (w *Window) Predicate() *filter.Predicate {
	return w.predicate.Clone()
}

// NextLine returns the line just below the viewport, and scrolls down by
// one line.
func (w *Window) NextLine() (line.Filtered, bool) {
	next := w.end + 1
	lines := w.Lines(next, 1)
	if len(lines) == 0 {
		return line.Filtered{}, false
	}

	w.end = next
	w.start = w.end - w.height + 1
	if w.start < 1 {
		w.start = 1
	}
	return lines[0], true
}

// PrevLine returns the line just above the viewport, and scrolls up by
// one line. Nothing is returned while the viewport is at the top.
func (w *Window) PrevLine() (line.Filtered, bool) {
	if w.end-w.height <= 0 {
		return line.Filtered{}, false
	}

	prev := w.end - w.height
	lines := w.Lines(prev, 1)
	if len(lines) == 0 {
		return line.Filtered{}, false
	}

	w.start = prev
	w.end--
	return lines[0], true
}

// NextPage returns up to a page of lines following the viewport. The
// result is shorter than a page (or empty) at the end of the stream.
func (w *Window) NextPage() []line.Filtered {
	return w.page(w.end + 1)
}

// PrevPage returns the page of lines ending just above the viewport,
// clamped so that it never starts before the first line.
func (w *Window) PrevPage() []line.Filtered {
	start := w.start - w.height
	if start < 1 {
		start = 1
	}
	return w.page(start)
}

func (w *Window) page(start int) []line.Filtered {
	lines := w.Lines(start, w.height)
	w.start = start
	w.end = start - 1 + len(lines)
	return lines
}

// Lines returns up to count lines starting at the 1-based index start,
// pulling from the classifier as necessary. The returned slice is a copy.
// Lines panics if start is less than 1.
func (w *Window) Lines(start, count int) []line.Filtered {
	if start < 1 {
		panic(fmt.Sprintf("window: first line must be at least 1; got %d", start))
	}

	from := start - 1
	to := from + count
	w.fill(to)
	if to > len(w.lines) {
		to = len(w.lines)
	}
	if from >= to {
		return []line.Filtered{}
	}

	out := make([]line.Filtered, to-from)
	copy(out, w.lines[from:to])
	return out
}

// fill pulls from the classifier until the cache holds limit lines, or
// the classifier runs out
func (w *Window) fill(limit int) {
	var pulled int
	for len(w.lines) < limit {
		l, ok := w.classifier.Next()
		if !ok {
			break
		}
		w.lines = append(w.lines, l)
		pulled++
	}

	if pdebug.Enabled && pulled > 0 {
		pdebug.Printf("Window: pulled %d lines (cache now %d)", pulled, len(w.lines))
	}
}

// Viewport returns the inclusive bounds of the lines on display. Both are
// 0 before anything has been displayed.
func (w *Window) Viewport() (int, int) {
	return w.start, w.end
}

// Visible returns the cached lines inside the viewport. It never reads
// from the source.
func (w *Window) Visible() []line.Filtered {
	from := w.start - 1
	if from < 0 {
		from = 0
	}
	to := w.end
	if to > len(w.lines) {
		to = len(w.lines)
	}
	if from >= to {
		return []line.Filtered{}
	}

	out := make([]line.Filtered, to-from)
	copy(out, w.lines[from:to])
	return out
}

// Err returns the error that stopped reading the source, if any
func (w *Window) Err() error {
	return w.classifier.Err()
}

// LineErrs returns the lines that could not be decoded, so far
func (w *Window) LineErrs() []*buffer.LineError {
	return w.classifier.LineErrs()
}

// Buffered returns the number of classified lines cached so far
func (w *Window) Buffered() int {
	return len(w.lines)
}

func (w *Window) Width() int {
	return w.width
}

func (w *Window) Height() int {
	return w.height
}

// Resize changes the dimensions of the window. Cached lines are kept;
// the viewport is extended or shrunk from its top.
func (w *Window) Resize(width, height int) {
	if height < 1 {
		height = 1
	}
	w.width = width
	w.height = height

	if w.start > 0 && w.end-w.start+1 > height {
		w.end = w.start + height - 1
	}
}

// Refill makes sure the viewport is as full as the stream allows, e.g.
// after the window grew. It returns the visible lines.
func (w *Window) Refill() []line.Filtered {
	if w.start < 1 {
		return w.NextPage()
	}
	return w.page(w.start)
}
