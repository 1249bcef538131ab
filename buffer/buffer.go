package buffer

import (
	"fmt"
	"io"

	"github.com/google/btree"
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/line"
	"github.com/peco/filterless/source"
	"github.com/pkg/errors"
)

// Direction is the direction in which Next() moves the cursor
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "Backward"
	}
	return "Forward"
}

// LineError records a line that could not be decoded. The line itself is
// kept (with its content sanitized) so that numbering stays contiguous.
type LineError struct {
	Number int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Number, e.Err)
}

// Cause returns the underlying error
func (e *LineError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error
func (e *LineError) Unwrap() error {
	return e.Err
}

func lessLineError(a, b *LineError) bool {
	return a.Number < b.Number
}

// Buffer reads lines from a forward-only Source, numbers them, and
// remembers every line it has ever read so that they can be visited
// again in any order. The memo only ever grows.
type Buffer struct {
	src       source.Source
	lines     []line.Numbered
	last      int // number of the line most recently returned by Next
	direction Direction
	exhausted bool
	err       error
	lineErrs  *btree.BTreeG[*LineError]
}

// New creates a new Buffer reading from src
func New(src source.Source) *Buffer {
	return &Buffer{
		src:       src,
		direction: Forward,
		lineErrs:  btree.NewG(16, lessLineError),
	}
}

// fill reads from the source until n lines are memoized or the source
// runs out.
func (b *Buffer) fill(n int) {
	for !b.exhausted && len(b.lines) < n {
		num := len(b.lines) + 1
		content, err := b.src.ReadLine()
		switch {
		case err == nil:
		case err == io.EOF:
			if pdebug.Enabled {
				pdebug.Printf("Buffer: source exhausted after %d lines", len(b.lines))
			}
			b.exhausted = true
			return
		case errors.Is(err, source.ErrInvalidEncoding):
			b.lineErrs.ReplaceOrInsert(&LineError{Number: num, Err: err})
		default:
			// We can't skip a line without breaking the numbering, so
			// there is nothing more we can read.
			b.exhausted = true
			b.err = errors.Wrapf(err, "failed to read line %d", num)
			return
		}
		b.lines = append(b.lines, line.Numbered{Number: num, Content: content})
	}
}

// Get returns the line numbered n (1-based), reading from the source
// as necessary.
func (b *Buffer) Get(n int) (line.Numbered, bool) {
	if n < 1 {
		return line.Numbered{}, false
	}

	b.fill(n)
	if n > len(b.lines) {
		return line.Numbered{}, false
	}
	return b.lines[n-1], true
}

// Seek positions the cursor so that the next call to Next returns line n,
// and subsequent calls move in the given direction.
func (b *Buffer) Seek(n int, dir Direction) {
	b.direction = dir
	switch dir {
	case Backward:
		b.last = n + 1
	default:
		if n > 0 {
			b.last = n - 1
		} else {
			b.last = 0
		}
	}
}

// Next moves the cursor by one line in the current direction and returns
// that line. Moving backward is served from memory only.
func (b *Buffer) Next() (line.Numbered, bool) {
	var next int
	switch b.direction {
	case Backward:
		if b.last <= 1 {
			return line.Numbered{}, false
		}
		next = b.last - 1
	default:
		next = b.last + 1
	}

	l, ok := b.Get(next)
	if !ok {
		return line.Numbered{}, false
	}
	b.last = next
	return l, true
}

// Len returns the number of lines read so far
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Exhausted returns true once the source has nothing more to give
func (b *Buffer) Exhausted() bool {
	return b.exhausted
}

// Err returns the error that stopped reading, if any. Reaching the end
// of the source is not an error.
func (b *Buffer) Err() error {
	return b.err
}

// LineErr returns the decoding error recorded for line n, or nil
func (b *Buffer) LineErr(n int) error {
	e, ok := b.lineErrs.Get(&LineError{Number: n})
	if !ok {
		return nil
	}
	return e
}

// LineErrs returns all decoding errors recorded so far, in line order
func (b *Buffer) LineErrs() []*LineError {
	list := make([]*LineError, 0, b.lineErrs.Len())
	b.lineErrs.Ascend(func(e *LineError) bool {
		list = append(list, e)
		return true
	})
	return list
}
