package query

import "github.com/mattn/go-runewidth"

// Text is the line being edited at the filter prompt, along with the
// position of the caret inside it. The caret is a rune index in the
// range [0, Len()].
type Text struct {
	query []rune
	caret int
}

// Set replaces the text and moves the caret to its end
func (q *Text) Set(s string) {
	q.query = []rune(s)
	q.caret = len(q.query)
}

func (q *Text) Reset() {
	q.query = nil
	q.caret = 0
}

func (q *Text) String() string {
	return string(q.query)
}

func (q *Text) Len() int {
	return len(q.query)
}

// RuneSlice returns a copy of the query runes
func (q *Text) RuneSlice() []rune {
	out := make([]rune, len(q.query))
	copy(out, q.query)
	return out
}

// Caret returns the caret position
func (q *Text) Caret() int {
	return q.caret
}

// SetCaret moves the caret to p, clamped to the text
func (q *Text) SetCaret(p int) {
	switch {
	case p < 0:
		p = 0
	case p > len(q.query):
		p = len(q.query)
	}
	q.caret = p
}

// MoveCaret moves the caret by diff runes, clamped to the text
func (q *Text) MoveCaret(diff int) {
	q.SetCaret(q.caret + diff)
}

// BeginningOfLine moves the caret before the first rune
func (q *Text) BeginningOfLine() {
	q.caret = 0
}

// EndOfLine moves the caret after the last rune
func (q *Text) EndOfLine() {
	q.caret = len(q.query)
}

// Insert inserts ch at the caret and advances the caret past it
func (q *Text) Insert(ch rune) {
	if q.caret == len(q.query) {
		q.query = append(q.query, ch)
		q.caret++
		return
	}

	buf := make([]rune, len(q.query)+1)
	copy(buf, q.query[:q.caret])
	buf[q.caret] = ch
	copy(buf[q.caret+1:], q.query[q.caret:])
	q.query = buf
	q.caret++
}

// DeleteBackwardChar deletes the rune before the caret. It returns
// false if there was nothing to delete.
func (q *Text) DeleteBackwardChar() bool {
	if q.caret == 0 {
		return false
	}
	q.deleteRange(q.caret-1, q.caret)
	q.caret--
	return true
}

// DeleteForwardChar deletes the rune under the caret. It returns false
// if the caret is at the end of the text.
func (q *Text) DeleteForwardChar() bool {
	if q.caret >= len(q.query) {
		return false
	}
	q.deleteRange(q.caret, q.caret+1)
	return true
}

// deleteRange deletes runes in the range [start, end). Both bounds must
// already be valid.
func (q *Text) deleteRange(start, end int) {
	l := len(q.query)
	copy(q.query[start:], q.query[end:])
	q.query = q.query[:l-(end-start)]
}

// CaretColumn returns the display width of the runes before the caret,
// i.e. the column the terminal cursor belongs in relative to the start
// of the text.
func (q *Text) CaretColumn() int {
	return runewidth.StringWidth(string(q.query[:q.caret]))
}
