package window

import (
	"testing"

	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/line"
	"github.com/peco/filterless/source"
	"github.com/stretchr/testify/require"
)

var numberWords = []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func unfiltered(n int) line.Filtered {
	return line.NewUnfiltered(line.Numbered{Number: n, Content: numberWords[n-1]})
}

func unfilteredRange(from, to int) []line.Filtered {
	out := []line.Filtered{}
	for i := from; i <= to; i++ {
		out = append(out, unfiltered(i))
	}
	return out
}

func requireLine(t *testing.T, expected line.Filtered, got line.Filtered, ok bool) {
	t.Helper()
	require.True(t, ok, "expected %s, got nothing", expected)
	require.Equal(t, expected, got)
}

func TestPrevNext(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)

	_, ok := w.PrevLine()
	require.False(t, ok, "PrevLine on a fresh window returns nothing")

	for i := 1; i <= 10; i++ {
		l, ok := w.NextLine()
		requireLine(t, unfiltered(i), l, ok)
	}
	_, ok = w.NextLine()
	require.False(t, ok)

	start, end := w.Viewport()
	require.Equal(t, 8, start)
	require.Equal(t, 10, end)

	for i := 7; i >= 1; i-- {
		l, ok := w.PrevLine()
		requireLine(t, unfiltered(i), l, ok)
	}
	_, ok = w.PrevLine()
	require.False(t, ok)

	start, end = w.Viewport()
	require.Equal(t, 1, start)
	require.Equal(t, 3, end)
}

func TestNoLineIsNotAGap(t *testing.T) {
	w := New(source.FromStrings("a match", "other"), filter.NewPredicate("match", 0), 80, 3)

	l, ok := w.PrevLine()
	require.False(t, ok)
	require.False(t, l.IsGap())

	w.NextPage()
	l, ok = w.NextLine()
	require.False(t, ok)
	require.False(t, l.IsGap())
	require.Equal(t, line.Invalid, l.Kind)
}

func TestPaging(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)

	require.Equal(t, unfilteredRange(1, 3), w.PrevPage())
	require.Equal(t, unfilteredRange(4, 6), w.NextPage())
	require.Equal(t, unfilteredRange(7, 9), w.NextPage())
	require.Equal(t, unfilteredRange(10, 10), w.NextPage())
	require.Empty(t, w.NextPage())
	require.Empty(t, w.NextPage())

	require.Equal(t, unfilteredRange(8, 10), w.PrevPage())
	require.Equal(t, unfilteredRange(5, 7), w.PrevPage())
	require.Equal(t, unfilteredRange(2, 4), w.PrevPage())
	require.Equal(t, unfilteredRange(1, 3), w.PrevPage())
	require.Equal(t, unfilteredRange(1, 3), w.PrevPage())

	require.Equal(t, unfilteredRange(4, 6), w.NextPage())
}

func TestPagingFromStart(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)

	require.Equal(t, unfilteredRange(1, 3), w.NextPage())
	require.Equal(t, unfilteredRange(4, 6), w.NextPage())
	require.Equal(t, unfilteredRange(7, 9), w.NextPage())
	require.Equal(t, unfilteredRange(10, 10), w.NextPage())
	require.Empty(t, w.NextPage())

	require.Equal(t, unfilteredRange(8, 10), w.PrevPage())
	require.Equal(t, unfilteredRange(5, 7), w.PrevPage())
}

func TestPrevPageAfterScrolling(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)

	require.Equal(t, unfilteredRange(1, 3), w.NextPage())
	for i := 4; i <= 7; i++ {
		l, ok := w.NextLine()
		requireLine(t, unfiltered(i), l, ok)
	}
	// the viewport now shows 5-7; the page above it is 2-4
	require.Equal(t, unfilteredRange(5, 7), w.Visible())
	require.Equal(t, unfilteredRange(2, 4), w.PrevPage())
}

func TestPredicate(t *testing.T) {
	w := New(source.FromStrings(numberWords...), filter.NewPredicate("t", 0), 80, 3)

	match := func(n int) line.Filtered { return line.NewMatch(line.Numbered{Number: n, Content: numberWords[n-1]}) }
	context := func(n int) line.Filtered { return line.NewContext(line.Numbered{Number: n, Content: numberWords[n-1]}) }

	expected := []line.Filtered{
		line.NewGap(), match(2), match(3), line.NewGap(), match(8), line.NewGap(), match(10),
	}
	for _, e := range expected {
		l, ok := w.NextLine()
		requireLine(t, e, l, ok)
	}
	_, ok := w.NextLine()
	require.False(t, ok)

	w.SetPredicate(filter.NewPredicate("t", 1))
	start, end := w.Viewport()
	require.Equal(t, 0, start)
	require.Equal(t, 0, end)
	require.Equal(t, 0, w.Buffered())

	expected = []line.Filtered{
		context(1), match(2), match(3), context(4), line.NewGap(), context(7), match(8), context(9), match(10),
	}
	for _, e := range expected {
		l, ok := w.NextLine()
		requireLine(t, e, l, ok)
	}
	_, ok = w.NextLine()
	require.False(t, ok)

	w.SetPredicate(nil)
	require.Nil(t, w.Predicate())
	l, ok := w.NextLine()
	requireLine(t, unfiltered(1), l, ok)
}

func TestSetPredicateRestartsFromTop(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)
	w.NextPage()
	w.NextPage()

	w.SetPredicate(filter.NewPredicate("e", 0))
	l, ok := w.NextLine()
	requireLine(t, line.NewMatch(line.Numbered{Number: 1, Content: "one"}), l, ok)

	// an empty query is the same as no predicate
	w.SetPredicate(&filter.Predicate{Query: "", Context: 4})
	require.Nil(t, w.Predicate())
	require.Equal(t, unfilteredRange(1, 3), w.NextPage())
}

func TestSetPredicateDoesNotRereadSource(t *testing.T) {
	src := source.NewCounting(source.FromStrings(numberWords...))
	w := New(src, nil, 80, 3)

	w.Lines(1, 20)
	calls := src.Calls()
	require.Equal(t, 11, calls)

	w.SetPredicate(filter.NewPredicate("t", 1))
	w.Lines(1, 20)
	require.Equal(t, calls, src.Calls(), "lines are replayed from the buffer")
}

func TestLinesIdempotent(t *testing.T) {
	src := source.NewCounting(source.FromStrings(numberWords...))
	w := New(src, filter.NewPredicate("e", 1), 80, 3)

	first := w.Lines(2, 4)
	calls := src.Calls()

	second := w.Lines(2, 4)
	require.Equal(t, first, second)
	require.Equal(t, calls, src.Calls())
}

func TestLinesReturnsCopy(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)
	lines := w.Lines(1, 2)
	lines[0] = line.NewGap()
	require.Equal(t, unfiltered(1), w.Lines(1, 1)[0])
}

func TestLinesPastEnd(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)
	require.Equal(t, unfilteredRange(9, 10), w.Lines(9, 5))
	require.Empty(t, w.Lines(20, 5))
	require.Empty(t, w.Lines(1, 0))
}

func TestLinesRejectsZero(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 3)
	require.Panics(t, func() { w.Lines(0, 1) })
}

func TestContextScenario(t *testing.T) {
	src := source.FromStrings("none", "ctx", "ctx", "match", "ctx", "ctx", "none", "none", "ctx", "ctx", "match", "ctx")
	w := New(src, filter.NewPredicate("match", 2), 80, 4)

	page := w.NextPage()
	require.Len(t, page, 4)
	require.True(t, page[0].IsGap())
	require.Equal(t, 2, page[1].Number())
	require.Equal(t, line.Match, page[3].Kind)

	page = w.NextPage()
	require.Len(t, page, 4)
	require.Equal(t, 5, page[0].Number())
	require.True(t, page[2].IsGap())
	require.Equal(t, 9, page[3].Number())

	page = w.NextPage()
	require.Len(t, page, 3)
	require.Equal(t, line.Match, page[1].Kind)
	require.Equal(t, 12, page[2].Number())

	require.Empty(t, w.NextPage())
}

func TestResize(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 5)
	require.Equal(t, unfilteredRange(1, 5), w.NextPage())

	w.Resize(40, 3)
	require.Equal(t, 40, w.Width())
	require.Equal(t, 3, w.Height())
	require.Equal(t, unfilteredRange(1, 3), w.Visible())

	w.Resize(40, 6)
	require.Equal(t, unfilteredRange(1, 3), w.Visible())
	require.Equal(t, unfilteredRange(1, 6), w.Refill())
}

func TestRefillEmptyWindow(t *testing.T) {
	w := New(source.FromStrings(numberWords...), nil, 80, 2)
	require.Empty(t, w.Visible())
	require.Equal(t, unfilteredRange(1, 2), w.Refill())
}

type brokenSource struct{ n int }

func (b *brokenSource) ReadLine() (string, error) {
	b.n++
	if b.n > 2 {
		return "", errBroken
	}
	return "ok", nil
}

type brokenErr struct{}

func (brokenErr) Error() string { return "broken" }

var errBroken = brokenErr{}

func TestErrSurfacesFromBuffer(t *testing.T) {
	w := New(&brokenSource{}, nil, 80, 5)
	require.Len(t, w.NextPage(), 2)
	require.Error(t, w.Err())

	// the error survives a predicate change
	w.SetPredicate(filter.NewPredicate("ok", 0))
	require.Error(t, w.Err())
	require.Len(t, w.NextPage(), 2)
}
