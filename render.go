package filterless

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/line"
)

// cell is a single rune of a line ready to be drawn
type cell struct {
	ch      rune
	width   int
	matched bool
}

// NewRenderer creates a Renderer from the display settings in cfg
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		styles:    NewStyleSet(&cfg.Style),
		gapMarker: cfg.GapMarker,
		tabWidth:  cfg.TabWidth,
	}
}

// gutterWidth returns the number of digits in the largest line number
// among lines
func gutterWidth(lines []line.Filtered) int {
	maxNum := 0
	for _, l := range lines {
		if n := l.Number(); n > maxNum {
			maxNum = n
		}
	}
	return len(strconv.Itoa(maxNum))
}

// layoutCells expands s into cells, replacing tabs with spaces up to the
// next tab stop and flagging the runes inside matches (byte ranges).
func layoutCells(s string, matches [][]int, tabWidth int) []cell {
	cells := make([]cell, 0, len(s))
	col := 0
	m := 0
	for i, r := range s {
		for m < len(matches) && i >= matches[m][1] {
			m++
		}
		matched := m < len(matches) && i >= matches[m][0]

		if r == '\t' {
			n := tabWidth - col%tabWidth
			for j := 0; j < n; j++ {
				cells = append(cells, cell{ch: ' ', width: 1, matched: matched})
			}
			col += n
			continue
		}

		w := runewidth.RuneWidth(r)
		if w == 0 {
			// control and combining characters would corrupt the
			// screen; show them as a replacement
			r, w = '?', 1
		}
		cells = append(cells, cell{ch: r, width: w, matched: matched})
		col += w
	}
	return cells
}

// drawText draws s at (x, y) clipped at maxX, and returns the x
// coordinate after the last drawn cell.
func drawText(s Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			break
		}
		s.SetCell(x, y, r, style)
		x += w
	}
	return x
}

func fillRow(s Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// DrawLines draws lines at the top of the screen, one per row, and
// blanks the remaining rows up to height. Occurrences of the query of
// pred are highlighted on matching lines.
func (r *Renderer) DrawLines(s Screen, lines []line.Filtered, pred *filter.Predicate, width, height int) {
	gutter := gutterWidth(lines)

	for y := 0; y < height; y++ {
		if y >= len(lines) {
			fillRow(s, 0, y, width, r.styles.Basic)
			continue
		}
		r.drawLine(s, y, lines[y], pred, gutter, width)
	}
}

func (r *Renderer) drawLine(s Screen, y int, l line.Filtered, pred *filter.Predicate, gutter, width int) {
	if l.IsGap() {
		x := drawText(s, 0, y, width, r.gapMarker, r.styles.Gap)
		fillRow(s, x, y, width, r.styles.Basic)
		return
	}

	num := strconv.Itoa(l.Number())
	x := 0
	for i := len(num); i < gutter && x < width; i++ {
		s.SetCell(x, y, ' ', r.styles.Basic)
		x++
	}
	x = drawText(s, x, y, width, num, r.styles.LineNumber)
	if x < width {
		s.SetCell(x, y, ' ', r.styles.Basic)
		x++
	}

	var matches [][]int
	if l.Kind == line.Match {
		matches = pred.Indices(l.Content())
	}

	for _, c := range layoutCells(l.Content(), matches, r.tabWidth) {
		if x+c.width > width {
			break
		}
		style := r.styles.Basic
		if c.matched {
			style = r.styles.Matched
		}
		s.SetCell(x, y, c.ch, style)
		x += c.width
	}
	fillRow(s, x, y, width, r.styles.Basic)
}

// DrawStatus draws msg across row y in the status style
func (r *Renderer) DrawStatus(s Screen, y, width int, msg string) {
	x := drawText(s, 0, y, width, msg, r.styles.Status)
	fillRow(s, x, y, width, r.styles.Status)
}

// DrawPrompt draws the filter prompt on row y and places the cursor at
// the caret. The text scrolls horizontally to keep the caret visible.
func (r *Renderer) DrawPrompt(s Screen, y, width int, prompt string, text string, caretCol int) {
	x := drawText(s, 0, y, width, prompt, r.styles.Prompt)

	avail := width - x - 1
	if avail < 0 {
		avail = 0
	}

	skip := 0
	if caretCol > avail {
		skip = caretCol - avail
	}

	col := 0
	tx := x
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			w = 1
		}
		if col < skip {
			col += w
			continue
		}
		if tx+w > width {
			break
		}
		s.SetCell(tx, y, ch, r.styles.Basic)
		tx += w
		col += w
	}
	fillRow(s, tx, y, width, r.styles.Basic)
	s.SetCursor(x+caretCol-skip, y)
}
