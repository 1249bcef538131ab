package filterless

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora/v3"
	"github.com/peco/filterless/buffer"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/line"
	"github.com/peco/filterless/source"
	"github.com/pkg/errors"
)

// dumpGutter is the width of the line number column in dump output.
// The number of lines is not known up front, so the width is fixed.
const dumpGutter = 6

// Dump writes every line pred lets through to d.Out: gap markers, line
// numbers, and the content with matches highlighted when d.Color is set.
// Lines that could not be decoded are reported to d.Err (if set) after
// the output.
func (d *Dumper) Dump(src source.Source, pred *filter.Predicate) error {
	au := aurora.NewAurora(d.Color)
	pred = filter.Normalize(pred)

	c := filter.NewClassifier(buffer.New(src), pred)
	defer c.Release()

	w := bufio.NewWriter(d.Out)
	var count int
	for {
		l, ok := c.Next()
		if !ok {
			break
		}
		d.writeLine(w, au, l, pred)
		count++
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	tracer.Printf("dumped %d lines", count)

	if d.Err != nil {
		for _, lerr := range c.LineErrs() {
			fmt.Fprintf(d.Err, "filterless: %s\n", lerr)
		}
	}
	return errors.Wrap(c.Err(), "failed to read input")
}

func (d *Dumper) writeLine(w *bufio.Writer, au aurora.Aurora, l line.Filtered, pred *filter.Predicate) {
	if l.IsGap() {
		fmt.Fprintln(w, au.Blue(d.gapMarker()))
		return
	}

	fmt.Fprintf(w, "%s ", au.Yellow(fmt.Sprintf("%*d", dumpGutter, l.Number())))

	content := l.Content()
	if l.Kind != line.Match || !d.Color {
		fmt.Fprintln(w, content)
		return
	}

	var sb strings.Builder
	last := 0
	for _, m := range pred.Indices(content) {
		sb.WriteString(content[last:m[0]])
		sb.WriteString(au.Bold(au.Cyan(content[m[0]:m[1]])).String())
		last = m[1]
	}
	sb.WriteString(content[last:])
	fmt.Fprintln(w, sb.String())
}

func (d *Dumper) gapMarker() string {
	if d.GapMarker == "" {
		return config.DefaultGapMarker
	}
	return d.GapMarker
}
