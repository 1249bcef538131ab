package line

// Kind identifies what a Filtered line represents on screen.
type Kind int

const (
	Invalid    Kind = iota // Invalid is the zero value; no real line has it
	Gap                    // Gap stands in for one or more elided lines
	Context                // Context is a non-matching line shown around a match
	Match                  // Match is a line containing the filter string
	Unfiltered             // Unfiltered is a line emitted while no filter is active
)

// Numbered is a line of input tagged with its 1-based position in the
// source. Once created it is never modified; pass it around by value.
type Numbered struct {
	Number  int
	Content string
}

// Classified is a line that has been tested against the filter string,
// before it is known whether a filter is active at all.
type Classified struct {
	Match bool
	Line  Numbered
}

// Filtered is the unit handed to the presentation layer.
//
// For Gap lines Line is the zero value; a gap has no line number of its own.
type Filtered struct {
	Kind Kind
	Line Numbered
}
