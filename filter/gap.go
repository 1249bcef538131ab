package filter

// GapState tracks whether the classifier has just skipped over lines
// that are not shown. It guarantees that a gap marker is emitted between
// two groups of lines, and never twice in a row.
type GapState int

const (
	// GapNone means no gap was produced in the last two steps
	GapNone GapState = iota
	// GapCurrent means lines were skipped while filling the window, and a
	// gap marker is due
	GapCurrent
	// GapPrevious means the previous step emitted a gap marker
	GapPrevious
)

func (g GapState) String() string {
	switch g {
	case GapCurrent:
		return "GapCurrent"
	case GapPrevious:
		return "GapPrevious"
	default:
		return "GapNone"
	}
}
