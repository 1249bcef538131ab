package filterless

import (
	"github.com/gdamore/tcell/v2"
	"github.com/peco/filterless/config"
)

// NewStyleSet converts the configured styles to tcell styles
func NewStyleSet(ss *config.StyleSet) StyleSet {
	return StyleSet{
		Basic:      styleToTcell(ss.Basic),
		Matched:    styleToTcell(ss.Matched),
		LineNumber: styleToTcell(ss.LineNumber),
		Gap:        styleToTcell(ss.Gap),
		Prompt:     styleToTcell(ss.Prompt),
		Status:     styleToTcell(ss.Status),
	}
}

func styleToTcell(s config.Style) tcell.Style {
	return tcell.StyleDefault.
		Foreground(colorToTcell(s.Fg)).
		Background(colorToTcell(s.Bg)).
		Bold(s.Bold).
		Underline(s.Underline).
		Reverse(s.Reverse)
}

func colorToTcell(c config.Color) tcell.Color {
	switch c.Kind {
	case config.ColorKindPalette:
		return tcell.PaletteColor(int(c.Value))
	case config.ColorKindRGB:
		return tcell.NewHexColor(int32(c.Value))
	default:
		return tcell.ColorDefault
	}
}
