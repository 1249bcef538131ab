package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StyleSet holds the style of each part of the pager screen
type StyleSet struct {
	Basic      Style `json:"Basic" yaml:"Basic"`
	Matched    Style `json:"Matched" yaml:"Matched"`
	LineNumber Style `json:"LineNumber" yaml:"LineNumber"`
	Gap        Style `json:"Gap" yaml:"Gap"`
	Prompt     Style `json:"Prompt" yaml:"Prompt"`
	Status     Style `json:"Status" yaml:"Status"`
}

// ColorKind tells how the Value of a Color is to be read
type ColorKind uint8

const (
	// ColorKindDefault is the terminal's own color; Value is unused
	ColorKindDefault ColorKind = iota
	// ColorKindPalette is an index (0-255) into the terminal palette
	ColorKindPalette
	// ColorKindRGB is a 24 bit 0xRRGGBB value
	ColorKindRGB
)

// Color is a foreground or background color
type Color struct {
	Kind  ColorKind
	Value uint32
}

// DefaultColor leaves the color up to the terminal
var DefaultColor = Color{}

// PaletteColor returns the n-th color of the 256 color palette
func PaletteColor(n uint8) Color {
	return Color{Kind: ColorKindPalette, Value: uint32(n)}
}

// RGBColor returns a true color value given as 0xRRGGBB
func RGBColor(rgb uint32) Color {
	return Color{Kind: ColorKindRGB, Value: rgb & 0xffffff}
}

// The first eight palette entries, in palette order
var namedColors = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Named palette colors
var (
	ColorBlack   = PaletteColor(0)
	ColorRed     = PaletteColor(1)
	ColorGreen   = PaletteColor(2)
	ColorYellow  = PaletteColor(3)
	ColorBlue    = PaletteColor(4)
	ColorMagenta = PaletteColor(5)
	ColorCyan    = PaletteColor(6)
	ColorWhite   = PaletteColor(7)
)

// ParseColor reads a color name ("red", "default"), a palette index
// ("214") or an RGB value ("#ff8800")
func ParseColor(s string) (Color, error) {
	if s == "default" {
		return DefaultColor, nil
	}

	for i, name := range namedColors {
		if s == name {
			return PaletteColor(uint8(i)), nil
		}
	}

	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
		}
		rgb, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return RGBColor(uint32(rgb)), nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	return PaletteColor(uint8(n)), nil
}

// Style is a pair of colors plus text attributes
type Style struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Underline bool
	Reverse   bool
}

// NewStyleSet creates a StyleSet holding the default styles
func NewStyleSet() *StyleSet {
	ss := &StyleSet{}
	ss.Init()
	return ss
}

// Init sets the default styles: cyan bold matches, a yellow gutter,
// blue gap markers and a reversed status line.
func (ss *StyleSet) Init() {
	*ss = StyleSet{
		Matched:    Style{Fg: ColorCyan, Bold: true},
		LineNumber: Style{Fg: ColorYellow},
		Gap:        Style{Fg: ColorBlue},
		Prompt:     Style{Bold: true},
		Status:     Style{Reverse: true},
	}
}

// UnmarshalJSON reads a style from a list of words, e.g.
// ["cyan", "bold", "on_red"]
func (s *Style) UnmarshalJSON(buf []byte) error {
	var words []string
	if err := json.Unmarshal(buf, &words); err != nil {
		return fmt.Errorf("failed to unmarshal Style: %w", err)
	}
	return s.parse(words)
}

// UnmarshalYAML reads a style from a YAML sequence of words.
func (s *Style) UnmarshalYAML(unmarshal func(any) error) error {
	var words []string
	if err := unmarshal(&words); err != nil {
		return fmt.Errorf("failed to unmarshal Style from YAML: %w", err)
	}
	return s.parse(words)
}

func (s *Style) parse(words []string) error {
	style, err := ParseStyle(words)
	if err != nil {
		return err
	}
	*s = style
	return nil
}

// ParseStyle builds a Style from words: a color sets the foreground, an
// "on_" color the background, and "bold", "underline" or "reverse" turn
// on that attribute. Later colors override earlier ones. Unknown words
// are an error.
func ParseStyle(words []string) (Style, error) {
	var style Style
	for _, w := range words {
		switch w {
		case "bold":
			style.Bold = true
			continue
		case "underline":
			style.Underline = true
			continue
		case "reverse":
			style.Reverse = true
			continue
		}

		if bg, ok := strings.CutPrefix(w, "on_"); ok {
			c, err := ParseColor(bg)
			if err != nil {
				return Style{}, fmt.Errorf("invalid background: %w", err)
			}
			style.Bg = c
			continue
		}

		c, err := ParseColor(w)
		if err != nil {
			return Style{}, fmt.Errorf("invalid style word: %w", err)
		}
		style.Fg = c
	}
	return style, nil
}
