package filterless

import (
	"context"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/query"
	"github.com/peco/filterless/source"
	"github.com/peco/filterless/window"
)

const version = "v0.1.0"

// Screen is the terminal the pager draws on. Coordinates are 0-based
// cells, y growing downward.
type Screen interface {
	Init() error
	Close() error
	SetCell(x, y int, ch rune, style tcell.Style)
	SetCursor(x, y int)
	HideCursor()
	Size() (int, int)
	Flush() error
	Sync()
	PollEvent(context.Context) chan tcell.Event
}

// TcellScreen implements Screen on top of a tcell.Screen
type TcellScreen struct {
	mutex     sync.Mutex
	screen    tcell.Screen
	errWriter io.Writer // destination for error output (defaults to os.Stderr)
}

// Action describes an action that can be executed upon receiving user input.
type Action interface {
	Execute(context.Context, *Pager, *tcell.EventKey)
}

// ActionFunc is a type of Action that is basically just a callback.
type ActionFunc func(context.Context, *Pager, *tcell.EventKey)

// Keymap maps key names (as returned by KeyName) to actions
type Keymap map[string]Action

// StyleSet is config.StyleSet converted to tcell styles
type StyleSet struct {
	Basic      tcell.Style
	Matched    tcell.Style
	LineNumber tcell.Style
	Gap        tcell.Style
	Prompt     tcell.Style
	Status     tcell.Style
}

// Renderer draws lines of the window and the status line onto a Screen
type Renderer struct {
	styles    StyleSet
	gapMarker string
	tabWidth  int
}

// Pager is the interactive pager: it reads key events from a Screen,
// drives a window.Window and renders what it shows.
type Pager struct {
	screen   Screen
	src      source.Source
	config   *config.Config
	keymap   Keymap
	renderer *Renderer
	window   *window.Window

	// context radius used for the next filter
	context int

	prompt    query.Text
	prompting bool

	// one-shot message shown in the status line until the next key
	statusMsg string
	quit      bool
}

// CLIOptions are the command line options
type CLIOptions struct {
	OptHelp       bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion    bool   `long:"version" description:"print the version and exit"`
	OptRcfile     string `long:"rcfile" description:"path to the settings file"`
	OptContext    *int   `short:"C" long:"context" description:"number of lines to show around each match"`
	OptFilter     string `short:"f" long:"filter" description:"initial value for the filter"`
	OptBufferSize int    `short:"b" long:"buffer-size" description:"longest accepted input line, in KB"`
	OptNoColor    bool   `long:"nocolor" description:"do not color output written outside of the terminal UI"`
	OptStripANSI  bool   `long:"strip-ansi" description:"remove terminal escape sequences from the input"`
	OptDump       bool   `long:"dump" description:"write the filtered input to stdout instead of paging it"`
}

// CLI is the command line entry point
type CLI struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// screen is used instead of a real terminal when non-nil
	screen Screen
}

// Dumper writes the classified lines of a source as plain text
type Dumper struct {
	Out       io.Writer
	Err       io.Writer
	Color     bool
	GapMarker string
}
