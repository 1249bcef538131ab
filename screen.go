package filterless

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
)

// NewTcellScreen creates a TcellScreen that draws on the terminal
func NewTcellScreen() *TcellScreen {
	return &TcellScreen{errWriter: os.Stderr}
}

// newTcellScreenWith wraps an existing (usually simulated) tcell.Screen
func newTcellScreenWith(s tcell.Screen) *TcellScreen {
	return &TcellScreen{screen: s, errWriter: os.Stderr}
}

func (t *TcellScreen) Init() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "failed to create tcell screen")
		}
		t.screen = s
	}

	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize tcell screen")
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

// Close finalizes the screen. It is safe to call more than once.
func (t *TcellScreen) Close() error {
	if pdebug.Enabled {
		pdebug.Printf("TcellScreen: Close")
	}
	t.mutex.Lock()
	scr := t.screen
	t.screen = nil
	t.mutex.Unlock()

	if scr != nil {
		scr.Fini()
	}
	return nil
}

func (t *TcellScreen) SetCell(x, y int, ch rune, style tcell.Style) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.SetContent(x, y, ch, nil, style)
}

func (t *TcellScreen) SetCursor(x, y int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.ShowCursor(x, y)
}

func (t *TcellScreen) HideCursor() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.HideCursor()
}

// Size returns the dimensions of the current terminal
func (t *TcellScreen) Size() (int, int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

func (t *TcellScreen) Flush() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return nil
	}
	t.screen.Show()
	return nil
}

func (t *TcellScreen) Sync() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.Sync()
}

// PollEvent returns a channel that you can listen to for terminal
// events. The actual polling is done in a separate goroutine, which
// exits when the screen is closed or ctx is done.
func (t *TcellScreen) PollEvent(ctx context.Context) chan tcell.Event {
	evCh := make(chan tcell.Event)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(t.errWriter, "filterless: panic in PollEvent goroutine: %v\n%s", r, debug.Stack())
			}
			close(evCh)
		}()

		for {
			t.mutex.Lock()
			scr := t.screen
			t.mutex.Unlock()

			if scr == nil {
				return
			}

			ev := scr.PollEvent()
			if ev == nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case evCh <- ev:
			}
		}
	}()
	return evCh
}
