package filterless

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/source"
	"github.com/peco/filterless/window"
	"github.com/pkg/errors"
)

// NewPager creates a Pager that shows src on screen. Nothing is read or
// drawn until Run is called.
func NewPager(screen Screen, src source.Source, cfg *config.Config) (*Pager, error) {
	km, err := NewKeymap(cfg.Keymap)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create keymap")
	}

	return &Pager{
		screen:   screen,
		src:      src,
		config:   cfg,
		keymap:   km,
		renderer: NewRenderer(cfg),
		context:  cfg.ContextLines,
	}, nil
}

// Window returns the window the pager drives. It is nil until the
// pager has been set up by Run.
func (p *Pager) Window() *window.Window {
	return p.window
}

// pageHeight is the number of rows available for lines, i.e. the
// screen minus the status line
func pageHeight(height int) int {
	if height <= 1 {
		return 1
	}
	return height - 1
}

// setup initializes the screen and shows the first page
func (p *Pager) setup() error {
	if err := p.screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}

	width, height := p.screen.Size()
	pred := filter.NewPredicate(p.config.InitialFilter, p.context)
	p.window = window.New(p.src, pred, width, pageHeight(height))
	p.window.NextPage()

	if pdebug.Enabled {
		pdebug.Printf("Pager: screen is %dx%d, predicate %s", width, height, pred)
	}
	return p.draw()
}

// Run shows the pager until the user quits or ctx is canceled. The
// screen is closed before Run returns.
func (p *Pager) Run(ctx context.Context) error {
	if err := p.setup(); err != nil {
		p.screen.Close()
		return err
	}
	defer p.screen.Close()

	evCh := p.screen.PollEvent(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-evCh:
			if !ok {
				return errors.New("terminal event stream closed")
			}
			p.handleEvent(ctx, ev)
			if p.quit {
				return nil
			}
			if err := p.draw(); err != nil {
				return err
			}
		}
	}
}

func (p *Pager) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		p.statusMsg = ""
		if p.prompting {
			p.handlePromptKey(ev)
			return
		}
		a, ok := p.keymap.LookupAction(ev)
		if !ok {
			tracer.Printf("no action bound to %q", KeyName(ev))
			return
		}
		a.Execute(ctx, p, ev)
	case *tcell.EventResize:
		p.resize()
	}
}

func (p *Pager) resize() {
	width, height := p.screen.Size()
	tracer.Printf("resized to %dx%d", width, height)
	p.window.Resize(width, pageHeight(height))
	p.window.Refill()
	p.screen.Sync()
}

// handlePromptKey edits the filter being typed
func (p *Pager) handlePromptKey(ev *tcell.EventKey) {
	switch KeyName(ev) {
	case "Enter":
		p.prompting = false
		pred := filter.NewPredicate(p.prompt.String(), p.context)
		p.applyPredicate(pred)
		return
	case "Esc", "C-c", "C-g":
		p.prompting = false
		return
	case "BS":
		p.prompt.DeleteBackwardChar()
		return
	case "Delete", "C-d":
		p.prompt.DeleteForwardChar()
		return
	case "ArrowLeft", "C-b":
		p.prompt.MoveCaret(-1)
		return
	case "ArrowRight", "C-f":
		p.prompt.MoveCaret(1)
		return
	case "C-a", "Home":
		p.prompt.BeginningOfLine()
		return
	case "C-e", "End":
		p.prompt.EndOfLine()
		return
	}

	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		p.prompt.Insert(ev.Rune())
	}
}

// status returns the text of the status line when not prompting. The
// one-shot message goes first so that a narrow screen cuts the summary
// instead.
func (p *Pager) status() string {
	var parts []string
	if p.statusMsg != "" {
		parts = append(parts, p.statusMsg)
	}

	if pred := p.window.Predicate(); pred != nil {
		parts = append(parts, fmt.Sprintf("filter: %q (context %d)", pred.Query, pred.Context))
	} else {
		parts = append(parts, "no filter")
	}

	start, end := p.window.Viewport()
	if end >= start && end > 0 {
		parts = append(parts, fmt.Sprintf("lines %d-%d", start, end))
	}

	if n := len(p.window.LineErrs()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d undecodable lines", n))
	}
	if err := p.window.Err(); err != nil {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, " | ")
}

func (p *Pager) draw() error {
	width, height := p.screen.Size()
	rows := pageHeight(height)

	lines := p.window.Visible()
	p.renderer.DrawLines(p.screen, lines, p.window.Predicate(), width, rows)

	if height > 1 {
		if p.prompting {
			p.renderer.DrawPrompt(p.screen, height-1, width, p.config.Prompt, p.prompt.String(), p.prompt.CaretColumn())
		} else {
			p.screen.HideCursor()
			p.renderer.DrawStatus(p.screen, height-1, width, p.status())
		}
	}

	return errors.Wrap(p.screen.Flush(), "failed to flush screen")
}
