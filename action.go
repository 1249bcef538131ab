package filterless

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/filter"
)

// This is the global map of canonical action name to actions
var nameToActions map[string]Action

// This is the default keybinding used by NewKeymap()
var defaultKeyBinding map[string]Action

// Execute fulfills the Action interface for ActionFunc
func (a ActionFunc) Execute(ctx context.Context, p *Pager, ev *tcell.EventKey) {
	a(ctx, p, ev)
}

// Register registers `a` into the global action registry by the name
// `name`, and maps to default keys via `defaultKeys`. Called during
// package init() to set up built-in actions.
func (a ActionFunc) Register(name string, defaultKeys ...string) {
	nameToActions["filterless."+name] = a
	for _, k := range defaultKeys {
		defaultKeyBinding[k] = a
	}
}

func init() {
	// Build the global maps
	nameToActions = map[string]Action{}
	defaultKeyBinding = map[string]Action{}

	ActionFunc(doNextLine).Register("NextLine", "j", "ArrowDown", "Enter", "C-n")
	ActionFunc(doPrevLine).Register("PrevLine", "k", "ArrowUp", "C-p")
	ActionFunc(doNextPage).Register("NextPage", "Space", "f", "C-d", "Pgdn")
	ActionFunc(doPrevPage).Register("PrevPage", "b", "C-u", "Pgup")
	ActionFunc(doFilter).Register("Filter", "/")
	ActionFunc(doClearFilter).Register("ClearFilter", "c")
	ActionFunc(doIncreaseContext).Register("IncreaseContext", "+")
	ActionFunc(doDecreaseContext).Register("DecreaseContext", "-")
	ActionFunc(doRefresh).Register("Refresh", "C-l")
	ActionFunc(doQuit).Register("Quit", "q", "C-c")
	ActionFunc(doNop).Register("Nop")
}

func doNextLine(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if _, ok := p.window.NextLine(); !ok {
		p.statusMsg = "(END)"
	}
}

func doPrevLine(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if _, ok := p.window.PrevLine(); !ok {
		p.statusMsg = "(TOP)"
	}
}

func doNextPage(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if lines := p.window.NextPage(); len(lines) == 0 {
		p.statusMsg = "(END)"
	}
}

func doPrevPage(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if start, _ := p.window.Viewport(); start <= 1 {
		p.statusMsg = "(TOP)"
	}
	p.window.PrevPage()
}

func doFilter(_ context.Context, p *Pager, _ *tcell.EventKey) {
	p.prompting = true
	if pred := p.window.Predicate(); pred != nil {
		p.prompt.Set(pred.Query)
	} else {
		p.prompt.Reset()
	}
}

func doClearFilter(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if p.window.Predicate() == nil {
		return
	}
	p.applyPredicate(nil)
}

func doIncreaseContext(_ context.Context, p *Pager, _ *tcell.EventKey) {
	p.setContext(p.context + 1)
}

func doDecreaseContext(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if p.context == 0 {
		return
	}
	p.setContext(p.context - 1)
}

func doRefresh(_ context.Context, p *Pager, _ *tcell.EventKey) {
	p.screen.Sync()
}

func doQuit(_ context.Context, p *Pager, _ *tcell.EventKey) {
	if pdebug.Enabled {
		pdebug.Printf("Quit requested")
	}
	p.quit = true
}

func doNop(_ context.Context, _ *Pager, _ *tcell.EventKey) {}

// setContext changes the context radius, refiltering if a filter is
// active
func (p *Pager) setContext(n int) {
	p.context = n
	p.statusMsg = fmt.Sprintf("context: %d", n)

	pred := p.window.Predicate()
	if pred == nil {
		return
	}
	pred.Context = n
	p.applyPredicate(pred)
}

// applyPredicate restarts the window with pred and shows its first page
func (p *Pager) applyPredicate(pred *filter.Predicate) {
	tracer.Printf("applying predicate %s", pred)
	p.window.SetPredicate(pred)
	p.window.NextPage()
}
