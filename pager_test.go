package filterless

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/source"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	require.NoError(t, cfg.Init())
	return cfg
}

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

// newTestPager creates a Pager on a simulated screen of the given size,
// already showing its first page
func newTestPager(t *testing.T, cfg *config.Config, width, height int, lines ...string) (*Pager, tcell.SimulationScreen) {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig(t)
	}

	sim := tcell.NewSimulationScreen("")
	p, err := NewPager(newTcellScreenWith(sim), source.FromStrings(lines...), cfg)
	require.NoError(t, err)
	require.NoError(t, p.setup())
	t.Cleanup(func() { p.screen.Close() })

	sim.SetSize(width, height)
	p.handleEvent(context.Background(), tcell.NewEventResize(width, height))
	require.NoError(t, p.draw())
	return p, sim
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func press(t *testing.T, p *Pager, events ...*tcell.EventKey) {
	t.Helper()
	for _, ev := range events {
		p.handleEvent(context.Background(), ev)
		require.NoError(t, p.draw())
	}
}

func typeText(t *testing.T, p *Pager, s string) {
	t.Helper()
	for _, r := range s {
		press(t, p, runeKey(r))
	}
}

// screenRow returns the text on row y, without trailing blanks
func screenRow(sim tcell.SimulationScreen, y int) string {
	width, _ := sim.Size()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		s, _, _ := sim.Get(x, y)
		if s == "" {
			s = " "
		}
		sb.WriteString(s)
	}
	return strings.TrimRight(sb.String(), " ")
}

func screenRows(sim tcell.SimulationScreen, height int) []string {
	rows := make([]string, height)
	for y := range rows {
		rows[y] = screenRow(sim, y)
	}
	return rows
}

func TestPagerFirstPage(t *testing.T) {
	_, sim := newTestPager(t, nil, 30, 4, numberedLines(10)...)

	require.Equal(t, []string{
		"1 line 1",
		"2 line 2",
		"3 line 3",
		"no filter | lines 1-3",
	}, screenRows(sim, 4))
}

func TestPagerNavigation(t *testing.T) {
	p, sim := newTestPager(t, nil, 30, 4, numberedLines(10)...)

	viewport := func(start, end int) {
		t.Helper()
		s, e := p.window.Viewport()
		require.Equal(t, start, s, "viewport start")
		require.Equal(t, end, e, "viewport end")
	}

	press(t, p, runeKey('j'))
	viewport(2, 4)
	require.Equal(t, "2 line 2", screenRow(sim, 0))
	require.Equal(t, "no filter | lines 2-4", screenRow(sim, 3))

	press(t, p, runeKey(' '))
	viewport(5, 7)

	press(t, p, runeKey('b'))
	viewport(2, 4)

	press(t, p, runeKey('k'))
	viewport(1, 3)

	press(t, p, key(tcell.KeyUp))
	viewport(1, 3)
	require.Equal(t, "(TOP) | no filter | lines 1-3", screenRow(sim, 3))

	press(t, p, key(tcell.KeyPgUp))
	viewport(1, 3)
	require.Equal(t, "(TOP) | no filter | lines 1-3", screenRow(sim, 3))

	// the message lasts until the next key
	press(t, p, runeKey('Z'))
	require.Equal(t, "no filter | lines 1-3", screenRow(sim, 3))

	press(t, p, runeKey('f'), key(tcell.KeyPgDn), tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl))
	viewport(10, 10)
	require.Equal(t, []string{
		"10 line 10",
		"",
		"",
	}, screenRows(sim, 3))

	press(t, p, runeKey('f'))
	require.Equal(t, "", screenRow(sim, 0))
	require.Equal(t, "(END) | no filter", screenRow(sim, 3))

	press(t, p, key(tcell.KeyPgUp))
	viewport(8, 10)

	press(t, p, key(tcell.KeyDown))
	require.Equal(t, "(END) | no filter | lines 8-10", screenRow(sim, 3))
}

func TestPagerStatusMessageOnNarrowScreen(t *testing.T) {
	p, sim := newTestPager(t, nil, 12, 4, numberedLines(10)...)

	press(t, p, runeKey('k'))
	require.Equal(t, "(TOP) | no f", screenRow(sim, 3))
}

func TestPagerFilter(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ContextLines = 0
	p, sim := newTestPager(t, cfg, 60, 4, numberedLines(10)...)

	press(t, p, runeKey('/'))
	require.True(t, p.prompting)
	typeText(t, p, "e 1")
	require.Equal(t, "/e 1", screenRow(sim, 3))

	press(t, p, key(tcell.KeyEnter))
	require.False(t, p.prompting)
	require.Equal(t, []string{
		" 1 line 1",
		"-----",
		"10 line 10",
		`filter: "e 1" (context 0) | lines 1-3`,
	}, screenRows(sim, 4))

	styles := NewStyleSet(&cfg.Style)
	_, style, _ := sim.Get(3, 0)
	require.Equal(t, styles.Basic, style, "text outside of the match")
	_, style, _ = sim.Get(6, 0)
	require.Equal(t, styles.Matched, style, "first rune of the match")
	_, style, _ = sim.Get(8, 0)
	require.Equal(t, styles.Matched, style, "last rune of the match")
	_, style, _ = sim.Get(1, 0)
	require.Equal(t, styles.LineNumber, style)
	_, style, _ = sim.Get(0, 1)
	require.Equal(t, styles.Gap, style)

	// editing starts from the current filter
	press(t, p, runeKey('/'))
	require.Equal(t, "e 1", p.prompt.String())

	// an empty filter shows everything again
	press(t, p, key(tcell.KeyBackspace2), key(tcell.KeyBackspace2), key(tcell.KeyBackspace2), key(tcell.KeyEnter))
	require.Nil(t, p.window.Predicate())
	require.Equal(t, "1 line 1", screenRow(sim, 0))
}

func TestPagerFilterWithContext(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ContextLines = 1
	p, sim := newTestPager(t, cfg, 60, 4, numberedLines(10)...)

	press(t, p, runeKey('/'))
	typeText(t, p, "line 5")
	press(t, p, key(tcell.KeyEnter))

	require.Equal(t, []string{
		"-----",
		"4 line 4",
		"5 line 5",
	}, screenRows(sim, 3))

	press(t, p, runeKey('j'))
	require.Equal(t, "6 line 6", screenRow(sim, 2))

	press(t, p, runeKey('j'))
	require.Equal(t, "6 line 6", screenRow(sim, 2), "nothing follows the trailing context")
	require.Equal(t, `(END) | filter: "line 5" (context 1) | lines 2-4`, screenRow(sim, 3))
}

func TestPagerPromptEditing(t *testing.T) {
	p, sim := newTestPager(t, nil, 30, 4, numberedLines(3)...)

	press(t, p, runeKey('/'))
	typeText(t, p, "abc")
	press(t, p, key(tcell.KeyBackspace2), key(tcell.KeyLeft), runeKey('X'))
	require.Equal(t, "aXb", p.prompt.String())
	require.Equal(t, "/aXb", screenRow(sim, 3))

	x, y, visible := sim.GetCursor()
	require.True(t, visible)
	require.Equal(t, 3, y)
	require.Equal(t, 3, x, "cursor sits after the prompt and 'aX'")

	press(t, p, tcell.NewEventKey(tcell.KeyCtrlA, 0, tcell.ModCtrl), runeKey('>'))
	require.Equal(t, ">aXb", p.prompt.String())
	press(t, p, tcell.NewEventKey(tcell.KeyCtrlE, 0, tcell.ModCtrl), runeKey('<'))
	require.Equal(t, ">aXb<", p.prompt.String())

	// keys bound to actions are plain text while prompting
	typeText(t, p, "q")
	require.False(t, p.quit)
	require.Equal(t, ">aXb<q", p.prompt.String())

	press(t, p, key(tcell.KeyEscape))
	require.False(t, p.prompting)
	require.Nil(t, p.window.Predicate(), "canceling does not apply the filter")
	require.Equal(t, "no filter | lines 1-3", screenRow(sim, 3))
}

func TestPagerContext(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ContextLines = 0
	p, sim := newTestPager(t, cfg, 60, 4, numberedLines(10)...)

	press(t, p, runeKey('/'))
	typeText(t, p, "line 5")
	press(t, p, key(tcell.KeyEnter))
	require.Equal(t, []string{"-----", "5 line 5", ""}, screenRows(sim, 3))

	press(t, p, runeKey('+'))
	require.Equal(t, 1, p.context)
	require.Equal(t, []string{"-----", "4 line 4", "5 line 5"}, screenRows(sim, 3))
	require.Equal(t, `context: 1 | filter: "line 5" (context 1) | lines 1-3`, screenRow(sim, 3))

	press(t, p, runeKey('-'), runeKey('-'))
	require.Equal(t, 0, p.context, "context never goes below zero")
	require.Equal(t, 0, p.window.Predicate().Context)

	// without a filter only the radius for the next filter changes
	press(t, p, runeKey('c'))
	require.Nil(t, p.window.Predicate())
	press(t, p, runeKey('+'), runeKey('+'))
	require.Nil(t, p.window.Predicate())
	require.Equal(t, 2, p.context)

	press(t, p, runeKey('/'))
	typeText(t, p, "line 5")
	press(t, p, key(tcell.KeyEnter))
	require.Equal(t, 2, p.window.Predicate().Context)
}

func TestPagerClearFilter(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.InitialFilter = "line 9"
	cfg.ContextLines = 0
	p, sim := newTestPager(t, cfg, 30, 4, numberedLines(10)...)

	require.Equal(t, []string{"-----", "9 line 9", ""}, screenRows(sim, 3))

	press(t, p, runeKey('c'))
	require.Nil(t, p.window.Predicate())
	require.Equal(t, []string{"1 line 1", "2 line 2", "3 line 3"}, screenRows(sim, 3))
}

func TestPagerResize(t *testing.T) {
	p, sim := newTestPager(t, nil, 30, 4, numberedLines(10)...)

	sim.SetSize(30, 6)
	press(t, p)
	p.handleEvent(context.Background(), tcell.NewEventResize(30, 6))
	require.NoError(t, p.draw())

	require.Equal(t, 5, p.window.Height())
	require.Equal(t, []string{
		"1 line 1",
		"2 line 2",
		"3 line 3",
		"4 line 4",
		"5 line 5",
		"no filter | lines 1-5",
	}, screenRows(sim, 6))

	sim.SetSize(30, 3)
	p.handleEvent(context.Background(), tcell.NewEventResize(30, 3))
	require.NoError(t, p.draw())
	require.Equal(t, "no filter | lines 1-2", screenRow(sim, 2))
}

func TestPagerTruncatesLongLines(t *testing.T) {
	_, sim := newTestPager(t, nil, 10, 2, "abcdefghijklmnop", "x\ty")

	require.Equal(t, "1 abcdefgh", screenRow(sim, 0))
}

func TestPagerUnboundKeyIsIgnored(t *testing.T) {
	p, sim := newTestPager(t, nil, 30, 4, numberedLines(10)...)
	press(t, p, runeKey('Z'))
	require.Equal(t, "1 line 1", screenRow(sim, 0))
	require.False(t, p.quit)
}

func TestPagerKeymapOverride(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Keymap["x"] = "filterless.Quit"
	cfg.Keymap["q"] = "filterless.Nop"
	p, _ := newTestPager(t, cfg, 30, 4, numberedLines(10)...)

	press(t, p, runeKey('q'))
	require.False(t, p.quit)
	press(t, p, runeKey('x'))
	require.True(t, p.quit)
}

func TestNewPagerUnknownAction(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Keymap["x"] = "filterless.DoesNotExist"
	_, err := NewPager(newTcellScreenWith(tcell.NewSimulationScreen("")), source.FromStrings(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "filterless.DoesNotExist")
}

// readyScreen closes ready once the screen has been initialized, so
// that tests know when events can be injected
type readyScreen struct {
	*TcellScreen
	ready chan struct{}
}

func (s *readyScreen) Init() error {
	if err := s.TcellScreen.Init(); err != nil {
		return err
	}
	close(s.ready)
	return nil
}

func startPager(t *testing.T, ctx context.Context, lines ...string) (*Pager, tcell.SimulationScreen, chan error) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	screen := &readyScreen{TcellScreen: newTcellScreenWith(sim), ready: make(chan struct{})}
	p, err := NewPager(screen, source.FromStrings(lines...), newTestConfig(t))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	select {
	case <-screen.ready:
	case <-time.After(2 * time.Second):
		t.Fatal("pager did not initialize the screen")
	}
	return p, sim, errCh
}

func TestPagerRunQuit(t *testing.T) {
	_, sim, errCh := startPager(t, context.Background(), numberedLines(100)...)

	sim.InjectKey(tcell.KeyRune, 'j', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}
}

func TestPagerRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, _, errCh := startPager(t, ctx, numberedLines(3)...)

	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
