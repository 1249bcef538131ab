package filterless

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/peco/filterless/config"
	"github.com/peco/filterless/filter"
	"github.com/peco/filterless/internal/sig"
	"github.com/peco/filterless/internal/util"
	"github.com/peco/filterless/source"
	"github.com/pkg/errors"
)

type errIgnorable struct {
	err error
}

func (e errIgnorable) Ignorable() bool { return true }
func (e errIgnorable) Cause() error {
	return e.err
}
func (e errIgnorable) Error() string {
	return e.err.Error()
}

func makeIgnorable(err error) error {
	return &errIgnorable{err: err}
}

// NewCLI creates a CLI connected to the standard streams
func NewCLI() *CLI {
	return &CLI{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run parses args (without the program name) and runs filterless. An
// error satisfying util.IsIgnorableError means nothing went wrong.
func (c *CLI) Run(ctx context.Context, args []string) error {
	var opts CLIOptions
	args, err := opts.parse(args, c.Stderr)
	if err != nil {
		return err
	}

	if opts.OptHelp {
		c.Stdout.Write(opts.help())
		return makeIgnorable(errors.New("user asked to show help message"))
	}

	if opts.OptVersion {
		fmt.Fprintf(c.Stdout, "filterless %s (built with %s)\n", version, runtime.Version())
		return makeIgnorable(errors.New("user asked to show version"))
	}

	cfg, err := c.loadConfig(opts.OptRcfile)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	in, err := c.openInput(args)
	if err != nil {
		return err
	}
	src := source.NewReader(in,
		source.WithMaxLineSize(cfg.MaxScanBufferSize),
		source.WithStripANSI(cfg.StripANSI),
	)
	defer src.Close()

	if opts.OptDump || (c.screen == nil && !util.IsTty(c.Stdout)) {
		return c.dump(src, cfg)
	}
	return c.page(ctx, src, cfg)
}

func (c *CLI) loadConfig(rcfile string) (*config.Config, error) {
	cfg := &config.Config{}
	if err := cfg.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize config")
	}

	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}

	if rcfile != "" {
		tracer.Printf("reading config from %s", rcfile)
		if err := cfg.ReadFilename(rcfile); err != nil {
			return nil, errors.Wrap(err, "failed to setup configuration")
		}
	}
	return cfg, nil
}

// openInput returns the file named in args, or stdin if it is not a
// terminal
func (c *CLI) openInput(args []string) (io.Reader, error) {
	switch len(args) {
	case 0:
	case 1:
		f, err := os.Open(args[0])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open file %s", args[0])
		}
		return f, nil
	default:
		return nil, errors.Errorf("too many arguments: expected at most one file, got %d", len(args))
	}

	if c.Stdin == nil || util.IsTty(c.Stdin) {
		return nil, errors.New("no input: give a file name or pipe data to stdin")
	}
	return c.Stdin, nil
}

func (c *CLI) dump(src source.Source, cfg *config.Config) error {
	colored := cfg.Color != config.ColorModeNone && util.IsTty(c.Stdout)

	out := c.Stdout
	if f, ok := c.Stdout.(*os.File); ok && colored {
		// translates escape sequences into console API calls on windows
		out = colorable.NewColorable(f)
	}

	d := &Dumper{
		Out:       out,
		Err:       c.Stderr,
		Color:     colored,
		GapMarker: cfg.GapMarker,
	}
	return d.Dump(src, filter.NewPredicate(cfg.InitialFilter, cfg.ContextLines))
}

func (c *CLI) page(ctx context.Context, src source.Source, cfg *config.Config) error {
	screen := c.screen
	if screen == nil {
		screen = NewTcellScreen()
	}

	pager, err := NewPager(screen, src, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigErrCh := make(chan error, 1)
	go func() {
		sigErrCh <- sig.New(nil).Loop(ctx, cancel)
	}()

	err = pager.Run(ctx)
	cancel()

	var received *sig.ReceivedError
	if errors.As(<-sigErrCh, &received) {
		return received
	}
	if err != nil {
		return errors.Wrap(err, "pager failed")
	}

	if w := pager.Window(); w != nil {
		if rerr := w.Err(); rerr != nil {
			return errors.Wrap(rerr, "failed to read input")
		}
	}
	return nil
}
