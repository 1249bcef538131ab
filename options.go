package filterless

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/jessevdk/go-flags"
	"github.com/peco/filterless/config"
	"github.com/pkg/errors"
)

func (options *CLIOptions) parse(s []string, errWriter io.Writer) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		errWriter.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	return args, nil
}

func (options CLIOptions) Validate() error {
	if options.OptContext != nil && *options.OptContext < 0 {
		return errors.Errorf("context must not be negative: %d", *options.OptContext)
	}
	if options.OptBufferSize < 0 {
		return errors.Errorf("buffer size must not be negative: %d", options.OptBufferSize)
	}
	return nil
}

// apply overrides the values in cfg with those given on the command line
func (options CLIOptions) apply(cfg *config.Config) {
	if options.OptContext != nil {
		cfg.ContextLines = *options.OptContext
	}
	if options.OptFilter != "" {
		cfg.InitialFilter = options.OptFilter
	}
	if options.OptBufferSize > 0 {
		cfg.MaxScanBufferSize = options.OptBufferSize
	}
	if options.OptNoColor {
		cfg.Color = config.ColorModeNone
	}
	if options.OptStripANSI {
		cfg.StripANSI = true
	}
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: filterless [options] [FILE]

Pages through FILE (or stdin), optionally showing only the lines that
contain a filter string plus some lines of context around them.

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
