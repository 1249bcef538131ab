package source

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lestrrat-go/pdebug"
	"github.com/peco/filterless/internal/ansi"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxLineSize is the longest line (in KiB) a Reader accepts
const DefaultMaxLineSize = 256

const initialScanBufferSize = 4096

// Reader reads lines from an io.Reader. Nothing is read until the first
// call to ReadLine, so a Reader over a pipe can be created before any
// data is available.
type Reader struct {
	in          io.Reader
	scanner     *bufio.Scanner
	maxLineSize int
	stripANSI   bool
	err         error
	read        int
}

// Option configures a Reader
type Option func(*Reader)

// WithMaxLineSize sets the size of the longest line, in KiB. Lines longer
// than this cause ReadLine to fail.
func WithMaxLineSize(kb int) Option {
	return func(r *Reader) {
		if kb > 0 {
			r.maxLineSize = kb
		}
	}
}

// WithStripANSI makes the Reader remove terminal escape sequences from
// every line it returns
func WithStripANSI(strip bool) Option {
	return func(r *Reader) {
		r.stripANSI = strip
	}
}

// NewReader creates a new Reader
func NewReader(in io.Reader, options ...Option) *Reader {
	r := &Reader{
		in:          in,
		maxLineSize: DefaultMaxLineSize,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *Reader) setup() {
	// A byte order mark switches decoding to UTF-16 (or strips the UTF-8
	// BOM). Everything else is passed through untouched so that invalid
	// UTF-8 can be reported per line.
	decoded := transform.NewReader(r.in, unicode.BOMOverride(transform.Nop))

	maxBytes := r.maxLineSize * 1024
	bufSize := initialScanBufferSize
	if bufSize > maxBytes {
		bufSize = maxBytes
	}
	r.scanner = bufio.NewScanner(decoded)
	r.scanner.Buffer(make([]byte, 0, bufSize), maxBytes)

	if pdebug.Enabled {
		pdebug.Printf("source.Reader: using max line size of %dkb", r.maxLineSize)
	}
}

// ReadLine returns the next line without its line terminator.
func (r *Reader) ReadLine() (string, error) {
	if r.err != nil {
		return "", r.err
	}

	if r.scanner == nil {
		r.setup()
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			r.err = errors.Wrapf(err, "failed to read line %d", r.read+1)
		} else {
			if pdebug.Enabled {
				pdebug.Printf("source.Reader: read all %d lines", r.read)
			}
			r.err = io.EOF
		}
		return "", r.err
	}
	r.read++

	text := strings.TrimSuffix(r.scanner.Text(), "\r")
	if r.stripANSI {
		text = ansi.Strip(text)
	}
	if !utf8.ValidString(text) {
		return strings.ToValidUTF8(text, string(utf8.RuneError)), ErrInvalidEncoding
	}
	return text, nil
}

// Close closes the underlying reader, if it can be closed
func (r *Reader) Close() error {
	if closer, ok := r.in.(io.Closer); ok {
		return errors.Wrap(closer.Close(), "failed to close source")
	}
	return nil
}
