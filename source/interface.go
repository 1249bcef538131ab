package source

import "github.com/pkg/errors"

// ErrInvalidEncoding is returned alongside a line whose bytes are not
// valid UTF-8. The returned line is still usable: invalid sequences have
// been replaced with U+FFFD.
var ErrInvalidEncoding = errors.New("invalid UTF-8 sequence in line")

// Source produces lines of text, in order, exactly once. ReadLine returns
// io.EOF once there is nothing left to read. Any other error except
// ErrInvalidEncoding means the source is broken.
type Source interface {
	ReadLine() (string, error)
}
