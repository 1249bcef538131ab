package util

import (
	"github.com/mattn/go-isatty"
)

type fder interface {
	Fd() uintptr
}

// IsTty checks if the given value is a file descriptor attached to a
// terminal. Values without an Fd method are never terminals.
func IsTty(arg any) bool {
	fdsrc, ok := arg.(fder)
	if !ok {
		return false
	}
	fd := fdsrc.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type causer interface {
	Cause() error
}

type unwrapper interface {
	Unwrap() error
}

type ignorable interface {
	Ignorable() bool
}

type exitStatuser interface {
	ExitStatus() int
}

// next returns the error wrapped by e, following both pkg/errors
// style Cause() and standard library Unwrap()
func next(e error) error {
	switch v := e.(type) {
	case causer:
		return v.Cause()
	case unwrapper:
		return v.Unwrap()
	}
	return nil
}

// IsIgnorableError reports whether err (or an error it wraps) says it
// should not be reported to the user, e.g. after --help was requested.
func IsIgnorableError(err error) bool {
	for e := err; e != nil; e = next(e) {
		if v, ok := e.(ignorable); ok {
			return v.Ignorable()
		}
	}
	return false
}

// GetExitStatus returns the exit status carried by err or one of the
// errors it wraps. If none carries one, it returns 1 and false.
func GetExitStatus(err error) (int, bool) {
	for e := err; e != nil; e = next(e) {
		if ese, ok := e.(exitStatuser); ok {
			return ese.ExitStatus(), true
		}
	}
	return 1, false
}
