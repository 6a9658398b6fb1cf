package iolink

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/specialistvlad/iolinks/internal/fsutil"
	"github.com/specialistvlad/iolinks/internal/properties"
)

var (
	// ErrInvalidArgument is returned when a caller violates a precondition,
	// such as passing a nil or non-empty output map.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound covers missing property files and missing property keys.
	ErrNotFound = properties.ErrNotFound
	// ErrMalformed is returned for property values that are not unsigned integers.
	ErrMalformed = properties.ErrMalformed
	// ErrMissingProperty is returned by Initialize when a required key is
	// absent. Errors carrying it also match ErrNotFound.
	ErrMissingProperty = errors.New("missing required property")
	// ErrUninitialized is the panic value for reading a link before Initialize.
	ErrUninitialized = errors.New("link accessed before successful Initialize")
)

// IsNotFound reports whether err means an expected file, directory or key
// does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// StatusCode maps an error returned by this package onto a POSIX-style
// status: 0 for success, EINVAL for bad arguments or malformed data, ENOENT
// for anything missing, 1 for a directory that could not be closed, the
// underlying errno where one is available and EIO otherwise.
func StatusCode(err error) int {
	var closeErr *fsutil.CloseError
	var errno syscall.Errno

	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return int(syscall.EINVAL)
	case errors.As(err, &closeErr):
		return 1
	case IsNotFound(err):
		return int(syscall.ENOENT)
	case errors.Is(err, ErrMalformed):
		return int(syscall.EINVAL)
	case errors.As(err, &errno):
		return int(errno)
	default:
		return int(syscall.EIO)
	}
}

// reason classifies err into a short label for reports and metrics.
func reason(err error) string {
	var closeErr *fsutil.CloseError

	switch {
	case errors.Is(err, ErrMissingProperty):
		return "missing_property"
	case errors.As(err, &closeErr):
		return "close"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "io"
	}
}
