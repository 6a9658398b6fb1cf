package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
)

// CloseError reports a failure to release a directory handle after reading it.
type CloseError struct {
	Path string
	Err  error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("failed to close directory %s: %v", e.Path, e.Err)
}

func (e *CloseError) Unwrap() error {
	return e.Err
}

// IsNumber reports whether name is a non-empty run of ASCII decimal digits.
func IsNumber(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}

// IsRegularFile reports whether path resolves to a regular file. A path that
// does not exist is not an error; it simply is not a regular file.
func IsRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// NumericEntries lists the entries of dir whose names are decimal integers and
// returns them as indices in ascending order. Hidden entries are skipped, as
// are numeric names too large for a uint32.
//
// The directory handle is always closed. If reading succeeded but closing did
// not, the returned error is a *CloseError.
func NumericEntries(dir string) (indices []uint32, err error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			indices = nil
			err = &CloseError{Path: dir, Err: cerr}
		}
	}()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name[0] == '.' || !IsNumber(name) {
			continue
		}
		index, perr := strconv.ParseUint(name, 10, 32)
		if perr != nil {
			continue
		}
		indices = append(indices, uint32(index))
	}
	slices.Sort(indices)

	return indices, nil
}
