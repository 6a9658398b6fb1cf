package properties

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/iolinks/internal/fsutil"
)

var (
	// ErrNotFound is returned when a property file or a property key is absent.
	ErrNotFound = errors.New("not found")
	// ErrMalformed is returned for a line that is not `<key> <uint>`.
	ErrMalformed = errors.New("malformed property")
)

// Map holds the parsed properties of one link, keyed by property name.
type Map map[string]uint64

// Get returns the value stored under name.
func (m Map) Get(name string) (uint64, error) {
	v, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("property %q: %w", name, ErrNotFound)
	}
	return v, nil
}

// Keys returns the property names in lexical order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns an independent copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ReadLines reads the property file at path into its raw lines, in file
// order, with trailing blank lines removed. A path that is missing or is not
// a regular file yields ErrNotFound.
func ReadLines(path string) ([]string, error) {
	regular, err := fsutil.IsRegularFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !regular {
		return nil, fmt.Errorf("property file %s: %w", path, ErrNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return TrimTrailingBlank(lines), nil
}

// TrimTrailingBlank drops whitespace-only lines from the end of lines. It
// stops at the last line with content, so applying it twice is the same as
// applying it once.
func TrimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

// ParseLine splits a `<key> <value>` line. The value must be a base-10
// unsigned integer that fits in 64 bits. Tokens after the value are ignored.
func ParseLine(line string) (string, uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("%w: expected `<key> <value>`, got %q", ErrMalformed, line)
	}

	value, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: value of %q: %v", ErrMalformed, fields[0], err)
	}
	return fields[0], value, nil
}

// ParseAll parses every line into a Map. Blank lines in the middle of the
// file are ignored. When a key repeats, the last occurrence wins.
func ParseAll(lines []string) (Map, error) {
	props := make(Map, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		props[key] = value
	}
	return props, nil
}

// Read is ReadLines followed by ParseAll.
func Read(path string) (Map, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	props, err := ParseAll(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return props, nil
}
