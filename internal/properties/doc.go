// Package properties reads and parses link property files. A property file
// is a sequence of `<key> <unsigned integer>` lines, optionally followed by
// blank lines. Anything after the integer on a line is ignored. Every value
// is modelled as a uint64.
package properties
