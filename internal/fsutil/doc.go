// Package fsutil provides the small set of file system checks used while
// walking a topology tree: regular-file detection and enumeration of
// decimal-named directory entries.
package fsutil
