package topopath

import (
	"path/filepath"
	"strconv"
)

// DefaultRoot is where the KFD driver exports its node topology.
const DefaultRoot = "/sys/class/kfd/kfd/topology/nodes"

const (
	linkListDir    = "io_links"
	propertiesFile = "properties"
)

// Layout describes a topology tree rooted at Root. The zero value is not
// useful; use Default or construct one with an explicit Root.
type Layout struct {
	Root string
}

// Default returns the layout of the live kernel export.
func Default() Layout {
	return Layout{Root: DefaultRoot}
}

// NodePath returns <root>/<node>.
func (l Layout) NodePath(node uint32) string {
	return filepath.Join(l.Root, strconv.FormatUint(uint64(node), 10))
}

// LinkListPath returns <root>/<node>/io_links.
func (l Layout) LinkListPath(node uint32) string {
	return filepath.Join(l.NodePath(node), linkListDir)
}

// LinkPath returns <root>/<node>/io_links/<link>.
func (l Layout) LinkPath(node, link uint32) string {
	return filepath.Join(l.LinkListPath(node), strconv.FormatUint(uint64(link), 10))
}

// PropertiesPath returns the property file of one link.
func (l Layout) PropertiesPath(node, link uint32) string {
	return filepath.Join(l.LinkPath(node, link), propertiesFile)
}
