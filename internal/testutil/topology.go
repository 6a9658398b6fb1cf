package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/specialistvlad/iolinks/internal/topopath"
	"github.com/stretchr/testify/require"
)

// Tree builds a synthetic topology tree under a test's temporary directory.
type Tree struct {
	t    *testing.T
	root string
}

// NewTree creates an empty topology root.
func NewTree(t *testing.T) *Tree {
	t.Helper()
	root := filepath.Join(t.TempDir(), "nodes")
	require.NoError(t, os.MkdirAll(root, 0755))
	return &Tree{t: t, root: root}
}

// Root is the topology root directory.
func (tr *Tree) Root() string { return tr.root }

// Layout returns a layout pointing at the tree.
func (tr *Tree) Layout() topopath.Layout { return topopath.Layout{Root: tr.root} }

// AddNode creates an empty io_links directory for node.
func (tr *Tree) AddNode(node uint32) *Tree {
	tr.t.Helper()
	require.NoError(tr.t, os.MkdirAll(tr.Layout().LinkListPath(node), 0755))
	return tr
}

// AddLink writes a well-formed properties file with the four required keys
// plus any extra properties.
func (tr *Tree) AddLink(node, link uint32, typ, from, to, weight uint64, extra ...string) *Tree {
	tr.t.Helper()
	lines := []string{
		fmt.Sprintf("type %d", typ),
		fmt.Sprintf("node_from %d", from),
		fmt.Sprintf("node_to %d", to),
		fmt.Sprintf("weight %d", weight),
	}
	lines = append(lines, extra...)
	return tr.AddRaw(node, link, strings.Join(lines, "\n")+"\n")
}

// AddRaw writes content verbatim as the properties file of a link.
func (tr *Tree) AddRaw(node, link uint32, content string) *Tree {
	tr.t.Helper()
	layout := tr.Layout()
	require.NoError(tr.t, os.MkdirAll(layout.LinkPath(node, link), 0755))
	require.NoError(tr.t, os.WriteFile(layout.PropertiesPath(node, link), []byte(content), 0644))
	return tr
}

// AddDir creates an arbitrary directory relative to the root, for example a
// hidden or non-numeric entry that discovery must ignore.
func (tr *Tree) AddDir(rel string) *Tree {
	tr.t.Helper()
	require.NoError(tr.t, os.MkdirAll(filepath.Join(tr.root, rel), 0755))
	return tr
}

// Remove deletes a path relative to the root.
func (tr *Tree) Remove(rel string) *Tree {
	tr.t.Helper()
	require.NoError(tr.t, os.RemoveAll(filepath.Join(tr.root, rel)))
	return tr
}

// LinkDirs counts the numeric link directories under every numeric node,
// which is what a full discovery should return.
func (tr *Tree) LinkDirs() int {
	tr.t.Helper()
	count := 0
	nodes, err := os.ReadDir(tr.root)
	require.NoError(tr.t, err)
	for _, n := range nodes {
		if _, err := strconv.ParseUint(n.Name(), 10, 32); err != nil {
			continue
		}
		links, err := os.ReadDir(filepath.Join(tr.root, n.Name(), "io_links"))
		if err != nil {
			continue
		}
		count += len(slices.DeleteFunc(links, func(e os.DirEntry) bool {
			_, err := strconv.ParseUint(e.Name(), 10, 32)
			return err != nil
		}))
	}
	return count
}
