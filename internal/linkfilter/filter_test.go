package linkfilter

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/iolinks/internal/iolink"
	"github.com/specialistvlad/iolinks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// loadLinks discovers a small tree: an xGMI link 0->1 and a PCIe link 0->2
// that also reports a max_bandwidth.
func loadLinks(t *testing.T) []iolink.Link {
	t.Helper()
	tree := testutil.NewTree(t).
		AddLink(0, 0, 11, 0, 1, 15).
		AddLink(0, 1, 2, 0, 2, 40, "max_bandwidth 16000")
	out := map[uint32]iolink.Link{}
	_, err := iolink.NewDiscoverer(iolink.WithLayout(tree.Layout())).DiscoverForNode(context.Background(), 0, out)
	require.NoError(t, err)
	return []iolink.Link{out[1], out[2]}
}

func TestMatch(t *testing.T) {
	links := loadLinks(t)

	testCases := []struct {
		name     string
		expr     string
		expected []bool
	}{
		{name: "by type number", expr: "type == 11", expected: []bool{true, false}},
		{name: "by type name", expr: `type_name == "pcie"`, expected: []bool{false, true}},
		{name: "compound", expr: "node_from == 0 && weight < 20", expected: []bool{true, false}},
		{name: "directory index", expr: "link == 1", expected: []bool{false, true}},
		{name: "literal", expr: "true", expected: []bool{true, true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Compile(tc.expr)
			require.NoError(t, err)

			for i, l := range links {
				got, err := f.Match(l)
				require.NoError(t, err)
				assert.Equal(t, tc.expected[i], got, "link %s", l)
			}
		})
	}
}

func TestMatch_Errors(t *testing.T) {
	links := loadLinks(t)

	f, err := Compile("max_bandwidth > 1000")
	require.NoError(t, err)
	_, err = f.Match(links[0])
	require.Error(t, err, "property missing on the xGMI link")
	ok, err := f.Match(links[1])
	require.NoError(t, err)
	assert.True(t, ok)

	f, err = Compile("weight + 1")
	require.NoError(t, err)
	_, err = f.Match(links[0])
	require.Error(t, err, "non-bool result")
}

func TestCompile(t *testing.T) {
	f, err := Compile("  ")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = Compile("type ==")
	require.Error(t, err)
}

func TestNilFilterMatchesAll(t *testing.T) {
	links := loadLinks(t)
	var f *Filter

	kept, err := f.Apply(links)

	require.NoError(t, err)
	assert.Len(t, kept, 2)
	assert.Equal(t, "", f.String())
}

func TestApply(t *testing.T) {
	links := loadLinks(t)
	f, err := Compile("weight >= 40")
	require.NoError(t, err)

	kept, err := f.Apply(links)

	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, uint32(2), kept[0].NodeTo())
}

func TestNew_NullExpression(t *testing.T) {
	assert.Nil(t, New(hcl.StaticExpr(cty.NullVal(cty.DynamicPseudoType), hcl.Range{})))
	assert.Nil(t, New(nil))
	assert.NotNil(t, New(hcl.StaticExpr(cty.True, hcl.Range{})))
}
