// Package render writes discovered links to an io.Writer as a plain text
// listing, a bordered table, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/specialistvlad/iolinks/internal/iolink"
	"gopkg.in/yaml.v3"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "table", "json", "yaml"}

// View is the serialized form of one link. The optional sections are
// present only when the link reports the underlying properties.
type View struct {
	From       uint32            `json:"from" yaml:"from"`
	To         uint32            `json:"to" yaml:"to"`
	Type       uint32            `json:"type" yaml:"type"`
	TypeName   string            `json:"type_name" yaml:"type_name"`
	Weight     uint64            `json:"weight" yaml:"weight"`
	Node       uint32            `json:"node" yaml:"node"`
	Link       uint32            `json:"link" yaml:"link"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
	Latency    *RangeView        `json:"latency,omitempty" yaml:"latency,omitempty"`
	Bandwidth  *RangeView        `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
	Transfer   *uint64           `json:"recommended_transfer_size,omitempty" yaml:"recommended_transfer_size,omitempty"`
	Flags      *uint64           `json:"flags,omitempty" yaml:"flags,omitempty"`
	Properties map[string]uint64 `json:"properties" yaml:"properties"`
}

// RangeView is a min/max property pair.
type RangeView struct {
	Min uint64 `json:"min" yaml:"min"`
	Max uint64 `json:"max" yaml:"max"`
}

// NewView converts an initialized link.
func NewView(l iolink.Link) View {
	v := View{
		From:       l.NodeFrom(),
		To:         l.NodeTo(),
		Type:       uint32(l.Type()),
		TypeName:   l.Type().String(),
		Weight:     l.Weight(),
		Node:       l.Node(),
		Link:       l.Index(),
		Properties: l.Properties(),
	}
	if major, minor, err := l.Version(); err == nil {
		v.Version = strconv.FormatUint(major, 10) + "." + strconv.FormatUint(minor, 10)
	}
	if r, err := l.Latency(); err == nil {
		v.Latency = &RangeView{Min: r.Min, Max: r.Max}
	}
	if r, err := l.Bandwidth(); err == nil {
		v.Bandwidth = &RangeView{Min: r.Min, Max: r.Max}
	}
	if size, err := l.RecommendedTransferSize(); err == nil {
		v.Transfer = &size
	}
	if flags, err := l.Flags(); err == nil {
		v.Flags = &flags
	}
	return v
}

// Sort orders links by (from, to), then by directory position.
func Sort(links []iolink.Link) {
	slices.SortFunc(links, func(a, b iolink.Link) int {
		switch {
		case a.NodeFrom() != b.NodeFrom():
			return cmpUint(a.NodeFrom(), b.NodeFrom())
		case a.NodeTo() != b.NodeTo():
			return cmpUint(a.NodeTo(), b.NodeTo())
		case a.Node() != b.Node():
			return cmpUint(a.Node(), b.Node())
		default:
			return cmpUint(a.Index(), b.Index())
		}
	})
}

func cmpUint(a, b uint32) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Render sorts links and writes them to w in the given format.
func Render(w io.Writer, format string, links []iolink.Link) error {
	Sort(links)
	views := make([]View, 0, len(links))
	for _, l := range links {
		views = append(views, NewView(l))
	}

	switch format {
	case "text":
		return writeText(w, views)
	case "table":
		return writeTable(w, views)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

var header = []string{"FROM", "TO", "TYPE", "WEIGHT", "NODE", "LINK"}

func row(v View) []string {
	return []string{
		strconv.FormatUint(uint64(v.From), 10),
		strconv.FormatUint(uint64(v.To), 10),
		v.TypeName,
		strconv.FormatUint(v.Weight, 10),
		strconv.FormatUint(uint64(v.Node), 10),
		strconv.FormatUint(uint64(v.Link), 10),
	}
}

func writeText(w io.Writer, views []View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, header)
	for _, v := range views {
		writeRow(tw, row(v))
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func writeTable(w io.Writer, views []View) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...)
	for _, v := range views {
		t.Row(row(v)...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
