package iolink

import (
	"context"
	"fmt"
	"math"

	"github.com/specialistvlad/iolinks/internal/ctxlog"
	"github.com/specialistvlad/iolinks/internal/properties"
	"github.com/specialistvlad/iolinks/internal/topopath"
)

// Link is one outbound interconnect of a node. Its identity (Node, Index) is
// fixed at construction; everything else comes from the properties file and
// is filled in by Initialize.
//
// Type, NodeFrom, NodeTo, Weight and Pair panic on a link that was never
// initialized. That includes the zero Link a map lookup returns for a
// missing key, so look links up with the two-value form or use Endpoints,
// which reports ErrUninitialized instead.
type Link struct {
	layout topopath.Layout
	node   uint32
	index  uint32

	props  properties.Map
	typ    Type
	from   uint32
	to     uint32
	weight uint64
	ready  bool
}

// New returns an uninitialized link for the given node and link index.
func New(layout topopath.Layout, node, index uint32) *Link {
	return &Link{layout: layout, node: node, index: index}
}

// Node is the index of the node whose io_links directory holds this link.
func (l Link) Node() uint32 { return l.node }

// Index is the link's position within its node's io_links directory.
func (l Link) Index() uint32 { return l.index }

// Initialized reports whether Initialize has succeeded.
func (l Link) Initialized() bool { return l.ready }

// Initialize reads and parses the link's properties file and resolves the
// required properties. The file is read at most once: when the property map
// is already populated, only the lookups are repeated.
func (l *Link) Initialize(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if len(l.props) == 0 {
		path := l.layout.PropertiesPath(l.node, l.index)
		props, err := properties.Read(path)
		if err != nil {
			return fmt.Errorf("link %d of node %d: %w", l.index, l.node, err)
		}
		l.props = props
		logger.Debug("Link properties read.", "node", l.node, "link", l.index, "count", len(props))
	}

	typ, err := l.required32(PropType)
	if err != nil {
		return err
	}
	from, err := l.required32(PropNodeFrom)
	if err != nil {
		return err
	}
	to, err := l.required32(PropNodeTo)
	if err != nil {
		return err
	}
	weight, err := l.required(PropWeight)
	if err != nil {
		return err
	}

	l.typ, l.from, l.to, l.weight = Type(typ), from, to, weight
	l.ready = true
	return nil
}

func (l Link) required(name string) (uint64, error) {
	v, err := l.props.Get(name)
	if err != nil {
		return 0, fmt.Errorf("link %d of node %d: %w: %w", l.index, l.node, ErrMissingProperty, err)
	}
	return v, nil
}

// required32 is required for properties stored in 32 bits.
func (l Link) required32(name string) (uint32, error) {
	v, err := l.required(name)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("link %d of node %d: %w: %s value %d exceeds 32 bits", l.index, l.node, ErrMalformed, name, v)
	}
	return uint32(v), nil
}

// GetProperty returns any raw property of the link, including ones without
// a dedicated accessor.
func (l Link) GetProperty(name string) (uint64, error) {
	return l.props.Get(name)
}

// Properties returns a copy of every property read for the link.
func (l Link) Properties() properties.Map {
	return l.props.Clone()
}

func (l Link) mustBeReady() {
	if !l.ready {
		panic(fmt.Errorf("iolink: node %d link %d: %w", l.node, l.index, ErrUninitialized))
	}
}

// Type is the link medium. It panics if Initialize has not succeeded.
func (l Link) Type() Type {
	l.mustBeReady()
	return l.typ
}

// NodeFrom is the source node reported by the link itself. It normally, but
// not necessarily, equals Node.
func (l Link) NodeFrom() uint32 {
	l.mustBeReady()
	return l.from
}

// NodeTo is the destination node.
func (l Link) NodeTo() uint32 {
	l.mustBeReady()
	return l.to
}

// Weight is the link's relative cost.
func (l Link) Weight() uint64 {
	l.mustBeReady()
	return l.weight
}

// Pair returns the (NodeFrom, NodeTo) key of the link.
func (l Link) Pair() Pair {
	return Pair{From: l.NodeFrom(), To: l.NodeTo()}
}

// Endpoints is Pair without the panic: an uninitialized link, including the
// zero Link, yields ErrUninitialized.
func (l Link) Endpoints() (Pair, error) {
	if !l.ready {
		return Pair{}, fmt.Errorf("node %d link %d: %w", l.node, l.index, ErrUninitialized)
	}
	return Pair{From: l.from, To: l.to}, nil
}

// Range is a pair of optional min/max properties.
type Range struct {
	Min uint64
	Max uint64
}

func (l Link) rangeOf(minName, maxName string) (Range, error) {
	lo, err := l.props.Get(minName)
	if err != nil {
		return Range{}, err
	}
	hi, err := l.props.Get(maxName)
	if err != nil {
		return Range{}, err
	}
	return Range{Min: lo, Max: hi}, nil
}

// Latency returns min_latency and max_latency. Both must be present,
// otherwise the error matches ErrNotFound.
func (l Link) Latency() (Range, error) {
	return l.rangeOf(PropMinLatency, PropMaxLatency)
}

// Bandwidth returns min_bandwidth and max_bandwidth.
func (l Link) Bandwidth() (Range, error) {
	return l.rangeOf(PropMinBandwidth, PropMaxBandwidth)
}

// Version returns version_major and version_minor.
func (l Link) Version() (major, minor uint64, err error) {
	v, err := l.rangeOf(PropVersionMajor, PropVersionMinor)
	return v.Min, v.Max, err
}

// RecommendedTransferSize returns the recommended_transfer_size property.
func (l Link) RecommendedTransferSize() (uint64, error) {
	return l.props.Get(PropRecommendedTransferSize)
}

// Flags returns the raw flags property.
func (l Link) Flags() (uint64, error) {
	return l.props.Get(PropFlags)
}

func (l Link) String() string {
	if !l.ready {
		return fmt.Sprintf("link %d/%d (uninitialized)", l.node, l.index)
	}
	return fmt.Sprintf("link %d/%d %s %s weight=%d", l.node, l.index, l.Pair(), l.typ, l.weight)
}
