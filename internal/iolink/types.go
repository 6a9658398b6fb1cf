package iolink

import "strconv"

// Property names understood by the kernel exporter. Only the first four are
// required; the rest are optional and read through the Link accessors that
// return an error, or through GetProperty.
const (
	PropType                    = "type"
	PropNodeFrom                = "node_from"
	PropNodeTo                  = "node_to"
	PropWeight                  = "weight"
	PropVersionMajor            = "version_major"
	PropVersionMinor            = "version_minor"
	PropMinLatency              = "min_latency"
	PropMaxLatency              = "max_latency"
	PropMinBandwidth            = "min_bandwidth"
	PropMaxBandwidth            = "max_bandwidth"
	PropRecommendedTransferSize = "recommended_transfer_size"
	PropFlags                   = "flags"
)

// Type is the link medium as reported in the type property.
type Type uint32

const (
	TypeUndefined      Type = 0
	TypeHyperTransport Type = 1
	TypePCIe           Type = 2
	TypeAMBA           Type = 3
	TypeMIPI           Type = 4
	TypeQPI11          Type = 5
	TypeXGMI           Type = 11
)

var typeNames = map[Type]string{
	TypeUndefined:      "undefined",
	TypeHyperTransport: "hypertransport",
	TypePCIe:           "pcie",
	TypeAMBA:           "amba",
	TypeMIPI:           "mipi",
	TypeQPI11:          "qpi_1_1",
	TypeXGMI:           "xgmi",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "type(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// Pair is the key of the global link aggregate.
type Pair struct {
	From uint32
	To   uint32
}

func (p Pair) String() string {
	return strconv.FormatUint(uint64(p.From), 10) + "->" + strconv.FormatUint(uint64(p.To), 10)
}
