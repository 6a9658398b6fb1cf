package config

import "github.com/hashicorp/hcl/v2"

// Model is the unified, format-agnostic representation of a configuration file.
type Model struct {
	Topology *Topology
	Output   *Output
	Logging  *Logging
}

// Topology selects which tree to read and how to treat broken entries.
type Topology struct {
	Root    *string
	Node    *int64
	OnError *string
}

// Output controls what is printed and exported after discovery.
type Output struct {
	Format      *string
	Where       hcl.Expression // nil when absent
	MetricsFile *string
}

// Logging mirrors the --log-* flags.
type Logging struct {
	Level  *string
	Format *string
}
