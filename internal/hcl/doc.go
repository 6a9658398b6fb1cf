// Package hcl provides the HCL implementation of config.Loader.
//
// A configuration file may contain at most one of each block:
//
//	topology {
//	  root     = "/sys/class/kfd/kfd/topology/nodes"
//	  node     = 0
//	  on_error = "skip"
//	}
//
//	output {
//	  format       = "yaml"
//	  where        = type == 11 && weight < 40
//	  metrics_file = "/var/lib/node_exporter/iolinks.prom"
//	}
//
//	logging {
//	  level  = "debug"
//	  format = "text"
//	}
//
// The where attribute is kept as an unevaluated expression; it is evaluated
// per link once discovery has run.
package hcl
