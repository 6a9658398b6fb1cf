/*
Package iolink discovers the directional interconnects ("IO links") between
compute and accelerator nodes as exported by the kernel topology interface.

A topology tree looks like this:

	<root>/0/io_links/0/properties
	<root>/0/io_links/1/properties
	<root>/1/io_links/0/properties

Each properties file holds `<key> <uint>` lines. Four keys are required for a
link to be usable: type, node_from, node_to and weight. Any other key is kept
and can be read with Link.GetProperty.

# Aggregates

DiscoverAll fills a map keyed by the (node_from, node_to) pair each link
reports about itself. DiscoverForNode fills a map keyed by node_to, restricted
to the links stored under one node's io_links directory. Both require an
empty, non-nil map and store links by value; a Link is immutable once
initialized.

# Failure policy

With PolicyAbort (the default) the first link that cannot be read or is
missing a required key aborts the whole pass. With PolicySkip the failure is
recorded in the Report and enumeration continues, which suits a live tree
where entries can vanish between listing and reading.
*/
package iolink
