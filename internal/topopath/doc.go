/*
Package topopath computes the canonical locations of nodes, link lists, links
and link property files inside a topology tree exported by the kernel.

The layout is:

	<root>/<node>/io_links/<link>/properties

All functions are pure string construction. Nothing here touches the
filesystem or checks that a path exists.
*/
package topopath
