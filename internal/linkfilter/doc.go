// Package linkfilter selects links with an HCL expression such as
//
//	type == 11 && weight < 40
//
// Every raw property of a link is available as a number variable, together
// with type_name (the link medium as a string), node and link (the directory
// indices the link was read from).
package linkfilter
