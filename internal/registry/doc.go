// Package registry maps node class types to their definitions: display
// metadata, declared inputs and outputs, and the Go function that runs the
// node.
//
// A Registry is an explicit value handed to whoever needs it. There is no
// process-wide table; the loop analyzer receives the registry's
// IsOutputNode method as a plain predicate.
package registry
