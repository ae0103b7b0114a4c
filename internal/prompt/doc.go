// Package prompt defines the host's node-graph description: a table of nodes
// keyed by id, each with a class type and a map of named inputs. An input is
// either a literal value or a link to an output slot of another node.
//
// The JSON codec follows the host's API format, where a link is encoded as a
// two-element array `["<producer id>", <slot>]` and anything else is a
// literal.
package prompt
