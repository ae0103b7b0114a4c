// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for node identifiers
within a prompt graph, based on the canonical dotted format.

A node authored by the user has a single-segment id such as `12`. Nodes that
were created by a graph expansion live "inside" the node that expanded them
and carry the expanding node's id as a prefix, e.g. `12.0.7` or
`12.0.Recurse`. The final segment is the local id; everything before it is
the nesting prefix.

This package centralizes parsing and the few path manipulations the loop
analyzer needs (replace the final segment, join a prefix).
*/
package nodeid
