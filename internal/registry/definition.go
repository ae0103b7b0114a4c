package registry

import (
	"context"
	"slices"

	"github.com/vk/playtraversal/internal/graph"
	"github.com/vk/playtraversal/internal/node"
)

// Fn is the Go function behind a node class.
type Fn func(ctx context.Context, call *Call) (Result, error)

// Definition describes one node class.
type Definition struct {
	Class       string
	DisplayName string
	Category    string

	// Required inputs must be present on every node of the class.
	Required []string
	// Optional inputs may be absent; they are passed as missing.
	Optional []string
	// Hidden inputs are never authored. They are set by expansions.
	Hidden []string
	// RawLinks name link inputs that are handed to Fn as a prompt.Link
	// instead of the producer's value. The producer still runs first.
	RawLinks []string

	Outputs []string

	// OutputNode marks side-effecting sinks. The host always executes them.
	OutputNode bool

	Fn Fn
}

// IsRawLink reports whether input is declared as a raw link.
func (d *Definition) IsRawLink(input string) bool {
	return slices.Contains(d.RawLinks, input)
}

// Call carries everything a node function may look at.
type Call struct {
	// UniqueID is the id of the node being executed.
	UniqueID string
	// Prefix is the id prefix for an expansion built by this call.
	Prefix   string
	Graph    graph.Graph
	Registry *Registry
	// Inputs holds the resolved input values. Absent optional inputs are
	// not present in the map.
	Inputs map[string]any
}

// Input returns a resolved input value.
func (c *Call) Input(name string) (any, bool) {
	v, ok := c.Inputs[name]
	return v, ok
}

// Result is what a node function returns: either outputs, or an expansion
// whose result links become the outputs.
type Result struct {
	Outputs   node.Outputs
	Expansion *graph.Expansion
}

// Return builds a Result from output values.
func Return(values ...any) Result {
	return Result{Outputs: node.Outputs(values)}
}

// Expand builds a Result that defers to an expansion.
func Expand(e *graph.Expansion) Result {
	return Result{Expansion: e}
}
