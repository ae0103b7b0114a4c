package graph

import (
	"strconv"

	"github.com/vk/playtraversal/internal/prompt"
)

// Expansion is a node result that defers to a new subgraph. The host adds
// Graph to the run and completes the expanding node with Result, resolving
// any links once their producers have run.
type Expansion struct {
	Graph  prompt.Prompt
	Result []prompt.Input
}

// Builder assembles the node table of an Expansion. Every node id is the
// builder prefix followed by the local id.
type Builder struct {
	prefix string
	nodes  map[string]*BuilderNode
	order  []string
	nextID int
}

// NewBuilder returns a builder whose node ids start with prefix.
func NewBuilder(prefix string) *Builder {
	return &Builder{prefix: prefix, nodes: make(map[string]*BuilderNode)}
}

// Prefix returns the id prefix of the builder.
func (b *Builder) Prefix() string {
	return b.prefix
}

// Node adds a node of classType under the local id. An empty id allocates
// the next free numeric id. Adding an id twice returns the existing node.
func (b *Builder) Node(classType, id string) *BuilderNode {
	if id == "" {
		for {
			id = strconv.Itoa(b.nextID)
			b.nextID++
			if _, taken := b.nodes[id]; !taken {
				break
			}
		}
	}
	if n, ok := b.nodes[id]; ok {
		return n
	}
	n := &BuilderNode{
		id:        b.prefix + id,
		classType: classType,
		inputs:    make(map[string]prompt.Input),
	}
	b.nodes[id] = n
	b.order = append(b.order, id)
	return n
}

// Lookup returns the node added under the local id, or nil.
func (b *Builder) Lookup(id string) *BuilderNode {
	return b.nodes[id]
}

// Finalize returns the node table keyed by full id.
func (b *Builder) Finalize() prompt.Prompt {
	out := make(prompt.Prompt, len(b.nodes))
	for _, id := range b.order {
		n := b.nodes[id]
		out[n.id] = &prompt.Node{
			ClassType:         n.classType,
			Inputs:            n.inputs,
			OverrideDisplayID: n.overrideDisplayID,
		}
	}
	return out
}

// BuilderNode is a node under construction.
type BuilderNode struct {
	id                string
	classType         string
	inputs            map[string]prompt.Input
	overrideDisplayID string
}

// ID returns the full node id.
func (n *BuilderNode) ID() string {
	return n.id
}

// ClassType returns the node class.
func (n *BuilderNode) ClassType() string {
	return n.classType
}

// Out returns a link to the given output slot of the node.
func (n *BuilderNode) Out(slot int) prompt.Input {
	return prompt.LinkTo(n.id, slot)
}

// SetInput sets an input to a literal or a link.
func (n *BuilderNode) SetInput(name string, in prompt.Input) {
	n.inputs[name] = in
}

// SetValue sets an input to a literal value.
func (n *BuilderNode) SetValue(name string, v any) {
	n.inputs[name] = prompt.Literal(v)
}

// Input returns the current value of an input.
func (n *BuilderNode) Input(name string) (prompt.Input, bool) {
	in, ok := n.inputs[name]
	return in, ok
}

// SetOverrideDisplayID makes the node display as id.
func (n *BuilderNode) SetOverrideDisplayID(id string) {
	n.overrideDisplayID = id
}
