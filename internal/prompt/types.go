package prompt

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Link references output slot Slot of node NodeID.
type Link struct {
	NodeID string
	Slot   int
}

// Input is a node input: either a literal value or a Link.
type Input struct {
	link  *Link
	value any
}

// Literal wraps a plain value as an input.
func Literal(v any) Input {
	return Input{value: v}
}

// LinkTo builds a link input to slot of node id.
func LinkTo(id string, slot int) Input {
	return Input{link: &Link{NodeID: id, Slot: slot}}
}

// IsLink reports whether the input references another node.
func (i Input) IsLink() bool {
	return i.link != nil
}

// Link returns the referenced producer, if any.
func (i Input) Link() (Link, bool) {
	if i.link == nil {
		return Link{}, false
	}
	return *i.link, true
}

// Value returns the literal value. It is nil for links.
func (i Input) Value() any {
	return i.value
}

// Node is one entry of a prompt.
type Node struct {
	ClassType string           `json:"class_type"`
	Inputs    map[string]Input `json:"inputs"`
	// OverrideDisplayID points an expanded node back at the authored node it
	// stands in for.
	OverrideDisplayID string `json:"override_display_id,omitempty"`
}

// NewNode creates a node with an empty input map.
func NewNode(classType string) *Node {
	return &Node{ClassType: classType, Inputs: make(map[string]Input)}
}

// Clone copies the node and its input map. Literal values are shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Inputs = maps.Clone(n.Inputs)
	if c.Inputs == nil {
		c.Inputs = make(map[string]Input)
	}
	return &c
}

// InputNames returns the node's input names in sorted order.
func (n *Node) InputNames() []string {
	return slices.Sorted(maps.Keys(n.Inputs))
}

// Links returns every link input of the node, keyed by input name.
func (n *Node) Links() map[string]Link {
	out := make(map[string]Link)
	for name, in := range n.Inputs {
		if l, ok := in.Link(); ok {
			out[name] = l
		}
	}
	return out
}

// Prompt is a node table keyed by node id.
type Prompt map[string]*Node

// Clone copies the table and every node.
func (p Prompt) Clone() Prompt {
	out := make(Prompt, len(p))
	for id, n := range p {
		out[id] = n.Clone()
	}
	return out
}

// IDs returns the node ids in natural order (see SortIDs).
func (p Prompt) IDs() []string {
	ids := slices.Collect(maps.Keys(p))
	SortIDs(ids)
	return ids
}

// SortIDs orders ids segment by segment, comparing numeric segments as
// numbers so that "10" sorts after "9".
func SortIDs(ids []string) {
	slices.SortFunc(ids, CompareIDs)
}

// CompareIDs is the comparison used by SortIDs.
func CompareIDs(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

func compareSegment(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return an - bn
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
